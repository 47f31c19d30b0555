package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"record-store-go/internal/backend/memory"
	"record-store-go/internal/backend/postgres"
	redisbackend "record-store-go/internal/backend/redis"
	"record-store-go/internal/backend/retry"
	"record-store-go/internal/cache"
	"record-store-go/internal/config"
	"record-store-go/internal/db"
	documentdomain "record-store-go/internal/domain/document"
	"record-store-go/internal/event"
	"record-store-go/internal/metrics"
	"record-store-go/internal/sink/kafka"
	"record-store-go/internal/store"
	"record-store-go/internal/transport/httpserver"
	"record-store-go/internal/transport/httpserver/handler"
	"record-store-go/pkg/logger"
)

type closer struct {
	name string
	fn   func() error
}

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	store      *store.Store[*documentdomain.Document]
	channel    *event.Channel[*documentdomain.Document]
	closers    []closer
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	return Build(ctx, cfg, log)
}

// Build wires every component for cfg. Resources opened before a failure are
// released before the error is returned.
func Build(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	if err := a.build(ctx); err != nil {
		if closeErr := a.Close(); closeErr != nil {
			log.Error("app: cleanup after failed init", "err", closeErr)
		}
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	a.log.Info("app: initializing backend", "backend", a.cfg.Backend)
	backend, err := a.newBackend(ctx)
	if err != nil {
		return err
	}
	if a.cfg.Retry.Enabled {
		backend = retry.Wrap(backend, retry.Options{
			InitialInterval: a.cfg.Retry.InitialInterval,
			MaxInterval:     a.cfg.Retry.MaxInterval,
			MaxElapsedTime:  a.cfg.Retry.MaxElapsedTime,
			Logger:          a.log,
		})
	}

	a.log.Info("app: initializing event channel", "capacity", a.cfg.Store.RingCapacity)
	handlers, err := a.newEventHandlers(ctx)
	if err != nil {
		return err
	}
	ch, err := event.NewChannel(event.ChannelConfig{
		Name:     a.cfg.Store.Name,
		Capacity: a.cfg.Store.RingCapacity,
		Logger:   a.log,
	}, handlers...)
	if err != nil {
		return fmt.Errorf("event channel: %w", err)
	}
	a.channel = ch
	a.onClose("event channel", ch.Close)

	storeCfg := store.Config[*documentdomain.Document]{
		Name:          a.cfg.Store.Name,
		PartitionSize: a.cfg.Store.PartitionSize,
		Listeners: []store.Listener[*documentdomain.Document]{
			metrics.NewListener[*documentdomain.Document](a.cfg.Store.Name),
			event.NewPublisher(ch),
		},
		Logger: a.log,
	}
	if a.cfg.Cache.Enabled {
		c := cache.NewTTL[*documentdomain.Document](cache.Config{TTL: a.cfg.Cache.TTL, Capacity: a.cfg.Cache.Capacity})
		c.Start()
		a.onClose("cache", func() error {
			c.Stop()
			return nil
		})
		storeCfg.Cache = c
	}

	s, err := store.New[*documentdomain.Document](backend, storeCfg)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	a.store = s
	a.log.Info("app: store ready", "store", s.String(), "partition_size", s.PartitionSize())

	a.log.Info("app: initializing router")
	router := httpserver.NewRouter(a.cfg, handler.New(ch, documentdomain.NewService(s), a.log))

	a.log.Info("app: initializing http server")
	a.httpServer = httpserver.New(a.cfg, router)
	return nil
}

func (a *App) newBackend(ctx context.Context) (store.Backend[*documentdomain.Document], error) {
	switch a.cfg.Backend {
	case config.BackendPostgres:
		gormDB, err := db.NewPostgres(a.cfg.DB, a.log)
		if err != nil {
			return nil, err
		}
		a.onClose("postgres", func() error { return db.Close(gormDB) })
		if a.cfg.DB.AutoMigrate {
			if err := db.Migrate(gormDB, a.log); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return postgres.New[*documentdomain.Document](gormDB, documentdomain.TableName), nil
	case config.BackendRedis:
		client, err := redisbackend.NewClient(ctx, a.cfg.Redis, a.log)
		if err != nil {
			return nil, err
		}
		a.onClose("redis", client.Close)
		return redisbackend.New[*documentdomain.Document](client, a.cfg.Redis.KeyPrefix), nil
	case config.BackendMemory:
		return memory.New[*documentdomain.Document](), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", a.cfg.Backend)
	}
}

func (a *App) newEventHandlers(ctx context.Context) ([]event.Handler[*documentdomain.Document], error) {
	handlers := []event.Handler[*documentdomain.Document]{
		event.NewLogHandler[*documentdomain.Document](a.log.With("component", "events")),
	}
	if len(a.cfg.Kafka.Brokers) == 0 {
		return handlers, nil
	}

	client, err := kafka.NewClient(&kafka.Config{Brokers: a.cfg.Kafka.Brokers, Linger: a.cfg.Kafka.Linger})
	if err != nil {
		return nil, err
	}
	a.onClose("kafka", func() error {
		client.Close()
		return nil
	})
	if err := client.EnsureTopic(ctx, a.cfg.Kafka.Topic, a.cfg.Kafka.TopicPartitions, a.cfg.Kafka.TopicReplication); err != nil {
		return nil, err
	}
	a.log.Info("app: kafka sink enabled", "topic", a.cfg.Kafka.Topic, "brokers", a.cfg.Kafka.Brokers)
	return append(handlers, kafka.NewSink[*documentdomain.Document](client, a.cfg.Kafka.Topic)), nil
}

func (a *App) onClose(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// Close releases resources in reverse order of acquisition: the event channel
// drains before the sink and backend connections go away.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
			continue
		}
		a.log.Debug("app: closed", "resource", c.name)
	}
	a.closers = nil
	return errors.Join(errs...)
}
