package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"record-store-go/pkg/logger"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	Backend     string
	Store       StoreConfig
	DB          DBConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Retry       RetryConfig
	Kafka       KafkaConfig
}

type StoreConfig struct {
	Name          string
	PartitionSize int
	RingCapacity  int
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type CacheConfig struct {
	Enabled  bool
	TTL      time.Duration
	Capacity uint64
}

type RetryConfig struct {
	Enabled         bool
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

type KafkaConfig struct {
	Brokers          []string
	Topic            string
	TopicPartitions  int
	TopicReplication int
	Linger           time.Duration
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		Backend:     strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		Store: StoreConfig{
			Name:          getEnv("STORE_NAME", "documents"),
			PartitionSize: getEnvInt("STORE_PARTITION_SIZE", 10),
			RingCapacity:  getEnvInt("STORE_RING_CAPACITY", 1024),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "record_store"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "records:"),
		},
		Cache: CacheConfig{
			Enabled:  getEnvBool("CACHE_ENABLED", true),
			TTL:      getEnvDuration("CACHE_TTL", time.Minute),
			Capacity: uint64(getEnvInt("CACHE_CAPACITY", 10000)),
		},
		Retry: RetryConfig{
			Enabled:         getEnvBool("RETRY_ENABLED", false),
			InitialInterval: getEnvDuration("RETRY_INITIAL_INTERVAL", 100*time.Millisecond),
			MaxInterval:     getEnvDuration("RETRY_MAX_INTERVAL", 2*time.Second),
			MaxElapsedTime:  getEnvDuration("RETRY_MAX_ELAPSED", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:          getEnvList("KAFKA_BROKERS"),
			Topic:            getEnv("KAFKA_TOPIC", "record-mutations"),
			TopicPartitions:  getEnvInt("KAFKA_TOPIC_PARTITIONS", 1),
			TopicReplication: getEnvInt("KAFKA_TOPIC_REPLICATION", 1),
			Linger:           getEnvDuration("KAFKA_LINGER", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}
	if c.Store.PartitionSize <= 0 {
		return fmt.Errorf("STORE_PARTITION_SIZE must be positive, got %d", c.Store.PartitionSize)
	}
	if c.Store.RingCapacity <= 0 {
		return fmt.Errorf("STORE_RING_CAPACITY must be positive, got %d", c.Store.RingCapacity)
	}
	if len(c.Kafka.Brokers) > 0 && (c.Kafka.TopicPartitions <= 0 || c.Kafka.TopicReplication <= 0) {
		return fmt.Errorf("KAFKA_TOPIC_PARTITIONS and KAFKA_TOPIC_REPLICATION must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
