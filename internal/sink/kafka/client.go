package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

type Config struct {
	Brokers []string
	// Linger is how long the producer waits to fill a batch. Zero uses the
	// client default.
	Linger time.Duration
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New("brokers are required")
	}
	return nil
}

// Client is a thin franz-go producer.
type Client struct {
	client *kgo.Client
}

func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}
	if cfg.Linger > 0 {
		opts = append(opts, kgo.ProducerLinger(cfg.Linger))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return &Client{client: client}, nil
}

func (k *Client) Close() {
	k.client.Close()
}

func (k *Client) ProduceSync(ctx context.Context, records ...*kgo.Record) kgo.ProduceResults {
	return k.client.ProduceSync(ctx, records...)
}

// EnsureTopic creates topic unless it already exists.
func (k *Client) EnsureTopic(ctx context.Context, topic string, partitions int, replication int) error {
	adm := kadm.NewClient(k.client)
	_, err := adm.CreateTopic(ctx, int32(partitions), int16(replication), nil, topic)
	if err != nil {
		if strings.Contains(err.Error(), "TOPIC_ALREADY_EXISTS") {
			return nil
		}
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}
