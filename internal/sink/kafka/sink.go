// Package kafka forwards committed mutations from an event channel to a Kafka
// topic, one record per event, keyed by record id.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"record-store-go/internal/event"
	"record-store-go/internal/metrics"
)

const (
	sinkName        = "kafka"
	defaultMaxBatch = 500
	actionHeader    = "action"
)

type Producer interface {
	ProduceSync(ctx context.Context, records ...*kgo.Record) kgo.ProduceResults
}

// Message is the JSON payload of every produced record.
type Message[T any] struct {
	Seq    int64  `json:"seq"`
	Action string `json:"action"`
	ID     string `json:"id"`
	Value  *T     `json:"value,omitempty"`
}

// Sink is an event.Handler. It buffers records and produces them synchronously
// at the end of each batch, so a handler batch is acknowledged by Kafka before
// the ring slots behind it are released.
type Sink[T any] struct {
	producer Producer
	topic    string
	maxBatch int
	pending  []*kgo.Record
}

func NewSink[T any](producer Producer, topic string) *Sink[T] {
	return &Sink[T]{producer: producer, topic: topic, maxBatch: defaultMaxBatch}
}

// WithMaxBatch caps how many records are buffered before a flush.
func (s *Sink[T]) WithMaxBatch(n int) *Sink[T] {
	if n > 0 {
		s.maxBatch = n
	}
	return s
}

func (s *Sink[T]) OnEvent(ctx context.Context, ev *event.Event[T], seq int64, endOfBatch bool) error {
	msg := Message[T]{Seq: seq, Action: ev.Action.String(), ID: ev.ID}
	if ev.HasValue {
		value := ev.Value
		msg.Value = &value
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		// Records already buffered still go out at the end of the batch.
		if endOfBatch {
			_ = s.flush(ctx)
		}
		return fmt.Errorf("encode event %d: %w", seq, err)
	}

	s.pending = append(s.pending, &kgo.Record{
		Topic:   s.topic,
		Key:     []byte(ev.ID),
		Value:   payload,
		Headers: []kgo.RecordHeader{{Key: actionHeader, Value: []byte(msg.Action)}},
	})

	if endOfBatch || len(s.pending) >= s.maxBatch {
		return s.flush(ctx)
	}
	return nil
}

func (s *Sink[T]) flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	records := s.pending
	s.pending = nil

	if err := s.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		metrics.SinkProduced.WithLabelValues(sinkName, "error").Add(float64(len(records)))
		return fmt.Errorf("produce %d records to %s: %w", len(records), s.topic, err)
	}
	metrics.SinkProduced.WithLabelValues(sinkName, "ok").Add(float64(len(records)))
	return nil
}
