package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"

	"record-store-go/internal/event"
)

func startRedpanda(t *testing.T, ctx context.Context) []string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redpanda container test in short mode")
	}

	rp, err := redpanda.Run(ctx, "redpandadata/redpanda:v24.2.6")
	if err != nil {
		t.Skipf("redpanda container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = rp.Terminate(context.Background()) })

	broker, err := rp.KafkaSeedBroker(ctx)
	require.NoError(t, err)
	return []string{broker}
}

func TestSinkProducesToRedpanda(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	brokers := startRedpanda(t, ctx)
	const topic = "record-mutations"

	client, err := NewClient(&Config{Brokers: brokers})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	require.NoError(t, client.EnsureTopic(ctx, topic, 1, 1))
	require.NoError(t, client.EnsureTopic(ctx, topic, 1, 1))

	ch, err := event.NewChannel[*doc](event.ChannelConfig{Name: "redpanda", Capacity: 16}, NewSink[*doc](client, topic))
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, ch.Publish(event.Event[*doc]{Action: event.ActionPut, ID: id, Value: &doc{ID: id}, HasValue: true}))
	}
	require.NoError(t, ch.Close())

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	var keys []string
	require.Eventually(t, func() bool {
		pctx, pcancel := context.WithTimeout(ctx, 250*time.Millisecond)
		defer pcancel()
		fetches := consumer.PollFetches(pctx)
		fetches.EachRecord(func(r *kgo.Record) {
			keys = append(keys, string(r.Key))
		})
		return len(keys) >= 3
	}, 30*time.Second, 50*time.Millisecond)
	require.Equal(t, []string{"a", "b", "c"}, keys)
}
