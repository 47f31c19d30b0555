package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"record-store-go/internal/store"
)

// Backend keeps each record as a JSON string under prefix+id.
type Backend[T store.Record] struct {
	client goredis.UniversalClient
	prefix string
}

func New[T store.Record](client goredis.UniversalClient, prefix string) *Backend[T] {
	return &Backend[T]{client: client, prefix: prefix}
}

func (b *Backend[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	data, err := b.client.Get(ctx, b.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	value, err := decode[T](data)
	if err != nil {
		return zero, false, fmt.Errorf("decode %s: %w", id, err)
	}
	return value, true, nil
}

func (b *Backend[T]) GetBatch(ctx context.Context, ids []string) ([]T, error) {
	raw, err := b.client.MGet(ctx, b.keys(ids)...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		value, err := decode[T]([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", ids[i], err)
		}
		out = append(out, value)
	}
	return out, nil
}

func (b *Backend[T]) Put(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", value.GetID(), err)
	}
	return b.client.Set(ctx, b.key(value.GetID()), data, 0).Err()
}

// PutBatch writes the partition in one MULTI/EXEC transaction.
func (b *Backend[T]) PutBatch(ctx context.Context, values []T) error {
	encoded := make([][]byte, len(values))
	for i, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", value.GetID(), err)
		}
		encoded[i] = data
	}

	_, err := b.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, value := range values {
			pipe.Set(ctx, b.key(value.GetID()), encoded[i], 0)
		}
		return nil
	})
	return err
}

func (b *Backend[T]) Delete(ctx context.Context, id string) error {
	return b.client.Del(ctx, b.key(id)).Err()
}

func (b *Backend[T]) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return b.client.Del(ctx, b.keys(ids)...).Err()
}

func (b *Backend[T]) DeleteBatchByValue(ctx context.Context, values []T) error {
	ids := make([]string, 0, len(values))
	for _, value := range values {
		ids = append(ids, value.GetID())
	}
	return b.DeleteBatch(ctx, ids)
}

func (b *Backend[T]) key(id string) string {
	return b.prefix + id
}

func (b *Backend[T]) keys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = b.key(id)
	}
	return keys
}

// decode allocates a fresh T; for pointer record types json allocates the
// pointee.
func decode[T any](data []byte) (T, error) {
	var value T
	err := json.Unmarshal(data, &value)
	return value, err
}
