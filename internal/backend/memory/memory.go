package memory

import (
	"context"
	"sort"
	"sync"

	"record-store-go/internal/store"
)

// Backend keeps records in a map guarded by a RWMutex. Values are stored by
// reference, so callers must treat records as immutable.
type Backend[T store.Record] struct {
	mu   sync.RWMutex
	data map[string]T
}

func New[T store.Record]() *Backend[T] {
	return &Backend[T]{
		data: make(map[string]T),
	}
}

func (b *Backend[T]) Get(_ context.Context, id string) (T, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.data[id]
	return value, ok, nil
}

func (b *Backend[T]) GetBatch(_ context.Context, ids []string) ([]T, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if value, ok := b.data[id]; ok {
			out = append(out, value)
		}
	}
	return out, nil
}

func (b *Backend[T]) Put(_ context.Context, value T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[value.GetID()] = value
	return nil
}

// PutBatch stores the whole partition under one lock.
func (b *Backend[T]) PutBatch(_ context.Context, values []T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, value := range values {
		b.data[value.GetID()] = value
	}
	return nil
}

// Delete is idempotent: removing a missing id is not an error.
func (b *Backend[T]) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.data, id)
	return nil
}

func (b *Backend[T]) DeleteBatch(_ context.Context, ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, id := range ids {
		delete(b.data, id)
	}
	return nil
}

func (b *Backend[T]) DeleteBatchByValue(_ context.Context, values []T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, value := range values {
		delete(b.data, value.GetID())
	}
	return nil
}

// Keys returns the stored ids in sorted order.
func (b *Backend[T]) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.data))
	for key := range b.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (b *Backend[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}
