package store

import "context"

// Backend performs the actual storage I/O. Every batch method receives a
// single partition and must either apply all of it or return an error.
type Backend[T Record] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	// GetBatch returns the records found for ids. Missing ids are omitted.
	GetBatch(ctx context.Context, ids []string) ([]T, error)
	Put(ctx context.Context, value T) error
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, ids []string) error
	DeleteBatchByValue(ctx context.Context, values []T) error
}

// BatchPutter is implemented by backends that can write a whole partition in
// one call. Backends without it receive one Put per element.
type BatchPutter[T Record] interface {
	PutBatch(ctx context.Context, values []T) error
}
