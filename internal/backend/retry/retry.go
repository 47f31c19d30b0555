package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"record-store-go/internal/metrics"
	"record-store-go/internal/store"
	"record-store-go/pkg/logger"
)

type Options struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsedTime bounds the whole call including waits. Zero retries until
	// ctx is done.
	MaxElapsedTime time.Duration
	Logger         logger.Logger
}

// Backend retries failed calls of the wrapped backend with exponential
// backoff. Every Backend operation is an idempotent overwrite or removal, so a
// repeated call is safe. Context errors are not retried.
type Backend[T store.Record] struct {
	next store.Backend[T]
	opts Options
	log  logger.Logger
}

// Wrap returns next with retries. The result implements store.BatchPutter only
// when next does, so a store over a backend without batch writes keeps its
// per-record commit and notify.
func Wrap[T store.Record](next store.Backend[T], opts Options) store.Backend[T] {
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = backoff.DefaultInitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = backoff.DefaultMaxInterval
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	b := &Backend[T]{next: next, opts: opts, log: log}
	if batch, ok := next.(store.BatchPutter[T]); ok {
		return &batchBackend[T]{Backend: b, batch: batch}
	}
	return b
}

func (b *Backend[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var (
		value T
		found bool
	)
	err := b.do(ctx, "get", func() error {
		var err error
		value, found, err = b.next.Get(ctx, id)
		return err
	})
	return value, found, err
}

func (b *Backend[T]) GetBatch(ctx context.Context, ids []string) ([]T, error) {
	var values []T
	err := b.do(ctx, "get_batch", func() error {
		var err error
		values, err = b.next.GetBatch(ctx, ids)
		return err
	})
	return values, err
}

func (b *Backend[T]) Put(ctx context.Context, value T) error {
	return b.do(ctx, "put", func() error {
		return b.next.Put(ctx, value)
	})
}

type batchBackend[T store.Record] struct {
	*Backend[T]
	batch store.BatchPutter[T]
}

// PutBatch retries the whole batch write of the wrapped backend.
func (b *batchBackend[T]) PutBatch(ctx context.Context, values []T) error {
	return b.do(ctx, "put_batch", func() error {
		return b.batch.PutBatch(ctx, values)
	})
}

func (b *Backend[T]) Delete(ctx context.Context, id string) error {
	return b.do(ctx, "delete", func() error {
		return b.next.Delete(ctx, id)
	})
}

func (b *Backend[T]) DeleteBatch(ctx context.Context, ids []string) error {
	return b.do(ctx, "delete_batch", func() error {
		return b.next.DeleteBatch(ctx, ids)
	})
}

func (b *Backend[T]) DeleteBatchByValue(ctx context.Context, values []T) error {
	return b.do(ctx, "delete_batch_values", func() error {
		return b.next.DeleteBatchByValue(ctx, values)
	})
}

func (b *Backend[T]) do(ctx context.Context, op string, fn func() error) error {
	bo := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(b.opts.InitialInterval),
		backoff.WithMaxInterval(b.opts.MaxInterval),
		backoff.WithMaxElapsedTime(b.opts.MaxElapsedTime),
	), ctx)

	operation := func() error {
		err := fn()
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		metrics.BackendRetries.WithLabelValues(op).Inc()
		b.log.Warn("retry: backend call failed, retrying", "op", op, "wait", wait, "err", err)
	}

	return backoff.RetryNotify(operation, bo, notify)
}
