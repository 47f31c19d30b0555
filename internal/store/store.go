package store

import (
	"context"
	"fmt"
	"sync"

	"record-store-go/internal/metrics"
	"record-store-go/pkg/logger"
)

// Store is a record store over a Backend. Mutations run synchronously on the
// caller goroutine; listeners are notified only after the backend call for the
// affected record (or its partition) succeeded.
type Store[T Record] struct {
	name          string
	recordType    string
	partitionSize int
	backend       Backend[T]
	listeners     []Listener[T]
	cache         Cache[T]
	log           logger.Logger

	// cacheGen is bumped by every committed mutation. A read only fills the
	// cache if no mutation landed since it started.
	cacheMu  sync.Mutex
	cacheGen uint64
}

func New[T Record](backend Backend[T], cfg Config[T]) (*Store[T], error) {
	if isNil(backend) {
		return nil, fmt.Errorf("%w: backend is required", ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Store[T]{
		name:          cfg.Name,
		recordType:    recordType[T](),
		partitionSize: cfg.PartitionSize,
		backend:       backend,
		listeners:     append([]Listener[T](nil), cfg.Listeners...),
		cache:         cfg.Cache,
		log:           cfg.Logger.With("store", cfg.Name),
	}, nil
}

func (s *Store[T]) Name() string {
	return s.name
}

func (s *Store[T]) PartitionSize() int {
	return s.partitionSize
}

func (s *Store[T]) String() string {
	return fmt.Sprintf("Store{name=%s, type=%s}", s.name, s.recordType)
}

// Get returns the record with the given id. An empty id is reported as not found.
func (s *Store[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if id == "" {
		return zero, false, nil
	}

	if value, ok := s.cache.Get(id); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return value, true, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	gen := s.cacheGeneration()
	var (
		value T
		found bool
	)
	err := s.call("get", 1, func() error {
		var err error
		value, found, err = s.backend.Get(ctx, id)
		return err
	})
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}

	s.fillCache(id, value, gen)
	return value, true, nil
}

// GetAll returns every record found for ids, in partition order. The result is
// never nil.
func (s *Store[T]) GetAll(ctx context.Context, ids ...string) ([]T, error) {
	return s.getAll(ctx, compactIDs(ids))
}

// GetAllOf is GetAll for a mixed list of ids and records.
func (s *Store[T]) GetAllOf(ctx context.Context, idsOrValues ...any) ([]T, error) {
	ids, err := IDsOf(idsOrValues...)
	if err != nil {
		return []T{}, err
	}
	return s.getAll(ctx, ids)
}

func (s *Store[T]) getAll(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	result := make([]T, 0, len(ids))
	for _, partition := range Partition(ids, s.partitionSize) {
		err := s.call("get_batch", len(partition), func() error {
			found, err := s.backend.GetBatch(ctx, partition)
			if err != nil {
				return err
			}
			result = append(result, found...)
			return nil
		})
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// Put stores value. A nil value is ignored; a value without an id is rejected
// before the backend is called.
func (s *Store[T]) Put(ctx context.Context, value T) error {
	if isNil(value) {
		return nil
	}

	id := value.GetID()
	if id == "" {
		return fmt.Errorf("%w: id not specified for %s", ErrInvalidArgument, s.recordType)
	}

	return s.put(ctx, value)
}

func (s *Store[T]) put(ctx context.Context, value T) error {
	if err := s.call("put", 1, func() error {
		return s.backend.Put(ctx, value)
	}); err != nil {
		return err
	}

	s.cacheSet(value.GetID(), value)
	s.notifyPut(ctx, value)
	return nil
}

// PutAll stores values partition by partition. All values are validated before
// the first backend call. If a partition fails, earlier partitions remain
// committed and notified and later ones are not attempted. A backend without
// PutBatch is written one record at a time, and each record is cached and
// notified as soon as its own Put succeeds.
func (s *Store[T]) PutAll(ctx context.Context, values ...T) error {
	if len(values) == 0 {
		return nil
	}

	valid := make([]T, 0, len(values))
	for i, value := range values {
		if isNil(value) {
			continue
		}
		if value.GetID() == "" {
			return fmt.Errorf("%w: id not specified for %s at index %d", ErrInvalidArgument, s.recordType, i)
		}
		valid = append(valid, value)
	}

	batch, ok := s.backend.(BatchPutter[T])
	if !ok {
		for _, value := range valid {
			if err := s.put(ctx, value); err != nil {
				return err
			}
		}
		return nil
	}

	for _, partition := range Partition(valid, s.partitionSize) {
		if err := s.call("put_batch", len(partition), func() error {
			return batch.PutBatch(ctx, partition)
		}); err != nil {
			return err
		}
		for _, value := range partition {
			s.cacheSet(value.GetID(), value)
			s.notifyPut(ctx, value)
		}
	}
	return nil
}

// Delete removes the record with the given id. An empty id is a no-op.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	if err := s.call("delete", 1, func() error {
		return s.backend.Delete(ctx, id)
	}); err != nil {
		return err
	}

	s.cacheDelete(id)
	s.notifyDeleted(ctx, id)
	return nil
}

// DeleteValue removes value. Nil values and values without an id are ignored.
func (s *Store[T]) DeleteValue(ctx context.Context, value T) error {
	id := idOf(value)
	if id == "" {
		return nil
	}

	if err := s.call("delete", 1, func() error {
		return s.backend.Delete(ctx, id)
	}); err != nil {
		return err
	}

	s.cacheDelete(id)
	s.notifyDeletedValue(ctx, value)
	return nil
}

// DeleteAll removes the records with the given ids, partition by partition.
func (s *Store[T]) DeleteAll(ctx context.Context, ids ...string) error {
	return s.deleteIDs(ctx, compactIDs(ids))
}

// DeleteAllOf is DeleteAll for a mixed list of ids and records. Listeners are
// notified by id.
func (s *Store[T]) DeleteAllOf(ctx context.Context, idsOrValues ...any) error {
	ids, err := IDsOf(idsOrValues...)
	if err != nil {
		return err
	}
	return s.deleteIDs(ctx, ids)
}

func (s *Store[T]) deleteIDs(ctx context.Context, ids []string) error {
	for _, partition := range Partition(ids, s.partitionSize) {
		if err := s.call("delete_batch", len(partition), func() error {
			return s.backend.DeleteBatch(ctx, partition)
		}); err != nil {
			return err
		}
		for _, id := range partition {
			s.cacheDelete(id)
			s.notifyDeleted(ctx, id)
		}
	}
	return nil
}

// DeleteAllValues removes values, partition by partition. Nil values and values
// without an id are skipped.
func (s *Store[T]) DeleteAllValues(ctx context.Context, values ...T) error {
	for _, partition := range Partition(compactValues(values), s.partitionSize) {
		if err := s.call("delete_batch_values", len(partition), func() error {
			return s.backend.DeleteBatchByValue(ctx, partition)
		}); err != nil {
			return err
		}
		for _, value := range partition {
			s.cacheDelete(value.GetID())
			s.notifyDeletedValue(ctx, value)
		}
	}
	return nil
}

func (s *Store[T]) cacheGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.cacheGen
}

func (s *Store[T]) fillCache(id string, value T, gen uint64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheGen == gen {
		s.cache.Set(id, value)
	}
}

func (s *Store[T]) cacheSet(id string, value T) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cacheGen++
	s.cache.Set(id, value)
}

func (s *Store[T]) cacheDelete(id string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cacheGen++
	s.cacheDelete(id)
}

// call invokes one backend operation and wraps its failure in ErrBackendFailure.
func (s *Store[T]) call(op string, size int, fn func() error) error {
	metrics.PartitionSize.WithLabelValues(s.name, op).Observe(float64(size))
	if err := fn(); err != nil {
		metrics.BackendCalls.WithLabelValues(s.name, op, "error").Inc()
		s.log.Debug("store: backend call failed", "op", op, "size", size, "err", err)
		return fmt.Errorf("%w: %s %s: %w", ErrBackendFailure, s.name, op, err)
	}
	metrics.BackendCalls.WithLabelValues(s.name, op, "ok").Inc()
	return nil
}
