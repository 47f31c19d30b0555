package store

import (
	"context"
	"fmt"

	"record-store-go/internal/metrics"
)

// Listener is notified of committed mutations, synchronously and in
// registration order. Values are passed by reference and must not be modified.
type Listener[T Record] interface {
	OnPut(ctx context.Context, value T) error
	OnDelete(ctx context.Context, id string) error
	OnDeleteValue(ctx context.Context, value T) error
}

// ListenerFuncs adapts plain functions to a Listener. Nil fields are skipped.
type ListenerFuncs[T Record] struct {
	Put         func(ctx context.Context, value T) error
	Delete      func(ctx context.Context, id string) error
	DeleteValue func(ctx context.Context, value T) error
}

func (f ListenerFuncs[T]) OnPut(ctx context.Context, value T) error {
	if f.Put == nil {
		return nil
	}
	return f.Put(ctx, value)
}

func (f ListenerFuncs[T]) OnDelete(ctx context.Context, id string) error {
	if f.Delete == nil {
		return nil
	}
	return f.Delete(ctx, id)
}

func (f ListenerFuncs[T]) OnDeleteValue(ctx context.Context, value T) error {
	if f.DeleteValue == nil {
		return nil
	}
	return f.DeleteValue(ctx, value)
}

func (s *Store[T]) notifyPut(ctx context.Context, value T) {
	s.notify("put", value.GetID(), func(l Listener[T]) error {
		return l.OnPut(ctx, value)
	})
}

func (s *Store[T]) notifyDeleted(ctx context.Context, id string) {
	s.notify("delete", id, func(l Listener[T]) error {
		return l.OnDelete(ctx, id)
	})
}

func (s *Store[T]) notifyDeletedValue(ctx context.Context, value T) {
	s.notify("delete", value.GetID(), func(l Listener[T]) error {
		return l.OnDeleteValue(ctx, value)
	})
}

// notify runs fn for every listener. The mutation is already committed, so a
// failing listener is logged and skipped rather than reported to the caller.
func (s *Store[T]) notify(action, id string, fn func(Listener[T]) error) {
	for _, l := range s.listeners {
		if err := callListener(l, fn); err != nil {
			metrics.ListenerFailures.WithLabelValues(s.name).Inc()
			s.log.InternalError("store: listener failed", err,
				"store", s.name,
				"action", action,
				"id", id,
				"listener", fmt.Sprintf("%T", l),
			)
		}
	}
}

func callListener[T Record](l Listener[T], fn func(Listener[T]) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return fn(l)
}
