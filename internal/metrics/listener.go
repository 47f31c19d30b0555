package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Listener counts committed mutations per store. It satisfies store.Listener
// for any record type.
type Listener[T any] struct {
	puts    prometheus.Counter
	deletes prometheus.Counter
}

func NewListener[T any](store string) *Listener[T] {
	return &Listener[T]{
		puts:    Mutations.WithLabelValues(store, "put"),
		deletes: Mutations.WithLabelValues(store, "delete"),
	}
}

func (l *Listener[T]) OnPut(context.Context, T) error {
	l.puts.Inc()
	return nil
}

func (l *Listener[T]) OnDelete(context.Context, string) error {
	l.deletes.Inc()
	return nil
}

func (l *Listener[T]) OnDeleteValue(context.Context, T) error {
	l.deletes.Inc()
	return nil
}
