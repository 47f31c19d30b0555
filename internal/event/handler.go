package event

import (
	"context"

	"record-store-go/pkg/logger"
)

// Handler consumes events from a Channel on its own goroutine. endOfBatch is
// true for the last event of the contiguous run that was available when the
// handler woke up, which makes it a natural flush point.
type Handler[T any] interface {
	OnEvent(ctx context.Context, ev *Event[T], seq int64, endOfBatch bool) error
}

type HandlerFunc[T any] func(ctx context.Context, ev *Event[T], seq int64, endOfBatch bool) error

func (f HandlerFunc[T]) OnEvent(ctx context.Context, ev *Event[T], seq int64, endOfBatch bool) error {
	return f(ctx, ev, seq, endOfBatch)
}

// LogHandler writes every event to the debug log.
type LogHandler[T any] struct {
	log logger.Logger
}

func NewLogHandler[T any](log logger.Logger) *LogHandler[T] {
	return &LogHandler[T]{log: log}
}

func (h *LogHandler[T]) OnEvent(_ context.Context, ev *Event[T], seq int64, endOfBatch bool) error {
	h.log.Debug("event: received",
		"action", ev.Action.String(),
		"id", ev.ID,
		"has_value", ev.HasValue,
		"seq", seq,
		"end_of_batch", endOfBatch,
	)
	return nil
}
