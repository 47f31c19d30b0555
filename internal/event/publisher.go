package event

import (
	"context"
	"fmt"

	"record-store-go/internal/store"
)

// Publisher is a store.Listener that forwards every committed mutation into a
// Channel, decoupling slow observers from the mutating goroutine. The channel
// may be shared with other publishers; its lifecycle belongs to whoever
// created it.
type Publisher[T store.Record] struct {
	channel *Channel[T]
}

func NewPublisher[T store.Record](channel *Channel[T]) *Publisher[T] {
	return &Publisher[T]{channel: channel}
}

func (p *Publisher[T]) OnPut(_ context.Context, value T) error {
	return p.channel.Publish(Event[T]{
		Action:   ActionPut,
		ID:       value.GetID(),
		Value:    value,
		HasValue: true,
	})
}

func (p *Publisher[T]) OnDelete(_ context.Context, id string) error {
	return p.channel.Publish(Event[T]{
		Action: ActionDelete,
		ID:     id,
	})
}

func (p *Publisher[T]) OnDeleteValue(_ context.Context, value T) error {
	return p.channel.Publish(Event[T]{
		Action:   ActionDelete,
		ID:       value.GetID(),
		Value:    value,
		HasValue: true,
	})
}

func (p *Publisher[T]) String() string {
	return fmt.Sprintf("Publisher{channel=%s}", p.channel.name)
}
