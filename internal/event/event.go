// Package event moves committed store mutations from the mutating goroutine to
// asynchronous handlers through a bounded ring buffer, preserving commit order.
package event

import "fmt"

type Action uint8

const (
	ActionNone Action = iota
	ActionPut
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionPut:
		return "PUT"
	case ActionDelete:
		return "DELETE"
	default:
		return "NONE"
	}
}

// Event is one mutation occurrence. Events live in ring slots and are reused;
// handlers must copy anything they need to keep after OnEvent returns.
type Event[T any] struct {
	Action Action
	ID     string
	// Value is set for puts and deletes by value. HasValue tells the two
	// delete flavours apart.
	Value    T
	HasValue bool
}

func (e *Event[T]) reset() {
	*e = Event[T]{}
}

func (e *Event[T]) String() string {
	return fmt.Sprintf("Event{action=%s, id=%s}", e.Action, e.ID)
}
