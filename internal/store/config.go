package store

import (
	"fmt"

	"record-store-go/pkg/logger"
)

// Config describes one store instance. It is copied by New and never changes
// afterwards.
type Config[T Record] struct {
	// Name identifies the store in logs and metrics, typically the table name.
	Name string
	// PartitionSize bounds the number of elements in a single backend batch call.
	PartitionSize int
	Listeners     []Listener[T]
	Cache         Cache[T]
	Logger        logger.Logger
}

func (c *Config[T]) Validate() error {
	if c.PartitionSize < 0 {
		return fmt.Errorf("%w: partition size must be positive, got %d", ErrInvalidArgument, c.PartitionSize)
	}
	if c.PartitionSize == 0 {
		c.PartitionSize = DefaultPartitionSize
	}
	for i, l := range c.Listeners {
		if isNil(l) {
			return fmt.Errorf("%w: listener %d is nil", ErrInvalidArgument, i)
		}
	}
	if c.Name == "" {
		c.Name = recordType[T]()
	}
	if c.Cache == nil {
		c.Cache = noopCache[T]{}
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	return nil
}

func recordType[T Record]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
