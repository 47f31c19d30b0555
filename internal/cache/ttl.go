package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	defaultTTL      = time.Minute
	defaultCapacity = 10000
)

type Config struct {
	TTL      time.Duration
	Capacity uint64
}

// TTL is a bounded, expiring record cache keyed by id. It satisfies
// store.Cache for any record type.
type TTL[T any] struct {
	items *ttlcache.Cache[string, T]
}

func NewTTL[T any](cfg Config) *TTL[T] {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = defaultCapacity
	}

	items := ttlcache.New(
		ttlcache.WithTTL[string, T](cfg.TTL),
		ttlcache.WithCapacity[string, T](cfg.Capacity),
		ttlcache.WithDisableTouchOnHit[string, T](),
	)
	return &TTL[T]{items: items}
}

// Start runs the expiry loop until Stop is called.
func (c *TTL[T]) Start() {
	go c.items.Start()
}

func (c *TTL[T]) Stop() {
	c.items.Stop()
}

func (c *TTL[T]) Get(id string) (T, bool) {
	item := c.items.Get(id)
	if item == nil {
		var zero T
		return zero, false
	}
	return item.Value(), true
}

func (c *TTL[T]) Set(id string, value T) {
	c.items.Set(id, value, ttlcache.DefaultTTL)
}

func (c *TTL[T]) Delete(id string) {
	c.items.Delete(id)
}

func (c *TTL[T]) Len() int {
	return c.items.Len()
}
