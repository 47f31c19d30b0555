package event

import (
	"context"
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"record-store-go/internal/metrics"
	"record-store-go/internal/store"
	"record-store-go/pkg/logger"
)

const defaultChannelName = "events"

type ChannelConfig struct {
	Name string
	// Capacity is the number of ring slots. It is rounded up to a power of two.
	Capacity int
	Logger   logger.Logger
}

func (c *ChannelConfig) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: channel capacity must be positive, got %d", store.ErrInvalidArgument, c.Capacity)
	}
	if c.Capacity&(c.Capacity-1) != 0 {
		c.Capacity = 1 << bits.Len(uint(c.Capacity))
	}
	if c.Name == "" {
		c.Name = defaultChannelName
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}
	return nil
}

// Stats is a point-in-time view of a Channel's sequences.
type Stats struct {
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Handlers  int    `json:"handlers"`
	Published int64  `json:"published"`
	Processed int64  `json:"processed"`
	Pending   int64  `json:"pending"`
	Closed    bool   `json:"closed"`
}

type consumer[T any] struct {
	name    string
	handler Handler[T]
	// seq is the last sequence this handler finished. Guarded by Channel.mu.
	seq int64
}

// Channel is a bounded ring of preallocated event slots. Publishers claim the
// next sequence, fill its slot and publish it; each handler runs on its own
// goroutine and sees every published sequence in increasing order. A slot is
// reset and becomes claimable again once every handler has passed it.
//
// Concurrent publishers are serialized internally, so the ring always has a
// single writer.
type Channel[T any] struct {
	name      string
	log       logger.Logger
	slots     []Event[T]
	mask      int64
	consumers []*consumer[T]

	pubMu sync.Mutex

	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	next     int64
	cursor   int64
	released int64
	stopped  bool

	closed atomic.Bool
	group  errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
}

// NewChannel creates a channel and starts one consumer goroutine per handler.
func NewChannel[T any](cfg ChannelConfig, handlers ...Handler[T]) (*Channel[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Channel[T]{
		name:     cfg.Name,
		log:      cfg.Logger.With("channel", cfg.Name),
		slots:    make([]Event[T], cfg.Capacity),
		mask:     int64(cfg.Capacity - 1),
		cursor:   -1,
		released: -1,
		ctx:      ctx,
		cancel:   cancel,
	}
	c.notFull = sync.NewCond(&c.mu)
	c.notEmpty = sync.NewCond(&c.mu)

	for i, h := range handlers {
		if h == nil {
			cancel()
			return nil, fmt.Errorf("%w: handler %d is nil", store.ErrInvalidArgument, i)
		}
		c.consumers = append(c.consumers, &consumer[T]{
			name:    fmt.Sprintf("%d:%T", i, h),
			handler: h,
			seq:     -1,
		})
	}

	for _, cons := range c.consumers {
		c.group.Go(func() error {
			c.consume(cons)
			return nil
		})
	}

	c.log.Debug("event: channel started", "capacity", cfg.Capacity, "handlers", len(c.consumers))
	return c, nil
}

// Publish claims the next slot, waiting while the ring is full, and publishes
// ev into it. It returns ErrChannelClosed once Close has been called. A nil
// return means every handler will see ev.
func (c *Channel[T]) Publish(ev Event[T]) error {
	return c.publish(ev, true)
}

// TryPublish is Publish without waiting: it fails with ErrChannelFull when the
// slowest handler has not yet freed a slot.
func (c *Channel[T]) TryPublish(ev Event[T]) error {
	return c.publish(ev, false)
}

func (c *Channel[T]) publish(ev Event[T], wait bool) error {
	if ev.ID == "" {
		return fmt.Errorf("%w: event id must be non-empty", store.ErrInvalidArgument)
	}

	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	seq, err := c.claim(wait)
	if err != nil {
		return err
	}

	slot := &c.slots[seq&c.mask]
	slot.reset()
	slot.Action = ev.Action
	slot.ID = ev.ID
	if ev.HasValue {
		slot.Value = ev.Value
		slot.HasValue = true
	}

	c.mu.Lock()
	if c.stopped {
		// Consumers may already have drained and exited.
		slot.reset()
		c.mu.Unlock()
		return ErrChannelClosed
	}
	c.cursor = seq
	if len(c.consumers) == 0 {
		c.releaseLocked()
	}
	metrics.ChannelPending.WithLabelValues(c.name).Set(float64(c.cursor - c.released))
	c.notEmpty.Broadcast()
	c.mu.Unlock()

	metrics.ChannelPublished.WithLabelValues(c.name).Inc()
	return nil
}

// claim reserves the next sequence once its slot has been released by every
// handler.
func (c *Channel[T]) claim(wait bool) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq := c.next
	capacity := int64(len(c.slots))
	blocked := false
	for !c.stopped && seq-c.released > capacity {
		if !wait {
			return 0, ErrChannelFull
		}
		if !blocked {
			blocked = true
			metrics.ChannelBlocked.WithLabelValues(c.name).Inc()
		}
		c.notFull.Wait()
	}
	if c.stopped {
		return 0, ErrChannelClosed
	}

	c.next = seq + 1
	return seq, nil
}

func (c *Channel[T]) consume(cons *consumer[T]) {
	next := int64(0)
	for {
		c.mu.Lock()
		for c.cursor < next && !c.stopped {
			c.notEmpty.Wait()
		}
		available := c.cursor
		c.mu.Unlock()

		if available < next {
			return
		}

		for seq := next; seq <= available; seq++ {
			c.dispatch(cons, &c.slots[seq&c.mask], seq, seq == available)
		}

		c.mu.Lock()
		cons.seq = available
		c.releaseLocked()
		metrics.ChannelPending.WithLabelValues(c.name).Set(float64(c.cursor - c.released))
		c.notFull.Broadcast()
		c.mu.Unlock()

		next = available + 1
	}
}

// dispatch runs one handler on one event. Failures are logged; the sequence
// advances regardless.
func (c *Channel[T]) dispatch(cons *consumer[T], ev *Event[T], seq int64, endOfBatch bool) {
	defer func() {
		if r := recover(); r != nil {
			c.handlerFailed(cons, ev, seq, fmt.Errorf("handler panic: %v", r))
		}
	}()
	if err := cons.handler.OnEvent(c.ctx, ev, seq, endOfBatch); err != nil {
		c.handlerFailed(cons, ev, seq, err)
	}
}

func (c *Channel[T]) handlerFailed(cons *consumer[T], ev *Event[T], seq int64, err error) {
	metrics.HandlerFailures.WithLabelValues(c.name, cons.name).Inc()
	c.log.InternalError("event: handler failed", err,
		"handler", cons.name,
		"seq", seq,
		"action", ev.Action.String(),
		"id", ev.ID,
	)
}

// releaseLocked resets every slot that all handlers have passed.
func (c *Channel[T]) releaseLocked() {
	lowest := c.cursor
	for _, cons := range c.consumers {
		if cons.seq < lowest {
			lowest = cons.seq
		}
	}
	for s := c.released + 1; s <= lowest; s++ {
		c.slots[s&c.mask].reset()
	}
	if lowest > c.released {
		c.released = lowest
	}
}

// Close stops accepting events, lets handlers finish what was already
// published and waits for them to exit. Calling Close more than once is a no-op.
func (c *Channel[T]) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	c.stopped = true
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
	c.mu.Unlock()

	err := c.group.Wait()
	c.cancel()
	c.log.Debug("event: channel closed")
	return err
}

func (c *Channel[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Name:      c.name,
		Capacity:  len(c.slots),
		Handlers:  len(c.consumers),
		Published: c.cursor + 1,
		Processed: c.released + 1,
		Pending:   c.cursor - c.released,
		Closed:    c.stopped,
	}
}
