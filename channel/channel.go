package channel

import (
	"runtime"
	"sync"
)

// Channel is a CSP rendezvous object: independently running goroutines
// exchange values through it with Op, SelectOne, and SelectAll, and
// coordinate shutdown with Shut. The zero value is not usable; construct
// one with Create.
type Channel struct {
	mu sync.Mutex

	store  Store // nil means the built-in unbuffered store
	status StoreStatus
	shut   bool
	open   int // outstanding handles; the Close that drops it to 0 deallocates

	dequeue Dequeue

	gets, puts, getEvents, putEvents, shutdowns waiterQueue

	// slot backs the built-in unbuffered store when store == nil.
	slot any

	logger  Logger
	name    string
	metrics *Metrics
}

// Create allocates a new, open Channel handle. dequeue is invoked on every
// item still queued at final Close (it may be nil if items need no
// release). If alloc is nil, the channel uses the built-in unbuffered
// store (capacity 1, status CanPut initially). Create returns nil if alloc
// is non-nil and fails (returns a zero status).
func Create(dequeue Dequeue, alloc Allocator, opts ...Option) *Channel {
	c := &Channel{dequeue: dequeue, open: 1, logger: NopLogger{}}
	for _, o := range opts {
		if o != nil {
			o.applyChannel(c)
		}
	}
	if alloc == nil {
		c.status = CanPut
		return c
	}
	st, status := alloc(dequeue, c.wake)
	if status == 0 {
		return nil
	}
	c.store = st
	c.status = status
	return c
}

// wake lets a Store report an asynchronous status change (see WakeFunc).
func (c *Channel) wake(status StoreStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shut {
		return
	}
	added := status &^ c.status
	c.status = status
	if added&CanGet != 0 {
		c.signalReady(OperGet)
	}
	if added&CanPut != 0 {
		c.signalReady(OperPut)
	}
}

// signalReady wakes one waiter appropriate to a newly-ready operation: a
// blocked Get/Put first, falling back to an event watcher if none is
// queued. Called with c.mu held.
func (c *Channel) signalReady(oper StoreOper) {
	switch oper {
	case OperGet:
		if !c.gets.wakeOne(c) {
			c.getEvents.wakeOne(c)
		}
	case OperPut:
		if !c.puts.wakeOne(c) {
			c.putEvents.wakeOne(c)
		}
	}
}

// Open atomically increments the open count and returns c, so a handle can
// be safely handed to another goroutine. Open on a nil Channel is a no-op.
func Open(c *Channel) *Channel {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	c.open++
	c.mu.Unlock()
	return c
}

// OpenCount returns the number of outstanding handles.
func OpenCount(c *Channel) uint32 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	n := c.open
	c.mu.Unlock()
	return uint32(n)
}

// Shut sets the channel's Shut bit and wakes every waiter on every queue.
// Idempotent: a second call is a no-op.
func Shut(c *Channel) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutLocked()
}

func (c *Channel) shutLocked() {
	if c.shut {
		return
	}
	c.shut = true
	c.gets.wakeAll(c)
	c.puts.wakeAll(c)
	c.getEvents.wakeAll(c)
	c.putEvents.wakeAll(c)
	c.shutdowns.wakeAll(c)
	if c.metrics != nil {
		c.metrics.Shutdowns.Add(1)
	}
	c.logger.Log(LevelInfo, "channel shut", "name", c.name)
}

// Close decrements the open count. When it reaches zero the channel enters
// drain: it repeatedly wakes all remaining queued waiters and yields the
// scheduler until every queue is empty, then deallocates the store and
// releases the channel. Close on a nil Channel is a no-op.
func Close(c *Channel) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.open > 0 {
		c.open--
	}
	if c.open > 0 {
		c.mu.Unlock()
		return
	}
	for !(c.gets.empty() && c.puts.empty() && c.getEvents.empty() && c.putEvents.empty() && c.shutdowns.empty()) {
		c.gets.wakeAll(c)
		c.puts.wakeAll(c)
		c.getEvents.wakeAll(c)
		c.putEvents.wakeAll(c)
		c.shutdowns.wakeAll(c)
		c.mu.Unlock()
		runtime.Gosched()
		c.mu.Lock()
	}
	status := c.status
	store := c.store
	var residual any
	haveResidual := store == nil && status&CanGet != 0
	if haveResidual {
		residual = c.slot
	}
	c.mu.Unlock()

	if store != nil {
		store.Dealloc(status)
	} else if haveResidual && c.dequeue != nil {
		c.dequeue(residual)
	}
	c.logger.Log(LevelDebug, "channel closed", "name", c.name)
}
