package channel

import (
	"container/list"
	"runtime"
	"time"
)

// Entry is one request in a SelectOne/SelectAll array: spec.md's "array
// descriptor". Value is either a pointer to get into / put from, or nil
// for "monitor" mode (see Op's doc comment). Status is filled in by
// SelectOne/SelectAll once the call returns.
type Entry struct {
	Ch     *Channel
	Value  *any
	Kind   OpKind
	Status OpStatus
}

// queueFor returns the waiter queue an entry of the given kind/event-ness
// enrolls into. event is true for monitor-mode (nil Value) Get/Put entries.
func (c *Channel) queueFor(kind OpKind, event bool) *waiterQueue {
	switch kind {
	case Sht:
		return &c.shutdowns
	case Get:
		if event {
			return &c.getEvents
		}
		return &c.gets
	case Put:
		if event {
			return &c.putEvents
		}
		return &c.puts
	default:
		return nil
	}
}

// ready reports whether e can complete right now, without mutating any
// state. gateQueue, when true, makes an otherwise-ready Get/Put defer to
// already-enrolled waiters of the same kind (spec.md §4.4's fast-path
// fairness rule); it must be true for the very first readiness check a
// caller makes (before it has ever enrolled) and false afterwards, once
// the caller has disenrolled itself and is checking on its own behalf.
func (c *Channel) ready(e *Entry, gateQueue bool) (bool, OpStatus) {
	switch e.Kind {
	case Sht:
		if c.shut {
			return true, StatusSht
		}
		return false, StatusNop

	case Get:
		if c.shut && c.status&CanGet == 0 {
			return true, StatusSht
		}
		if e.Value == nil {
			// monitor mode: wait until a putter is blocked.
			if !c.puts.empty() {
				return true, StatusGet
			}
			return false, StatusNop
		}
		if c.status&CanGet == 0 {
			return false, StatusNop
		}
		if gateQueue && !c.gets.empty() {
			return false, StatusNop
		}
		return true, StatusGet

	case Put:
		if c.shut {
			return true, StatusSht
		}
		if e.Value == nil {
			// monitor mode: wait until a getter is blocked.
			if !c.gets.empty() {
				return true, StatusPut
			}
			return false, StatusNop
		}
		if c.status&CanPut == 0 {
			return false, StatusNop
		}
		if gateQueue && !c.puts.empty() {
			return false, StatusNop
		}
		return true, StatusPut

	default:
		return false, StatusNop
	}
}

// attempt performs e's operation if ready, mutating the store and waking
// the next waiter in the chain. Must be called with c.mu held.
func (c *Channel) attempt(e *Entry, gateQueue bool) bool {
	ok, st := c.ready(e, gateQueue)
	if !ok {
		return false
	}
	e.Status = st
	switch st {
	case StatusGet:
		c.performGet(e.Value)
		c.notifyAfter(OperGet)
	case StatusPut:
		c.performPut(e.Value)
		c.notifyAfter(OperPut)
	}
	return true
}

// performGet and performPut run the store's Step (or the built-in
// unbuffered slot) and fold the returned status in. Must be called with
// c.mu held.
func (c *Channel) performGet(val *any) {
	if c.store != nil {
		c.applyStoreResult(c.store.Step(OperGet, c.waitHint(), val))
		return
	}
	*val = c.slot
	c.slot = nil
	c.applyStoreResult(CanPut)
}

func (c *Channel) performPut(val *any) {
	if c.store != nil {
		c.applyStoreResult(c.store.Step(OperPut, c.waitHint(), val))
		return
	}
	c.slot = *val
	c.applyStoreResult(CanGet)
}

func (c *Channel) applyStoreResult(status StoreStatus) {
	c.status = status
	if status == 0 {
		c.shutLocked()
	}
}

// waitHint reports which of this channel's queues are empty, for a Store's
// Step to use in opportunistic grow/shrink decisions.
func (c *Channel) waitHint() StoreWait {
	var w StoreWait
	if c.gets.empty() {
		w |= NoGet
	}
	if c.puts.empty() {
		w |= NoPut
	}
	return w
}

// notifyAfter passes the baton on after a successful operation: a Get may
// have freed room for a blocked Put, or vice versa. Must be called with
// c.mu held.
func (c *Channel) notifyAfter(oper StoreOper) {
	switch oper {
	case OperGet:
		if c.status&CanPut != 0 {
			c.puts.wakeOne(c)
		}
	case OperPut:
		if c.status&CanGet != 0 {
			c.gets.wakeOne(c)
		}
	}
}

func firstValidIndex(entries []Entry) int {
	for i := range entries {
		if entries[i].Ch != nil && entries[i].Kind != Nop {
			return i
		}
	}
	return -1
}

// lockAll acquires every entry's channel mutex, in array order, using
// try-lock-and-restart on every channel after the first (spec.md §4.4 step
// 3 / §5's lock-ordering rule): this is what lets two concurrent selects
// with overlapping channel sets make progress without deadlocking each
// other. Entries must reference distinct channels; duplicates are not
// supported. Returns the indices it locked, in order.
func lockAll(entries []Entry) []int {
	locked := make([]int, 0, len(entries))
	for {
		locked = locked[:0]
		ok := true
		for i := range entries {
			e := &entries[i]
			if e.Ch == nil || e.Kind == Nop {
				continue
			}
			if len(locked) == 0 {
				e.Ch.mu.Lock()
			} else if !e.Ch.mu.TryLock() {
				ok = false
				break
			}
			locked = append(locked, i)
		}
		if ok {
			return locked
		}
		for _, i := range locked {
			entries[i].Ch.mu.Unlock()
		}
		runtime.Gosched()
	}
}

func unlockAll(entries []Entry, locked []int) {
	for _, i := range locked {
		entries[i].Ch.mu.Unlock()
	}
}

// lockAllCheck locks every entry, completes the first ready one (if any),
// and reports its index.
func lockAllCheck(entries []Entry, gateQueue bool) (int, bool) {
	locked := lockAll(entries)
	found := -1
	for _, i := range locked {
		if entries[i].Ch.attempt(&entries[i], gateQueue) {
			found = i
			break
		}
	}
	unlockAll(entries, locked)
	return found, found >= 0
}

// enroll inserts w into every valid entry's waiter queue, first waking one
// event watcher per entry whose operation would newly block a partner
// (spec.md §4.4 step 4).
func enroll(entries []Entry, w *waiter, elems []*list.Element, atHead bool) {
	for i := range entries {
		e := &entries[i]
		if e.Ch == nil || e.Kind == Nop {
			continue
		}
		c := e.Ch
		c.mu.Lock()
		if e.Kind == Get && e.Value != nil && c.gets.empty() {
			c.putEvents.wakeOne(c)
		}
		if e.Kind == Put && e.Value != nil && c.puts.empty() {
			c.getEvents.wakeOne(c)
		}
		q := c.queueFor(e.Kind, e.Value == nil)
		if atHead {
			elems[i] = q.pushHead(w)
		} else {
			elems[i] = q.pushTail(w)
		}
		c.mu.Unlock()
	}
}

func disenroll(entries []Entry, elems []*list.Element) {
	for i := range entries {
		if elems[i] == nil {
			continue
		}
		e := &entries[i]
		c := e.Ch
		c.mu.Lock()
		c.queueFor(e.Kind, e.Value == nil).remove(elems[i])
		c.mu.Unlock()
		elems[i] = nil
	}
}

// SelectOne performs exactly one operation from entries, atomically, or
// reports a timeout. timeout of 0 blocks indefinitely, negative is
// non-blocking, positive is a deadline relative to the call. Returns the
// index of the entry that completed (with Status set), or -1 if entries
// is empty or contains no valid (non-nil channel, non-Nop) request.
func SelectOne(timeout time.Duration, entries []Entry) int {
	if len(entries) == 0 {
		return -1
	}
	for i := range entries {
		entries[i].Status = StatusNop
	}

	// phase 1: fast path, one channel at a time.
	for i := range entries {
		e := &entries[i]
		if e.Ch == nil || e.Kind == Nop {
			continue
		}
		e.Ch.mu.Lock()
		ok := e.Ch.attempt(e, true)
		e.Ch.mu.Unlock()
		if ok {
			e.Ch.recordOp(e.Status)
			return i
		}
	}

	firstValid := firstValidIndex(entries)
	if firstValid < 0 {
		return -1
	}
	if timeout < 0 {
		entries[firstValid].Status = StatusTimeout
		entries[firstValid].Ch.recordOp(StatusTimeout)
		return firstValid
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	w := getWaiter()
	defer putWaiter(w)
	elems := make([]*list.Element, len(entries))
	atHead := false
	for {
		if idx, ok := lockAllCheck(entries, !atHead); ok {
			entries[idx].Ch.recordOp(entries[idx].Status)
			return idx
		}
		enroll(entries, w, elems, atHead)
		w.wait(deadline)
		disenroll(entries, elems)
		if w.timedOut {
			if idx, ok := lockAllCheck(entries, false); ok {
				entries[idx].Ch.recordOp(entries[idx].Status)
				return idx
			}
			entries[firstValid].Status = StatusTimeout
			entries[firstValid].Ch.recordOp(StatusTimeout)
			return firstValid
		}
		atHead = true
	}
}
