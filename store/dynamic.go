package store

import "github.com/gdavidbutler/gochan/channel"

// DynamicOption configures a Dynamic store at allocation time.
type DynamicOption interface {
	applyDynamic(*dynamicStore)
}

type dynamicOptionFunc func(*dynamicStore)

func (f dynamicOptionFunc) applyDynamic(s *dynamicStore) { f(s) }

// WithMaxCapacity caps how large a Dynamic store's backing ring can grow;
// once reached, Step reports CanPut false and callers block like a static
// FIFO. max <= 0 means unbounded.
func WithMaxCapacity(max int) DynamicOption {
	return dynamicOptionFunc(func(s *dynamicStore) { s.max = clamp(max, 0, maxInt) })
}

const maxInt = int(^uint(0) >> 1)

// dynamicStore is a latency-sensitive FIFO implementing spec.md:70's
// per-operation, by-one growth/shrink rule: each Put/Get independently
// decides whether to grow or shrink the backing ring by exactly one slot,
// based only on its own wait hint, never touching capacity below 2.
type dynamicStore struct {
	r       *dynRing
	max     int
	dequeue channel.Dequeue
}

// Dynamic allocates a store with no fixed capacity: it grows and shrinks
// by one slot at a time as spec.md:70 describes. initialCap seeds the
// backing ring's starting capacity (minimum 1).
func Dynamic(initialCap int, opts ...DynamicOption) channel.Allocator {
	return func(dequeue channel.Dequeue, wake channel.WakeFunc) (channel.Store, channel.StoreStatus) {
		s := &dynamicStore{r: newDynRing(initialCap), dequeue: dequeue}
		for _, o := range opts {
			if o != nil {
				o.applyDynamic(s)
			}
		}
		return s, channel.CanPut
	}
}

// Step implements spec.md:70 literally: growth and shrink each trigger off
// a single operation's own wait hint, one slot at a time. The "capacity >
// 2" check gates every shrink attempt before it happens, so capacity never
// drops below 2.
func (s *dynamicStore) Step(oper channel.StoreOper, wait channel.StoreWait, val *any) channel.StoreStatus {
	switch oper {
	case channel.OperPut:
		s.r.PushBack(*val)
		switch {
		case wait&channel.NoGet == 0 && s.r.full():
			// A getter is already enrolled and this put just filled the
			// last slot: make room for the next put now, rather than
			// blocking it on this getter's drain.
			s.r.growBy1()
		case wait&channel.NoGet != 0 && s.r.Cap() > 2:
			s.r.shrinkBy1()
		}
	case channel.OperGet:
		if wait&channel.NoPut == 0 && s.r.full() {
			// A putter is already enrolled against a full ring: grow by
			// one before draining, so the putter has room the instant it
			// wakes instead of needing two rounds.
			s.r.growBy1()
		}
		*val = s.r.PopFront()
		if wait&channel.NoPut != 0 && s.r.Len() == 1 && s.r.Cap() > 2 {
			s.r.shrinkBy1()
		}
	}
	return s.status()
}

func (s *dynamicStore) status() channel.StoreStatus {
	var st channel.StoreStatus
	if s.r.Len() > 0 {
		st |= channel.CanGet
	}
	if s.max <= 0 || s.r.Len() < s.max {
		st |= channel.CanPut
	}
	return st
}

func (s *dynamicStore) Dealloc(finalStatus channel.StoreStatus) {
	if finalStatus&channel.CanGet == 0 || s.dequeue == nil {
		return
	}
	for s.r.Len() > 0 {
		s.dequeue(s.r.PopFront())
	}
}

// dynRing is a circular buffer that changes capacity by exactly one slot
// at a time (spec.md:70), unlike ring.go's power-of-two doubling used by
// the static FIFO/LIFO stores: a masked, power-of-two-sized ring can't
// express a single-slot adjustment, so Dynamic keeps its own
// modulo-indexed ring instead.
type dynRing struct {
	s    []any
	r, w int
	n    int
}

func newDynRing(initialCap int) *dynRing {
	if initialCap < 1 {
		initialCap = 1
	}
	return &dynRing{s: make([]any, initialCap)}
}

func (x *dynRing) idx(i int) int { return i % len(x.s) }

func (x *dynRing) Len() int { return x.n }

func (x *dynRing) Cap() int { return len(x.s) }

func (x *dynRing) full() bool { return x.n == len(x.s) }

func (x *dynRing) PushBack(v any) {
	x.s[x.idx(x.w)] = v
	x.w = x.idx(x.w + 1)
	x.n++
}

func (x *dynRing) PopFront() any {
	v := x.s[x.idx(x.r)]
	x.s[x.idx(x.r)] = nil
	x.r = x.idx(x.r + 1)
	x.n--
	return v
}

// relinearize copies the occupied elements into a freshly sized backing
// array starting at index 0, used by growBy1/shrinkBy1.
func (x *dynRing) relinearize(newCap int) {
	ns := make([]any, newCap)
	for i := 0; i < x.n; i++ {
		ns[i] = x.s[x.idx(x.r+i)]
	}
	x.s = ns
	x.r = 0
	x.w = x.idx(x.n)
}

func (x *dynRing) growBy1() {
	x.relinearize(len(x.s) + 1)
}

// shrinkBy1 reduces capacity by one slot. A no-op if that would leave no
// room for the items already held (callers gate the "capacity > 2" floor
// themselves; this guard only protects against data loss).
func (x *dynRing) shrinkBy1() {
	if len(x.s) <= 1 || x.n > len(x.s)-1 {
		return
	}
	x.relinearize(len(x.s) - 1)
}
