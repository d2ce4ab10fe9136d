package store

// ring is a growable circular buffer of any values, grounded on
// catrate.ringBuffer (_examples/joeycumines-go-utilpkg/catrate/ring.go):
// same power-of-2 masking and read/write cursor pair, trimmed to the
// push-front/push-back/pop-front/pop-back operations a channel store
// actually needs (no arbitrary Insert/Search -- those served catrate's
// sliding-window trim, which this domain has no use for).
type ring struct {
	s    []any
	r, w uint
}

func newRing(initialCap int) *ring {
	return &ring{s: make([]any, nextPow2(initialCap))}
}

func (x *ring) mask(v uint) uint { return v & (uint(len(x.s)) - 1) }

func (x *ring) Len() int { return int(x.w - x.r) }

func (x *ring) Cap() int { return len(x.s) }

func (x *ring) full() bool { return x.Len() == len(x.s) }

// grow doubles capacity, relinearizing the stored elements starting at
// index 0.
func (x *ring) grow() {
	n := len(x.s) << 1
	if n == 0 {
		n = 1
	}
	s := make([]any, n)
	l := x.Len()
	for i := 0; i < l; i++ {
		s[i] = x.s[x.mask(x.r+uint(i))]
	}
	x.s = s
	x.r = 0
	x.w = uint(l)
}

// PushBack enqueues v at the tail, growing the buffer first if full.
func (x *ring) PushBack(v any) {
	if x.full() {
		x.grow()
	}
	x.s[x.mask(x.w)] = v
	x.w++
}

// PushFront enqueues v at the head. No store in this package uses it: LIFO
// keeps its stack discipline with PushBack and PopBack.
func (x *ring) PushFront(v any) {
	if x.full() {
		x.grow()
	}
	x.r--
	x.s[x.mask(x.r)] = v
}

// PopFront dequeues the head element.
func (x *ring) PopFront() any {
	v := x.s[x.mask(x.r)]
	x.s[x.mask(x.r)] = nil
	x.r++
	return v
}

// PopBack dequeues the tail element.
func (x *ring) PopBack() any {
	x.w--
	v := x.s[x.mask(x.w)]
	x.s[x.mask(x.w)] = nil
	return v
}
