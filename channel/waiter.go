package channel

import (
	"sync"
	"time"
)

// waiter is one goroutine's cooperation point for a single blocking call
// (Op, SelectOne, or SelectAll). Unlike the pthread-based original, Go has
// no raw thread-locals worth reaching for here: a waiter's lifetime is
// scoped to the blocking call that owns it, so it is drawn from a pool
// (mirroring gaio's aiocbPool) rather than a per-goroutine registry. See
// SPEC_FULL.md's channel MODULE section for the reasoning.
type waiter struct {
	mu       sync.Mutex
	cond     *sync.Cond
	woken    bool
	timedOut bool
	signaled map[*Channel]struct{}
}

var waiterPool = sync.Pool{
	New: func() any {
		w := &waiter{}
		w.cond = sync.NewCond(&w.mu)
		return w
	},
}

// getWaiter and putWaiter pool waiter records for the duration of a single
// blocking call. Callers must disenroll every queue membership (see
// select.go's disenroll) before calling putWaiter: the pool has no way to
// know a channel still holds a *list.Element pointing at a reused waiter.
func getWaiter() *waiter {
	w := waiterPool.Get().(*waiter)
	w.woken = false
	w.timedOut = false
	if w.signaled != nil {
		clear(w.signaled)
	}
	return w
}

func putWaiter(w *waiter) {
	waiterPool.Put(w)
}

// signal marks the waiter as woken by ch and notifies its condition
// variable. Called with ch's mutex held (lock order: channel -> waiter).
func (w *waiter) signal(ch *Channel) {
	w.mu.Lock()
	if w.signaled == nil {
		w.signaled = make(map[*Channel]struct{}, 1)
	}
	w.signaled[ch] = struct{}{}
	w.woken = true
	w.cond.Signal()
	w.mu.Unlock()
}

// wasSignaledBy reports whether ch signaled this waiter during its most
// recent wait. Nothing in this package calls it: a woken select re-checks
// its entries' readiness and does not consult which channel signaled.
func (w *waiter) wasSignaledBy(ch *Channel) bool {
	w.mu.Lock()
	_, ok := w.signaled[ch]
	w.mu.Unlock()
	return ok
}

// wait blocks until signaled or, if deadline is non-zero, until the
// deadline passes, in which case it sets timedOut. It returns nothing; a
// signal may arrive alongside the deadline, so callers re-check readiness
// before treating timedOut as a timeout.
func (w *waiter) wait(deadline time.Time) {
	w.mu.Lock()
	if w.signaled != nil {
		clear(w.signaled)
	}
	w.woken = false
	w.timedOut = false
	var timer *time.Timer
	if !deadline.IsZero() {
		if d := time.Until(deadline); d <= 0 {
			w.timedOut = true
			w.mu.Unlock()
			return
		} else {
			timer = time.AfterFunc(d, func() {
				w.mu.Lock()
				w.timedOut = true
				w.woken = true
				w.cond.Signal()
				w.mu.Unlock()
			})
		}
	}
	for !w.woken {
		w.cond.Wait()
	}
	if timer != nil {
		timer.Stop()
	}
	w.mu.Unlock()
}
