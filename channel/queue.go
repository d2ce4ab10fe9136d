package channel

import "container/list"

// waiterQueue is one of a Channel's five waiter queues. Backed by
// container/list rather than the spec's hand-rolled growable ring: a
// doubly-linked list gives O(1) arbitrary-position removal, which the
// select algorithm needs when disenrolling a woken waiter from every other
// channel it was enrolled in (grounded on gaio's fdDesc.readers/writers
// list.List in _examples/socket515-gaio/watcher.go).
//
// Removal is always performed by the enrolled waiter itself, once it wakes
// and re-checks readiness (see select.go's disenroll) -- never by the
// waking side. This keeps "am I still enrolled" bookkeeping entirely with
// the goroutine that owns the *list.Element, and makes signal delivery
// idempotent: re-signaling a front waiter that hasn't disenrolled yet
// (because it hasn't been scheduled) is harmless, and the next genuinely
// fresh transition will reach whoever is actually at the front once it has.
type waiterQueue struct {
	l list.List
}

func (q *waiterQueue) empty() bool { return q.l.Len() == 0 }

// pushTail enrolls w at the back of the queue (normal arrival order).
func (q *waiterQueue) pushTail(w *waiter) *list.Element {
	return q.l.PushBack(w)
}

// pushHead enrolls w at the front of the queue: spec.md §4.4 step 6's
// fairness bias, giving a waiter re-enrolling after a spurious wake
// priority over newer arrivals.
func (q *waiterQueue) pushHead(w *waiter) *list.Element {
	return q.l.PushFront(w)
}

// remove disenrolls the element (a no-op if e is nil); safe to call more
// than once on the same element (container/list.Remove is idempotent).
func (q *waiterQueue) remove(e *list.Element) {
	if e == nil {
		return
	}
	q.l.Remove(e)
}

// wakeOne signals the front waiter, if any, and reports whether it did.
func (q *waiterQueue) wakeOne(ch *Channel) bool {
	e := q.l.Front()
	if e == nil {
		return false
	}
	e.Value.(*waiter).signal(ch)
	return true
}

// wakeAll signals every waiter currently in the queue.
func (q *waiterQueue) wakeAll(ch *Channel) {
	for e := q.l.Front(); e != nil; e = e.Next() {
		e.Value.(*waiter).signal(ch)
	}
}
