package channel

// WakeFunc is supplied to an Allocator so a store can tell its owning
// Channel that its status changed asynchronously (for example, a
// persistent store noticing new rows without any Step call). It may be
// called from any goroutine, including before the Channel finishes being
// created, but not from inside Step or Dealloc: those run with the
// Channel's mutex held, and wake takes that same mutex.
type WakeFunc func(StoreStatus)

// Dequeue is called once per residual item during final Close, so the
// store's owner can release per-item resources it would otherwise never
// see again.
type Dequeue func(any)

// Store is the pluggable policy object that owns a Channel's queued items.
// A Channel with no Store behaves as a capacity-1 unbuffered rendezvous
// (see the built-in unbuffered store in this package).
//
// Step and Dealloc are always called with the owning Channel's mutex held;
// they must not block on anything but the store's own internal state (a
// persistent store may perform I/O, per the external-store contract in
// package store/buntstore, but must not call back into the Channel).
type Store interface {
	// Step performs oper, using wait as a hint about the absence of other
	// waiters of the matching kind, and returns the store's status after
	// the operation. For OperGet, val receives the dequeued value; for
	// OperPut, *val is the value to enqueue. Returning a zero StoreStatus
	// makes the engine shut the channel at once, while the mutex is still
	// held, before the operation's caller is released.
	Step(oper StoreOper, wait StoreWait, val *any) StoreStatus

	// Dealloc is invoked exactly once, during the final Close of the
	// owning Channel. If finalStatus includes CanGet, Dealloc must invoke
	// the Channel's Dequeue callback on every item still held, in FIFO/LIFO
	// order as appropriate to the store's own policy, before returning.
	Dealloc(finalStatus StoreStatus)
}

// Allocator constructs a Store for a new Channel. dequeue is the per-item
// release callback given to Create; wake lets the store report asynchronous
// status changes. Allocator returns the store's initial status alongside
// the Store itself; a zero status is treated as allocation failure
// whatever Store is returned, matching Channel.Create's chanSa_t contract.
type Allocator func(dequeue Dequeue, wake WakeFunc) (Store, StoreStatus)
