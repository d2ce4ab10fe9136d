package store

import "github.com/gdavidbutler/gochan/channel"

// fifoStore is a fixed-capacity FIFO buffer: put enqueues at the tail, get
// dequeues from the head. Order-preserving, grounded on the ring mechanics
// in ring.go.
type fifoStore struct {
	r        *ring
	capacity int
	dequeue  channel.Dequeue
}

// FIFO allocates a static, fixed-capacity first-in-first-out buffer of the
// given capacity. capacity must be positive.
func FIFO(capacity int) channel.Allocator {
	if capacity <= 0 {
		capacity = 1
	}
	return func(dequeue channel.Dequeue, wake channel.WakeFunc) (channel.Store, channel.StoreStatus) {
		s := &fifoStore{r: newRing(capacity), capacity: capacity, dequeue: dequeue}
		return s, channel.CanPut
	}
}

func (s *fifoStore) Step(oper channel.StoreOper, wait channel.StoreWait, val *any) channel.StoreStatus {
	switch oper {
	case channel.OperPut:
		s.r.PushBack(*val)
	case channel.OperGet:
		*val = s.r.PopFront()
	}
	return s.status()
}

func (s *fifoStore) status() channel.StoreStatus {
	var st channel.StoreStatus
	if s.r.Len() > 0 {
		st |= channel.CanGet
	}
	if s.r.Len() < s.capacity {
		st |= channel.CanPut
	}
	return st
}

func (s *fifoStore) Dealloc(finalStatus channel.StoreStatus) {
	if finalStatus&channel.CanGet == 0 || s.dequeue == nil {
		return
	}
	for s.r.Len() > 0 {
		s.dequeue(s.r.PopFront())
	}
}
