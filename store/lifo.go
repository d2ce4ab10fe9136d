package store

import "github.com/gdavidbutler/gochan/channel"

// lifoStore is a fixed-capacity stack: put pushes, get pops the same end,
// so the most recently put value is the next one gotten.
type lifoStore struct {
	r        *ring
	capacity int
	dequeue  channel.Dequeue
}

// LIFO allocates a static, fixed-capacity last-in-first-out buffer of the
// given capacity. capacity must be positive.
func LIFO(capacity int) channel.Allocator {
	if capacity <= 0 {
		capacity = 1
	}
	return func(dequeue channel.Dequeue, wake channel.WakeFunc) (channel.Store, channel.StoreStatus) {
		s := &lifoStore{r: newRing(capacity), capacity: capacity, dequeue: dequeue}
		return s, channel.CanPut
	}
}

func (s *lifoStore) Step(oper channel.StoreOper, wait channel.StoreWait, val *any) channel.StoreStatus {
	switch oper {
	case channel.OperPut:
		s.r.PushBack(*val)
	case channel.OperGet:
		*val = s.r.PopBack()
	}
	return s.status()
}

func (s *lifoStore) status() channel.StoreStatus {
	var st channel.StoreStatus
	if s.r.Len() > 0 {
		st |= channel.CanGet
	}
	if s.r.Len() < s.capacity {
		st |= channel.CanPut
	}
	return st
}

func (s *lifoStore) Dealloc(finalStatus channel.StoreStatus) {
	if finalStatus&channel.CanGet == 0 || s.dequeue == nil {
		return
	}
	for s.r.Len() > 0 {
		s.dequeue(s.r.PopBack())
	}
}
