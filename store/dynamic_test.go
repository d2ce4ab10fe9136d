package store

import (
	"testing"

	"github.com/gdavidbutler/gochan/channel"
)

func TestDynamicGrowsPastInitialCapacity(t *testing.T) {
	ch := channel.Create(nil, Dynamic(1))
	for i := 0; i < 50; i++ {
		if st := channel.Put(0, ch, i); st != channel.StatusPut {
			t.Fatalf("Put(%d) = %v, want StatusPut", i, st)
		}
	}
	for i := 0; i < 50; i++ {
		v, st := channel.Get[int](0, ch)
		if st != channel.StatusGet || v != i {
			t.Fatalf("Get() = (%v, %v), want (%d, StatusGet)", v, st, i)
		}
	}
}

func TestDynamicRespectsMaxCapacity(t *testing.T) {
	ch := channel.Create(nil, Dynamic(1, WithMaxCapacity(2)))
	channel.Put(0, ch, "a")
	channel.Put(0, ch, "b")
	if st := channel.Put(-1, ch, "c"); st != channel.StatusTimeout {
		t.Fatalf("Put past max (non-blocking) = %v, want StatusTimeout", st)
	}
}

func TestDynRingGrowsAndShrinksByOne(t *testing.T) {
	r := newDynRing(1)
	r.PushBack(1)
	if r.Cap() != 1 {
		t.Fatalf("Cap() = %d, want 1", r.Cap())
	}
	r.growBy1()
	if r.Cap() != 2 {
		t.Fatalf("after growBy1, Cap() = %d, want 2", r.Cap())
	}
	r.PushBack(2)
	if v := r.PopFront(); v != 1 {
		t.Fatalf("PopFront() = %v, want 1", v)
	}
	r.shrinkBy1()
	if r.Cap() != 1 {
		t.Fatalf("after shrinkBy1, Cap() = %d, want 1", r.Cap())
	}
	if v := r.PopFront(); v != 2 {
		t.Fatalf("PopFront() = %v, want 2", v)
	}
}

func TestDynRingShrinkRefusesToDropItems(t *testing.T) {
	r := newDynRing(2)
	r.PushBack(1)
	r.PushBack(2)
	r.shrinkBy1()
	if r.Cap() != 2 {
		t.Fatalf("shrinkBy1 on a full ring should be a no-op, Cap() = %d, want 2", r.Cap())
	}
}

func TestDynamicShrinksWhenPutterIsAlone(t *testing.T) {
	ch := channel.Create(nil, Dynamic(1))
	for i := 0; i < 10; i++ {
		channel.Put(0, ch, i)
	}
	for i := 0; i < 10; i++ {
		v, st := channel.Get[int](0, ch)
		if st != channel.StatusGet || v != i {
			t.Fatalf("Get() = (%v, %v), want (%d, StatusGet)", v, st, i)
		}
	}
	// Draining back to empty with no concurrent waiter on either side
	// should have shrunk the ring back down via the per-Get shrink rule.
	if st := channel.Put(0, ch, 99); st != channel.StatusPut {
		t.Fatalf("Put after drain = %v, want StatusPut", st)
	}
	v, st := channel.Get[int](0, ch)
	if st != channel.StatusGet || v != 99 {
		t.Fatalf("Get() = (%v, %v), want (99, StatusGet)", v, st)
	}
}
