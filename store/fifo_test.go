package store

import (
	"testing"
	"time"

	"github.com/gdavidbutler/gochan/channel"
)

func TestFIFOOrdersByArrival(t *testing.T) {
	ch := channel.Create(nil, FIFO(4))
	if ch == nil {
		t.Fatal("Create returned nil")
	}
	for i := 0; i < 3; i++ {
		if st := channel.Put(0, ch, i); st != channel.StatusPut {
			t.Fatalf("Put(%d) = %v, want StatusPut", i, st)
		}
	}
	for i := 0; i < 3; i++ {
		v, st := channel.Get[int](0, ch)
		if st != channel.StatusGet {
			t.Fatalf("Get() status = %v, want StatusGet", st)
		}
		if v != i {
			t.Fatalf("Get() = %d, want %d (FIFO order)", v, i)
		}
	}
}

func TestFIFOBlocksWhenFull(t *testing.T) {
	ch := channel.Create(nil, FIFO(1))
	if st := channel.Put(0, ch, "a"); st != channel.StatusPut {
		t.Fatalf("first Put = %v, want StatusPut", st)
	}
	if st := channel.Put(-1, ch, "b"); st != channel.StatusTimeout {
		t.Fatalf("Put on full store (non-blocking) = %v, want StatusTimeout", st)
	}
}

func TestFIFODeallocDrainsResidual(t *testing.T) {
	var drained []any
	ch := channel.Create(func(v any) { drained = append(drained, v) }, FIFO(4))
	channel.Put(0, ch, 1)
	channel.Put(0, ch, 2)
	channel.Close(ch)
	if len(drained) != 2 || drained[0] != 1 || drained[1] != 2 {
		t.Fatalf("drained = %v, want [1 2]", drained)
	}
}

func TestFIFOTimeoutOnEmptyGet(t *testing.T) {
	ch := channel.Create(nil, FIFO(4))
	start := time.Now()
	_, st := channel.Get[int](20*time.Millisecond, ch)
	if st != channel.StatusTimeout {
		t.Fatalf("Get() = %v, want StatusTimeout", st)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("Get returned before its deadline elapsed")
	}
}
