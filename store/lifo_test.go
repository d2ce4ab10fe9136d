package store

import (
	"testing"

	"github.com/gdavidbutler/gochan/channel"
)

func TestLIFOOrdersMostRecentFirst(t *testing.T) {
	ch := channel.Create(nil, LIFO(4))
	for i := 0; i < 3; i++ {
		if st := channel.Put(0, ch, i); st != channel.StatusPut {
			t.Fatalf("Put(%d) = %v, want StatusPut", i, st)
		}
	}
	for i := 2; i >= 0; i-- {
		v, st := channel.Get[int](0, ch)
		if st != channel.StatusGet {
			t.Fatalf("Get() status = %v, want StatusGet", st)
		}
		if v != i {
			t.Fatalf("Get() = %d, want %d (LIFO order)", v, i)
		}
	}
}
