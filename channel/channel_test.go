package channel

import (
	"sync"
	"testing"
	"time"
)

func TestUnbufferedRendezvousBlocksUntilBothSides(t *testing.T) {
	ch := Create(nil, nil)
	done := make(chan OpStatus, 1)
	go func() {
		done <- Op(0, ch, ptr(any(42)), Put)
	}()

	// give the putter a moment to actually block before the Get arrives.
	time.Sleep(5 * time.Millisecond)
	v, st := Get[int](0, ch)
	if st != StatusGet || v != 42 {
		t.Fatalf("Get() = (%v, %v), want (42, StatusGet)", v, st)
	}
	if putSt := <-done; putSt != StatusPut {
		t.Fatalf("Put() = %v, want StatusPut", putSt)
	}
}

func TestNonBlockingPutOnEmptyUnbufferedTimesOut(t *testing.T) {
	ch := Create(nil, nil)
	if st := Put(-1, ch, 1); st != StatusTimeout {
		t.Fatalf("Put(-1) = %v, want StatusTimeout", st)
	}
}

func TestShutWakesAllBlockedWaiters(t *testing.T) {
	ch := Create(nil, nil)
	const n = 8
	var wg sync.WaitGroup
	results := make([]OpStatus, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, results[i] = Get[int](0, ch)
		}(i)
	}
	time.Sleep(10 * time.Millisecond)
	Shut(ch)
	wg.Wait()
	for i, st := range results {
		if st != StatusSht {
			t.Fatalf("Get() #%d = %v, want StatusSht", i, st)
		}
	}
}

func TestOpenCloseLifecycle(t *testing.T) {
	ch := Create(nil, nil)
	if n := OpenCount(ch); n != 1 {
		t.Fatalf("OpenCount() = %d, want 1", n)
	}
	Open(ch)
	if n := OpenCount(ch); n != 2 {
		t.Fatalf("OpenCount() after Open = %d, want 2", n)
	}
	Close(ch)
	if n := OpenCount(ch); n != 1 {
		t.Fatalf("OpenCount() after one Close = %d, want 1", n)
	}
	Close(ch)
}

func TestSelectOnePicksOneReadyEntry(t *testing.T) {
	a := Create(nil, nil)
	b := Create(nil, nil)
	go func() { Put(0, b, "from-b") }()
	time.Sleep(5 * time.Millisecond)

	var av, bv any
	entries := []Entry{
		{Ch: a, Value: &av, Kind: Get},
		{Ch: b, Value: &bv, Kind: Get},
	}
	idx := SelectOne(100*time.Millisecond, entries)
	if idx != 1 {
		t.Fatalf("SelectOne() picked index %d, want 1", idx)
	}
	if entries[1].Status != StatusGet || bv != "from-b" {
		t.Fatalf("entries[1] = %+v val=%v, want StatusGet/from-b", entries[1], bv)
	}
	if entries[0].Status != StatusNop {
		t.Fatalf("entries[0].Status = %v, want StatusNop (untouched)", entries[0].Status)
	}
}

func TestSelectAllIsAllOrNothing(t *testing.T) {
	a := Create(nil, nil)
	b := Create(nil, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); Put(0, a, 1) }()
	go func() { defer wg.Done(); Put(0, b, 2) }()
	time.Sleep(10 * time.Millisecond)

	var av, bv any
	entries := []Entry{
		{Ch: a, Value: &av, Kind: Get},
		{Ch: b, Value: &bv, Kind: Get},
	}
	res := SelectAll(100*time.Millisecond, entries)
	if res != AllCompleted {
		t.Fatalf("SelectAll() = %v, want AllCompleted", res)
	}
	if av != 1 || bv != 2 {
		t.Fatalf("got av=%v bv=%v, want 1, 2", av, bv)
	}
	wg.Wait()
}

func TestSelectAllReportsShutdownWithoutPartialEffect(t *testing.T) {
	a := Create(nil, nil)
	b := Create(nil, nil)
	Shut(a)

	go func() { Put(0, b, "x") }()
	time.Sleep(10 * time.Millisecond)

	var av, bv any
	entries := []Entry{
		{Ch: a, Value: &av, Kind: Get},
		{Ch: b, Value: &bv, Kind: Get},
	}
	res := SelectAll(100*time.Millisecond, entries)
	if res != AllShutdown {
		t.Fatalf("SelectAll() = %v, want AllShutdown", res)
	}
	if entries[0].Status != StatusSht {
		t.Fatalf("entries[0].Status = %v, want StatusSht", entries[0].Status)
	}
	if bv != nil {
		t.Fatalf("b's value was consumed (%v) despite all-or-nothing semantics", bv)
	}
}

func TestMonitorModeGetWatchesForBlockedPutter(t *testing.T) {
	ch := Create(nil, nil)
	watchDone := make(chan OpStatus, 1)
	go func() { watchDone <- Op(200*time.Millisecond, ch, nil, Get) }()
	time.Sleep(10 * time.Millisecond)

	putDone := make(chan OpStatus, 1)
	go func() { putDone <- Put(0, ch, "hi") }()

	if st := <-watchDone; st != StatusGet {
		t.Fatalf("monitor Get() = %v, want StatusGet", st)
	}
	if st := <-putDone; st != StatusPut {
		t.Fatalf("Put() after monitor woke = %v, want StatusPut", st)
	}
}

func TestMetricsCountGetsAndTimeouts(t *testing.T) {
	ch := Create(nil, nil, WithMetrics(true))
	go func() { Put(0, ch, 1) }()
	Get[int](0, ch)
	Put(-1, ch, 2)

	m := ch.Metrics()
	if m == nil {
		t.Fatal("Metrics() = nil, want non-nil (WithMetrics(true))")
	}
	if m.Gets.Load() != 1 {
		t.Fatalf("Gets = %d, want 1", m.Gets.Load())
	}
	if m.Timeouts.Load() != 1 {
		t.Fatalf("Timeouts = %d, want 1", m.Timeouts.Load())
	}
}

func ptr(v any) *any { return &v }
