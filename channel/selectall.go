package channel

import (
	"container/list"
	"time"
)

// AllResult is SelectAll's outcome, the Go rendering of spec.md §6.1's
// select_all enum ({Error, Event, Op, Timeout}).
type AllResult int

const (
	// AllNone means entries was empty or had no valid request (Error).
	AllNone AllResult = iota
	// AllShutdown means at least one entry observed Shut; nothing in
	// entries was performed. Every ready entry's Status is filled.
	AllShutdown
	// AllCompleted means every valid entry performed its operation.
	AllCompleted
	// AllTimeout means the deadline elapsed with entries not all ready.
	AllTimeout
)

// tryAll locks every entry, and either completes all of them, reports a
// shutdown sighting, or reports nothing happened yet.
func tryAll(entries []Entry, gateQueue bool) AllResult {
	locked := lockAll(entries)
	defer unlockAll(entries, locked)

	statuses := make([]OpStatus, len(entries))
	allReady := true
	anyShut := false
	for _, i := range locked {
		ok, st := entries[i].Ch.ready(&entries[i], gateQueue)
		if !ok {
			allReady = false
			continue
		}
		statuses[i] = st
		if st == StatusSht {
			anyShut = true
		}
	}

	if anyShut {
		for _, i := range locked {
			entries[i].Status = statuses[i]
		}
		return AllShutdown
	}
	if !allReady {
		return AllNone
	}
	for _, i := range locked {
		e := &entries[i]
		e.Status = statuses[i]
		switch statuses[i] {
		case StatusGet:
			e.Ch.performGet(e.Value)
			e.Ch.notifyAfter(OperGet)
		case StatusPut:
			e.Ch.performPut(e.Value)
			e.Ch.notifyAfter(OperPut)
		}
		e.Ch.recordOp(e.Status)
	}
	return AllCompleted
}

// SelectAll performs every operable entry's operation simultaneously, or
// none at all: either every entry succeeds, or one or more are
// shutdown-visible (in which case every entry's Status reflecting
// readiness is filled and nothing is performed), or the call times out.
func SelectAll(timeout time.Duration, entries []Entry) AllResult {
	if len(entries) == 0 {
		return AllNone
	}
	for i := range entries {
		entries[i].Status = StatusNop
	}
	if firstValidIndex(entries) < 0 {
		return AllNone
	}

	if res := tryAll(entries, true); res != AllNone {
		return res
	}

	if timeout < 0 {
		return AllTimeout
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	w := getWaiter()
	defer putWaiter(w)
	elems := make([]*list.Element, len(entries))
	atHead := false
	for {
		if res := tryAll(entries, !atHead); res != AllNone {
			return res
		}
		enroll(entries, w, elems, atHead)
		w.wait(deadline)
		disenroll(entries, elems)
		if w.timedOut {
			if res := tryAll(entries, false); res != AllNone {
				return res
			}
			return AllTimeout
		}
		atHead = true
	}
}
