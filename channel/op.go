package channel

import "time"

// Op performs a single blocking, timed, or non-blocking operation on ch.
// It is implemented atop SelectOne with a one-entry array (spec.md §4.3).
//
// value may be nil for "monitor" mode: for kind Get, the call waits until
// a putter is blocked without consuming a value; for kind Put, it waits
// until a getter is blocked without producing one; for kind Sht, value is
// ignored and the call waits for the channel to be shut.
//
// timeout of 0 blocks indefinitely, a negative duration is non-blocking,
// and a positive duration is a deadline relative to the call.
func Op(timeout time.Duration, ch *Channel, value *any, kind OpKind) OpStatus {
	if ch == nil || kind == Nop {
		return StatusNop
	}
	entries := [1]Entry{{Ch: ch, Value: value, Kind: kind}}
	if idx := SelectOne(timeout, entries[:]); idx >= 0 {
		return entries[idx].Status
	}
	return StatusNop
}
