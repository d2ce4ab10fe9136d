package store

import "golang.org/x/exp/constraints"

// nextPow2 rounds n up to the next power of two, used by newRing to size
// a ring's initial buffer (Dynamic's bounds use clamp). Generic over any integer
// type so callers never have to convert through int, grounded on
// catrate's use of constraints.Ordered for its own generic bound
// (_examples/joeycumines-go-utilpkg/catrate/ring.go).
func nextPow2[T constraints.Integer](n T) T {
	size := T(1)
	for size < n {
		size <<= 1
	}
	if size == 0 {
		size = 1
	}
	return size
}

// clamp restricts v to [lo, hi].
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
