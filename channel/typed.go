package channel

import "time"

// Put sends v on ch, blocking/timing out/non-blocking per timeout (see
// Op). It is generic sugar over the engine's opaque any-typed core,
// following spec.md §9 design note (c): the rendezvous itself stays
// parametrized over interface{} so heterogeneous channels can share a
// SelectOne/SelectAll array, while ordinary call sites get type safety.
func Put[T any](timeout time.Duration, ch *Channel, v T) OpStatus {
	var a any = v
	return Op(timeout, ch, &a, Put)
}

// Get receives a value from ch. On any status other than StatusGet, the
// returned value is the zero value of T.
func Get[T any](timeout time.Duration, ch *Channel) (T, OpStatus) {
	var a any
	st := Op(timeout, ch, &a, Get)
	if st != StatusGet {
		var zero T
		return zero, st
	}
	v, _ := a.(T)
	return v, st
}
