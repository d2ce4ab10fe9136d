// Package channel implements a communicating-sequential-processes
// rendezvous primitive for goroutines: a synchronous (or store-buffered)
// object through which independently running goroutines exchange typed
// messages, select across multiple channels atomically, and coordinate
// shutdown.
//
// The engine is deliberately generic over neither the store policy nor the
// item type at the type-system level: items move through the rendezvous as
// opaque interface{} values (see [Entry]), with [Put] and [Get] providing
// generic, type-safe sugar at the call site. This mirrors the pointer-sized
// opaque handles of the C library this package's design is drawn from,
// while giving ordinary call sites full type safety.
package channel
