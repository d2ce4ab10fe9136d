// Package transport provides the byte-level I/O seam frame codecs run
// over: spec.md's three-call transport adapter (input/output/close),
// rendered as a small Go interface instead of C function pointers plus a
// void* context.
package transport

import "errors"

// ErrTransportClosed is returned by a blocked Input/Output call when Close
// runs concurrently and the underlying transport can no longer deliver a
// result for the in-flight request.
var ErrTransportClosed = errors.New("transport: closed while operation was in flight")

// Transport is the byte-level I/O contract a frame codec's egress/ingress
// framer drives. Input and Output return 0 (with a nil error) on a clean
// end-of-stream; a non-nil error always means failure. Close is always
// safe to call more than once.
type Transport interface {
	// Input reads up to len(buf) bytes, returning the count actually read.
	Input(buf []byte) (int, error)
	// Output writes buf, returning the count actually written.
	Output(buf []byte) (int, error)
	// Close releases any resources backing the transport.
	Close() error
}
