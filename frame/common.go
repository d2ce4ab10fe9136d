// Package frame turns a raw transport.Transport byte stream into a
// channel.Channel of blob.Blob messages (ingress) and back (egress), via
// interchangeable wire codecs. Each codec is a pair of functions -- the Go
// rendering of original_source's chanBlbEgrCtx/chanBlbIgrCtx framer
// function-pointer pairs -- run single-threaded by a supervisor.Supervisor,
// interacting with the engine only through blocking channel.Get/channel.Put
// and the transport's synchronous Input/Output.
package frame

import (
	"errors"
	"io"

	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/transport"
)

// ErrClosed is reported by putBlob when the channel it drives was shut (as
// opposed to a transport I/O failure). The codecs' Egress/Ingress loops
// treat it as a clean stop and return nil rather than ErrClosed.
var ErrClosed = errors.New("frame: channel shut")

// EgressFunc drains blob.Blob values from ch and writes their wire
// encoding to t, until ch is shut or t.Output fails. It always shuts ch
// before returning.
type EgressFunc func(ch *channel.Channel, t transport.Transport) error

// IngressFunc reads wire bytes from t, decodes complete messages, and puts
// each as a blob.Blob onto ch, until t.Input reaches end-of-stream, a
// framing error occurs, or ch is shut. It always shuts ch before returning.
// maxFrame bounds a single message's size (0 means unbounded); codecs that
// have no natural frame bound (Raw) use it as the read chunk size instead.
type IngressFunc func(ch *channel.Channel, t transport.Transport, maxFrame int) error

// Codec pairs an egress and ingress implementation of one wire format.
type Codec struct {
	Egress  EgressFunc
	Ingress IngressFunc
}

// reader buffers transport.Transport.Input so codecs that need to inspect
// bytes one at a time (NetString's decimal length, HTTP/1.1's header scan)
// don't pay a syscall per byte.
type reader struct {
	t        transport.Transport
	buf      []byte
	pos, end int
}

func newReader(t transport.Transport, size int) *reader {
	if size <= 0 {
		size = 4096
	}
	return &reader{t: t, buf: make([]byte, size)}
}

func (r *reader) fill() error {
	n, err := r.t.Input(r.buf)
	if err != nil {
		return err
	}
	if n == 0 {
		return io.EOF
	}
	r.pos, r.end = 0, n
	return nil
}

// ReadByte returns the next byte from the stream.
func (r *reader) ReadByte() (byte, error) {
	if r.pos >= r.end {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadFull reads exactly len(p) bytes.
func (r *reader) ReadFull(p []byte) error {
	for len(p) > 0 {
		if r.pos >= r.end {
			if err := r.fill(); err != nil {
				return err
			}
		}
		n := copy(p, r.buf[r.pos:r.end])
		r.pos += n
		p = p[n:]
	}
	return nil
}

// writeAll writes buf to t in full, looping on short writes.
func writeAll(t transport.Transport, buf []byte) error {
	for len(buf) > 0 {
		n, err := t.Output(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrClosedPipe
		}
		buf = buf[n:]
	}
	return nil
}

// putBlob puts b onto ch, returning ErrClosed if it was refused because ch
// is shut.
func putBlob(ch *channel.Channel, b blob.Blob) error {
	if st := channel.Put(0, ch, b); st != channel.StatusPut {
		return ErrClosed
	}
	return nil
}
