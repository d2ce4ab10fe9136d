package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/transport"
)

// NETCONF11 implements the NETCONF 1.1 chunked framing (RFC 6242): each
// chunk is "\n#<n>\n" followed by n bytes, repeated, ending in "\n##\n".
// Ingress concatenates every chunk of one message into a single blob.
var NETCONF11 = Codec{Egress: NETCONF11Egress, Ingress: NETCONF11Ingress}

var errNetconf11Framing = errors.New("frame: netconf11: malformed chunk header")

// NETCONF11Egress emits each blob as a single chunk.
func NETCONF11Egress(ch *channel.Channel, t transport.Transport) error {
	defer channel.Shut(ch)
	for {
		b, st := channel.Get[blob.Blob](0, ch)
		if st != channel.StatusGet {
			return nil
		}
		head := fmt.Sprintf("\n#%d\n", len(b.Bytes))
		if err := writeAll(t, []byte(head)); err != nil {
			return err
		}
		if err := writeAll(t, b.Bytes); err != nil {
			return err
		}
		if err := writeAll(t, []byte("\n##\n")); err != nil {
			return err
		}
	}
}

func NETCONF11Ingress(ch *channel.Channel, t transport.Transport, maxFrame int) error {
	defer channel.Shut(ch)
	r := newReader(t, 4096)
	for {
		var msg bytes.Buffer
		for {
			n, done, err := readNetconf11Chunk(r)
			if err != nil {
				if errors.Is(err, io.EOF) && msg.Len() == 0 {
					return nil
				}
				return err
			}
			if done {
				break
			}
			if maxFrame > 0 && msg.Len()+len(n) > maxFrame {
				return fmt.Errorf("frame: netconf11: message exceeds max frame size %d", maxFrame)
			}
			msg.Write(n)
		}
		if err := putBlob(ch, blob.Blob{Bytes: append([]byte(nil), msg.Bytes()...)}); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// readNetconf11Chunk reads one "\n#<n>\n<data>" chunk, or the "\n##\n"
// terminator (done=true).
func readNetconf11Chunk(r *reader) (data []byte, done bool, err error) {
	if b, e := r.ReadByte(); e != nil || b != '\n' {
		if e != nil {
			return nil, false, e
		}
		return nil, false, errNetconf11Framing
	}
	if b, e := r.ReadByte(); e != nil || b != '#' {
		if e != nil {
			return nil, false, e
		}
		return nil, false, errNetconf11Framing
	}
	b, e := r.ReadByte()
	if e != nil {
		return nil, false, e
	}
	if b == '#' {
		// terminator: "\n##\n"
		if nl, e := r.ReadByte(); e != nil || nl != '\n' {
			if e != nil {
				return nil, false, e
			}
			return nil, false, errNetconf11Framing
		}
		return nil, true, nil
	}
	n := 0
	sawDigit := false
	for {
		if b < '0' || b > '9' {
			break
		}
		n = n*10 + int(b-'0')
		sawDigit = true
		b, e = r.ReadByte()
		if e != nil {
			return nil, false, e
		}
	}
	if !sawDigit || b != '\n' {
		return nil, false, errNetconf11Framing
	}
	buf := make([]byte, n)
	if err := r.ReadFull(buf); err != nil {
		return nil, false, err
	}
	return buf, false, nil
}
