package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/transport"
)

// VLQ implements a length-prefixed frame using a little-endian base-128
// variable-length quantity for the length: each byte's low 7 bits
// contribute, the high bit set means another byte follows.
var VLQ = Codec{Egress: VLQEgress, Ingress: VLQIngress}

func VLQEgress(ch *channel.Channel, t transport.Transport) error {
	defer channel.Shut(ch)
	for {
		b, st := channel.Get[blob.Blob](0, ch)
		if st != channel.StatusGet {
			return nil
		}
		if err := writeAll(t, encodeVLQ(len(b.Bytes))); err != nil {
			return err
		}
		if err := writeAll(t, b.Bytes); err != nil {
			return err
		}
	}
}

func VLQIngress(ch *channel.Channel, t transport.Transport, maxFrame int) error {
	defer channel.Shut(ch)
	r := newReader(t, 4096)
	for {
		n, err := decodeVLQ(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if maxFrame > 0 && n > maxFrame {
			return fmt.Errorf("frame: vlq: length %d exceeds max %d", n, maxFrame)
		}
		data := make([]byte, n)
		if err := r.ReadFull(data); err != nil {
			return err
		}
		if err := putBlob(ch, blob.Blob{Bytes: data}); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func encodeVLQ(n int) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if n == 0 {
			return out
		}
	}
}

func decodeVLQ(r *reader) (int, error) {
	n := 0
	shift := uint(0)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		n |= int(b&0x7f) << shift
		if b&0x80 == 0 {
			return n, nil
		}
		shift += 7
		if shift > 63 {
			return 0, errors.New("frame: vlq: length prefix too long")
		}
	}
}
