package frame

import (
	"errors"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/transport"
)

// Raw is the default, unframed codec: egress writes a blob's bytes
// directly; ingress reads up to maxFrame bytes (default 65536) per
// transport read and publishes each chunk as its own blob, with no
// message boundary beyond what the transport happens to deliver in one
// read.
var Raw = Codec{Egress: RawEgress, Ingress: RawIngress}

func RawEgress(ch *channel.Channel, t transport.Transport) error {
	defer channel.Shut(ch)
	for {
		b, st := channel.Get[blob.Blob](0, ch)
		if st != channel.StatusGet {
			return nil
		}
		if err := writeAll(t, b.Bytes); err != nil {
			return err
		}
	}
}

func RawIngress(ch *channel.Channel, t transport.Transport, maxFrame int) error {
	defer channel.Shut(ch)
	if maxFrame <= 0 {
		maxFrame = 65536
	}
	buf := make([]byte, maxFrame)
	for {
		n, err := t.Input(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := putBlob(ch, blob.Blob{Bytes: append([]byte(nil), buf[:n]...)}); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
	}
}
