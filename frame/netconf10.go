package frame

import (
	"bytes"
	"errors"
	"io"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/transport"
)

// NETCONF10 implements the NETCONF 1.0 framing terminator "]]>]]>".
var NETCONF10 = Codec{Egress: NETCONF10Egress, Ingress: NETCONF10Ingress}

var netconf10Terminator = []byte("]]>]]>")

func NETCONF10Egress(ch *channel.Channel, t transport.Transport) error {
	defer channel.Shut(ch)
	for {
		b, st := channel.Get[blob.Blob](0, ch)
		if st != channel.StatusGet {
			return nil
		}
		if err := writeAll(t, b.Bytes); err != nil {
			return err
		}
		if err := writeAll(t, netconf10Terminator); err != nil {
			return err
		}
	}
}

func NETCONF10Ingress(ch *channel.Channel, t transport.Transport, maxFrame int) error {
	defer channel.Shut(ch)
	r := newReader(t, 4096)
	var acc bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && acc.Len() == 0 {
				return nil
			}
			return err
		}
		acc.WriteByte(b)
		if maxFrame > 0 && acc.Len() > maxFrame+len(netconf10Terminator) {
			return errors.New("frame: netconf10: message exceeds max frame size")
		}
		buf := acc.Bytes()
		if len(buf) >= len(netconf10Terminator) && bytes.Equal(buf[len(buf)-len(netconf10Terminator):], netconf10Terminator) {
			payload := make([]byte, len(buf)-len(netconf10Terminator))
			copy(payload, buf[:len(buf)-len(netconf10Terminator)])
			acc.Reset()
			if err := putBlob(ch, blob.Blob{Bytes: payload}); err != nil {
				if errors.Is(err, ErrClosed) {
					return nil
				}
				return err
			}
		}
	}
}
