package frame

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/transport"
)

// NetString implements djb's netstring format: "<len>:<data>,", grounded
// on original_source's Blb/chanBlbNetstring.c.
var NetString = Codec{Egress: NetStringEgress, Ingress: NetStringIngress}

var errNetStringFraming = errors.New("frame: netstring: malformed length or missing trailing comma")

func NetStringEgress(ch *channel.Channel, t transport.Transport) error {
	defer channel.Shut(ch)
	for {
		b, st := channel.Get[blob.Blob](0, ch)
		if st != channel.StatusGet {
			return nil
		}
		head := []byte(strconv.Itoa(len(b.Bytes)) + ":")
		if err := writeAll(t, head); err != nil {
			return err
		}
		if err := writeAll(t, b.Bytes); err != nil {
			return err
		}
		if err := writeAll(t, []byte(",")); err != nil {
			return err
		}
	}
}

// NetStringIngress reads one netstring per iteration. maxFrame, if
// positive, rejects any declared length exceeding it (matching the
// original's v->arg optional cap).
func NetStringIngress(ch *channel.Channel, t transport.Transport, maxFrame int) error {
	defer channel.Shut(ch)
	r := newReader(t, 4096)
	for {
		n, err := readDecimalLength(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if maxFrame > 0 && n > maxFrame {
			return fmt.Errorf("frame: netstring: length %d exceeds max %d", n, maxFrame)
		}
		data := make([]byte, n)
		if err := r.ReadFull(data); err != nil {
			return err
		}
		comma, err := r.ReadByte()
		if err != nil {
			return err
		}
		if comma != ',' {
			return errNetStringFraming
		}
		if err := putBlob(ch, blob.Blob{Bytes: data}); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// readDecimalLength reads ASCII decimal digits up to the first non-digit,
// which must be ':'.
func readDecimalLength(r *reader) (int, error) {
	n := 0
	sawDigit := false
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b >= '0' && b <= '9' {
			n = n*10 + int(b-'0')
			sawDigit = true
			continue
		}
		if b == ':' && sawDigit {
			return n, nil
		}
		return 0, errNetStringFraming
	}
}
