package frame

import (
	"errors"
	"io"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/transport"
)

// FastCGI implements the FastCGI record framing (FastCGI spec §3.3): an
// 8-byte header (version, type, request ID, content length, padding
// length, reserved byte) followed by up to 65535 bytes of content and a
// matching run of padding bytes. Egress splits a blob longer than 65535
// bytes across several records, and ingress puts each record's content as
// its own blob, so only blobs up to that size round-trip as one blob;
// version, type, request ID and padding are fixed/derived rather
// than carried in the blob, since this codec's job is framing, not
// interpreting FastCGI's record types.
var FastCGI = Codec{Egress: FastCGIEgress, Ingress: FastCGIIngress}

const (
	fcgiVersion1  = 1
	fcgiMaxContent = 0xffff
	fcgiTypeStdin  = 5 // FCGI_STDIN, an arbitrary but valid application record type
	fcgiAlign      = 8
)

var errFastCGIFraming = errors.New("frame: fastcgi: malformed record header")

func FastCGIEgress(ch *channel.Channel, t transport.Transport) error {
	defer channel.Shut(ch)
	for {
		b, st := channel.Get[blob.Blob](0, ch)
		if st != channel.StatusGet {
			return nil
		}
		data := b.Bytes
		first := true
		for first || len(data) > 0 {
			first = false
			n := len(data)
			if n > fcgiMaxContent {
				n = fcgiMaxContent
			}
			chunk := data[:n]
			data = data[n:]
			pad := (fcgiAlign - (n % fcgiAlign)) % fcgiAlign
			hdr := [8]byte{
				0: fcgiVersion1,
				1: fcgiTypeStdin,
				2: 0, 3: 1, // request ID 1, big-endian
				4: byte(n >> 8), 5: byte(n),
				6: byte(pad),
				7: 0,
			}
			if err := writeAll(t, hdr[:]); err != nil {
				return err
			}
			if err := writeAll(t, chunk); err != nil {
				return err
			}
			if pad > 0 {
				if err := writeAll(t, make([]byte, pad)); err != nil {
					return err
				}
			}
		}
	}
}

func FastCGIIngress(ch *channel.Channel, t transport.Transport, maxFrame int) error {
	defer channel.Shut(ch)
	r := newReader(t, 4096)
	for {
		var hdr [8]byte
		if err := r.ReadFull(hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if hdr[0] != fcgiVersion1 {
			return errFastCGIFraming
		}
		contentLen := int(hdr[4])<<8 | int(hdr[5])
		padLen := int(hdr[6])
		if maxFrame > 0 && contentLen > maxFrame {
			return errors.New("frame: fastcgi: content length exceeds max frame size")
		}
		content := make([]byte, contentLen)
		if err := r.ReadFull(content); err != nil {
			return err
		}
		if padLen > 0 {
			pad := make([]byte, padLen)
			if err := r.ReadFull(pad); err != nil {
				return err
			}
		}
		if err := putBlob(ch, blob.Blob{Bytes: content}); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
	}
}
