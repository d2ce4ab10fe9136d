package frame

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/transport"
)

// HTTP1 implements an HTTP/1.1 message-boundary codec. Egress writes a
// blob's bytes verbatim (the caller is responsible for producing a
// complete, well-formed message, headers included). Ingress parses the
// request line and headers byte-at-a-time looking for Content-Length and
// a chunked Transfer-Encoding, then consumes the body accordingly; each
// complete request (header block plus body) becomes one blob.
var HTTP1 = Codec{Egress: HTTP1Egress, Ingress: HTTP1Ingress}

var errHTTP1Framing = errors.New("frame: http1: malformed request")

func HTTP1Egress(ch *channel.Channel, t transport.Transport) error {
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

func HTTP1Ingress(ch *channel.Channel, t transport.Transport, maxFrame int) error {
	defer channel.Shut(ch)
	r := newReader(t, 4096)
	for {
		header, contentLength, chunked, err := readHTTP1Header(r, maxFrame)
		if err != nil {
			if errors.Is(err, io.EOF) && header == nil {
				return nil
			}
			return err
		}
		var body []byte
		switch {
		case chunked:
			body, err = readHTTP1ChunkedBody(r, maxFrame)
		case contentLength > 0:
			if maxFrame > 0 && contentLength > maxFrame {
				err = errors.New("frame: http1: content-length exceeds max frame size")
				break
			}
			body = make([]byte, contentLength)
			err = r.ReadFull(body)
		}
		if err != nil {
			return err
		}
		msg := append(header, body...)
		if err := putBlob(ch, blob.Blob{Bytes: msg}); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// readHTTP1Header reads the request line and headers up through the blank
// line terminating them, byte-at-a-time, reporting Content-Length (0 if
// absent) and whether Transfer-Encoding: chunked was present.
func readHTTP1Header(r *reader, maxFrame int) (header []byte, contentLength int, chunked bool, err error) {
	var acc bytes.Buffer
	var line bytes.Buffer
	first := true
	for {
		b, e := r.ReadByte()
		if e != nil {
			if errors.Is(e, io.EOF) && acc.Len() == 0 {
				return nil, 0, false, io.EOF
			}
			return nil, 0, false, e
		}
		acc.WriteByte(b)
		if maxFrame > 0 && acc.Len() > maxFrame {
			return nil, 0, false, errors.New("frame: http1: header exceeds max frame size")
		}
		if b == '\n' {
			text := strings.TrimRight(line.String(), "\r\n")
			line.Reset()
			if first {
				first = false
				if text == "" {
					return nil, 0, false, errHTTP1Framing
				}
				continue
			}
			if text == "" {
				return acc.Bytes(), contentLength, chunked, nil
			}
			if name, value, ok := strings.Cut(text, ":"); ok {
				switch strings.ToLower(strings.TrimSpace(name)) {
				case "content-length":
					if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
						contentLength = n
					}
				case "transfer-encoding":
					if strings.Contains(strings.ToLower(value), "chunked") {
						chunked = true
					}
				}
			}
			continue
		}
		if !isHTTP1HeaderByte(b) {
			return nil, 0, false, errHTTP1Framing
		}
		line.WriteByte(b)
	}
}

// isHTTP1HeaderByte rejects control characters outside TAB/CR/LF, per
// spec.md's "control characters outside the allowed set abort" rule.
func isHTTP1HeaderByte(b byte) bool {
	if b == '\t' || b == '\r' {
		return true
	}
	return b >= 0x20 && b != 0x7f
}

// readHTTP1ChunkedBody consumes "hex-size CRLF data CRLF" chunks until a
// zero-size chunk, followed by optional trailers and a final blank line,
// returning the concatenated chunk data (chunk framing itself is stripped;
// trailers are discarded).
func readHTTP1ChunkedBody(r *reader, maxFrame int) ([]byte, error) {
	var body bytes.Buffer
	for {
		sizeLine, err := readHTTP1Line(r)
		if err != nil {
			return nil, err
		}
		sizeText, _, _ := strings.Cut(sizeLine, ";") // chunk extensions ignored
		size, err := strconv.ParseInt(strings.TrimSpace(sizeText), 16, 64)
		if err != nil {
			return nil, errHTTP1Framing
		}
		if size == 0 {
			for {
				trailer, err := readHTTP1Line(r)
				if err != nil {
					return nil, err
				}
				if trailer == "" {
					return body.Bytes(), nil
				}
			}
		}
		if maxFrame > 0 && body.Len()+int(size) > maxFrame {
			return nil, errors.New("frame: http1: chunked body exceeds max frame size")
		}
		chunk := make([]byte, size)
		if err := r.ReadFull(chunk); err != nil {
			return nil, err
		}
		body.Write(chunk)
		var crlf [2]byte
		if err := r.ReadFull(crlf[:]); err != nil {
			return nil, err
		}
	}
}

func readHTTP1Line(r *reader) (string, error) {
	var line bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			return strings.TrimRight(line.String(), "\r"), nil
		}
		line.WriteByte(b)
	}
}
