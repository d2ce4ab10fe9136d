package transport

import (
	"io"
	"net"
)

// streamTransport wraps an io.ReadWriteCloser (typically a net.Conn) as a
// Transport, the Go analogue of original_source's chanBlbTrnFdStream.c
// file-descriptor adapter.
type streamTransport struct {
	rwc io.ReadWriteCloser
}

// Stream wraps any io.ReadWriteCloser (net.Conn, os.File, ...) as a
// Transport.
func Stream(rwc io.ReadWriteCloser) Transport {
	return &streamTransport{rwc: rwc}
}

func (s *streamTransport) Input(buf []byte) (int, error) {
	n, err := s.rwc.Read(buf)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

func (s *streamTransport) Output(buf []byte) (int, error) {
	return s.rwc.Write(buf)
}

func (s *streamTransport) Close() error {
	return s.rwc.Close()
}

// DialStream is a convenience wrapper: dial network/address and wrap the
// resulting net.Conn as a Transport.
func DialStream(network, address string) (Transport, error) {
	conn, err := net.Dial(network, address)
	if err != nil {
		return nil, err
	}
	return Stream(conn), nil
}
