package transport

import (
	"encoding/binary"
	"errors"
	"net"
)

// datagramTransport wraps a net.PacketConn, the Go analogue of
// original_source's chanBlbTrnFdDatagram.c: since a packet transport has no
// fixed peer, each datagram read from Input is prefixed with a
// length-prefixed encoding of the sender's address, and Output expects (or
// falls back to a configured default) the same prefix to pick a
// destination.
type datagramTransport struct {
	pc      net.PacketConn
	dialed  net.Addr // if set, every Output writes buf here verbatim, with no prefix parsed
	readBuf []byte
}

// Datagram wraps pc as a Transport. If peer is non-nil, the transport is
// bound to that single remote address: Output writes raw bytes (no address
// prefix required) directly to peer, and Input prefixes nothing. If peer
// is nil, the transport is address-multiplexed: Input prepends a 2-byte
// big-endian length followed by the sender address string, and Output
// expects that same prefix to route each datagram.
func Datagram(pc net.PacketConn, peer net.Addr) Transport {
	return &datagramTransport{pc: pc, dialed: peer, readBuf: make([]byte, 65536)}
}

func (d *datagramTransport) Input(buf []byte) (int, error) {
	n, addr, err := d.pc.ReadFrom(d.readBuf)
	if err != nil {
		return 0, err
	}
	if d.dialed != nil {
		copied := copy(buf, d.readBuf[:n])
		return copied, nil
	}
	addrBytes := []byte(addr.String())
	if len(addrBytes) > 0xffff {
		return 0, errors.New("transport: datagram: address too long to prefix")
	}
	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], uint16(len(addrBytes)))
	total := len(hdr) + len(addrBytes) + n
	if total > len(buf) {
		return 0, errors.New("transport: datagram: caller buffer too small for prefixed frame")
	}
	copy(buf, hdr[:])
	copy(buf[len(hdr):], addrBytes)
	copy(buf[len(hdr)+len(addrBytes):], d.readBuf[:n])
	return total, nil
}

func (d *datagramTransport) Output(buf []byte) (int, error) {
	if d.dialed != nil {
		return d.pc.WriteTo(buf, d.dialed)
	}
	if len(buf) < 2 {
		return 0, errors.New("transport: datagram: short write missing address prefix")
	}
	alen := int(binary.BigEndian.Uint16(buf))
	if len(buf) < 2+alen {
		return 0, errors.New("transport: datagram: truncated address prefix")
	}
	addr, err := net.ResolveUDPAddr("udp", string(buf[2:2+alen]))
	if err != nil {
		return 0, err
	}
	payload := buf[2+alen:]
	n, err := d.pc.WriteTo(payload, addr)
	if err != nil {
		return 0, err
	}
	return 2 + alen + n, nil
}

func (d *datagramTransport) Close() error {
	return d.pc.Close()
}
