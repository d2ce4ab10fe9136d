package transport

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func udpPacketConn(t *testing.T) net.PacketConn {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { pc.Close() })
	return pc
}

func TestDatagramBoundPeerRoundTrip(t *testing.T) {
	a := udpPacketConn(t)
	b := udpPacketConn(t)

	ta := Datagram(a, b.LocalAddr())
	tb := Datagram(b, a.LocalAddr())

	n, err := ta.Output([]byte("hi"))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	buf := make([]byte, 64)
	n, err = tb.Input(buf)
	require.NoError(t, err)
	require.Equal(t, "hi", string(buf[:n]))
}

func TestDatagramMultiplexedRoundTrip(t *testing.T) {
	a := udpPacketConn(t)
	b := udpPacketConn(t)

	ta := Datagram(a, nil) // multiplexed
	tb := Datagram(b, a.LocalAddr())

	n, err := tb.Output([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	buf := make([]byte, 128)
	n, err = ta.Input(buf)
	require.NoError(t, err)

	alen := int(binary.BigEndian.Uint16(buf))
	addr := string(buf[2 : 2+alen])
	payload := buf[2+alen : n]
	require.Equal(t, b.LocalAddr().String(), addr)
	require.Equal(t, "hello", string(payload))

	// echo back to the prefixed address
	n, err = ta.Output(buf[:n])
	require.NoError(t, err)
	require.Greater(t, n, 0)

	b.SetReadDeadline(time.Now().Add(time.Second))
	echoBuf := make([]byte, 64)
	n, err = tb.Input(echoBuf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(echoBuf[:n]))
}
