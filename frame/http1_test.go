package frame

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/transport"
)

func TestHTTP1IngressContentLength(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ch := channel.Create(nil, nil)
	channel.Open(ch)
	done := make(chan error, 1)
	go func() { done <- HTTP1Ingress(ch, transport.Stream(b), 0) }()

	req := "POST / HTTP/1.1\r\nHost: x\r\nContent-Length: 5\r\n\r\nhello"
	go func() { a.Write([]byte(req)) }()

	v, st := channel.Get[blob.Blob](0, ch)
	require.Equal(t, channel.StatusGet, st)
	require.Contains(t, string(v.Bytes), "hello")

	a.Close()
	channel.Shut(ch)
	channel.Close(ch)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ingress never exited")
	}
}

func TestHTTP1IngressChunked(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ch := channel.Create(nil, nil)
	channel.Open(ch)
	done := make(chan error, 1)
	go func() { done <- HTTP1Ingress(ch, transport.Stream(b), 0) }()

	req := "GET / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n"
	go func() { a.Write([]byte(req)) }()

	v, st := channel.Get[blob.Blob](0, ch)
	require.Equal(t, channel.StatusGet, st)
	require.Contains(t, string(v.Bytes), "hello")

	a.Close()
	channel.Shut(ch)
	channel.Close(ch)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ingress never exited")
	}
}
