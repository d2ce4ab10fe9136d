package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStreamRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ta := Stream(a)
	tb := Stream(b)

	done := make(chan struct{})
	go func() {
		defer close(done)
		n, err := ta.Output([]byte("ping"))
		require.NoError(t, err)
		require.Equal(t, 4, n)
	}()

	buf := make([]byte, 4)
	n, err := tb.Input(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "ping", string(buf[:n]))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("write side never completed")
	}
}

func TestStreamCloseUnblocksInput(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	ta := Stream(a)

	done := make(chan error, 1)
	go func() {
		_, err := ta.Input(make([]byte, 1))
		done <- err
	}()

	require.NoError(t, ta.Close())

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("close never unblocked Input")
	}
}
