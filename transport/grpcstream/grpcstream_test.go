package grpcstream

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
)

// fakeStream simulates a client that sends nothing and then disconnects,
// without ever driving a SendMsg -- recvLoop returns on io.EOF while
// sendLoop stays parked in channel.Get(0, out) with nothing left to Put.
type fakeStream struct {
	recvCalls int
}

func (f *fakeStream) RecvMsg(any) error {
	f.recvCalls++
	return io.EOF
}

func (f *fakeStream) SendMsg(any) error {
	<-make(chan struct{}) // never called once recvLoop hits EOF first
	return nil
}

func TestBridgeReturnsOnDisconnectWithoutLeakingSendLoop(t *testing.T) {
	in := channel.Create(nil, nil)
	out := channel.Create(nil, nil)

	done := make(chan error, 1)
	go func() { done <- Bridge(&fakeStream{}, in, out) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Bridge never returned after the stream hit EOF")
	}

	// sendLoop was parked in channel.Get(0, out); Bridge's fix Shuts out
	// as soon as recvLoop finishes, so this returns promptly instead of
	// hanging forever the way the pre-fix double-wait would have.
	getDone := make(chan channel.OpStatus, 1)
	go func() {
		_, st := channel.Get[blob.Blob](0, out)
		getDone <- st
	}()

	select {
	case st := <-getDone:
		require.Equal(t, channel.StatusSht, st)
	case <-time.After(time.Second):
		t.Fatal("out was never shut: sendLoop's goroutine would have leaked")
	}

	channel.Close(in)
	channel.Close(out)
}

func TestBridgePutsReceivedMessageOntoIn(t *testing.T) {
	in := channel.Create(nil, nil)
	out := channel.Create(nil, nil)

	msgs := [][]byte{[]byte("hello")}
	s := &scriptedStream{msgs: msgs}

	bridgeDone := make(chan error, 1)
	go func() { bridgeDone <- Bridge(s, in, out) }()

	v, st := channel.Get[blob.Blob](0, in)
	require.Equal(t, channel.StatusGet, st)
	require.Equal(t, []byte("hello"), v.Bytes)

	channel.Shut(in)
	channel.Shut(out)

	select {
	case err := <-bridgeDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Bridge never returned after both channels were shut")
	}

	channel.Close(in)
	channel.Close(out)
}

// scriptedStream replays a fixed list of payloads to RecvMsg, then reports
// io.EOF as a real client would after closing its send direction, leaving
// SendMsg unused by this test.
type scriptedStream struct {
	msgs [][]byte
	i    int
}

func (s *scriptedStream) RecvMsg(m any) error {
	if s.i >= len(s.msgs) {
		return io.EOF
	}
	bv := m.(*wrapperspb.BytesValue)
	bv.Value = s.msgs[s.i]
	s.i++
	return nil
}

func (s *scriptedStream) SendMsg(any) error {
	<-make(chan struct{})
	return nil
}
