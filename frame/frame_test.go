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

// roundTrip writes msgs through codec's Egress over one end of a pipe and
// reads them back through Ingress on the other end, returning what Ingress
// observed.
func roundTrip(t *testing.T, codec Codec, msgs [][]byte) []blob.Blob {
	t.Helper()
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	egressCh := channel.Create(nil, nil)
	channel.Open(egressCh)
	ingressCh := channel.Create(nil, nil)
	channel.Open(ingressCh)

	egressDone := make(chan error, 1)
	go func() { egressDone <- codec.Egress(egressCh, transport.Stream(a)) }()

	ingressDone := make(chan error, 1)
	go func() { ingressDone <- codec.Ingress(ingressCh, transport.Stream(b), 0) }()

	for _, m := range msgs {
		require.Equal(t, channel.StatusPut, channel.Put(0, egressCh, blob.Blob{Bytes: m}))
	}

	var got []blob.Blob
	for range msgs {
		v, st := channel.Get[blob.Blob](0, ingressCh)
		require.Equal(t, channel.StatusGet, st)
		got = append(got, v)
	}

	channel.Shut(egressCh)
	channel.Close(egressCh)

	select {
	case <-egressDone:
	case <-time.After(time.Second):
		t.Fatal("egress never exited")
	}

	a.Close()
	channel.Shut(ingressCh)
	channel.Close(ingressCh)
	select {
	case <-ingressDone:
	case <-time.After(time.Second):
		t.Fatal("ingress never exited")
	}

	return got
}

func TestCodecRoundTrips(t *testing.T) {
	msgs := [][]byte{
		[]byte("hello"),
		[]byte(""),
		[]byte("a slightly longer message to exercise multi-byte lengths"),
	}

	for _, tc := range []struct {
		name  string
		codec Codec
	}{
		{"NetString", NetString},
		{"NETCONF10", NETCONF10},
		{"NETCONF11", NETCONF11},
		{"VLQ", VLQ},
		{"FastCGI", FastCGI},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, tc.codec, msgs)
			require.Len(t, got, len(msgs))
			for i, m := range msgs {
				require.Equal(t, m, got[i].Bytes)
			}
		})
	}
}

func TestRawIngressEmitsWhateverArrivesPerRead(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ingressCh := channel.Create(nil, nil)
	channel.Open(ingressCh)
	done := make(chan error, 1)
	go func() { done <- RawIngress(ingressCh, transport.Stream(b), 0) }()

	go func() { a.Write([]byte("chunk")) }()

	v, st := channel.Get[blob.Blob](0, ingressCh)
	require.Equal(t, channel.StatusGet, st)
	require.Equal(t, "chunk", string(v.Bytes))

	a.Close()
	channel.Shut(ingressCh)
	channel.Close(ingressCh)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ingress never exited")
	}
}
