package supervisor

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gdavidbutler/gochan/blob"
	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/frame"
	"github.com/gdavidbutler/gochan/transport"
)

func TestSpawnEgressIngressRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	egr := channel.Create(nil, nil)
	ingr := channel.Create(nil, nil)

	egrSup := Spawn(Config{Codec: frame.Raw, Egress: egr, Transport: transport.Stream(a)})
	ingrSup := Spawn(Config{Codec: frame.Raw, Ingress: ingr, Transport: transport.Stream(b)})

	require.Equal(t, channel.StatusPut, channel.Put(0, egr, blob.Blob{Bytes: []byte("hi")}))

	v, st := channel.Get[blob.Blob](0, ingr)
	require.Equal(t, channel.StatusGet, st)
	require.Equal(t, "hi", string(v.Bytes))

	channel.Shut(egr)
	channel.Shut(ingr)

	waitOrFail(t, egrSup)
	waitOrFail(t, ingrSup)
}

func TestSpawnEscalatesAfterConfiguredTimeout(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	ingr := channel.Create(nil, nil)

	closed := make(chan struct{})
	ct := &closeTrackingTransport{Transport: transport.Stream(a), closed: closed}

	sup := Spawn(Config{
		Codec:         frame.Raw,
		Ingress:       ingr,
		Transport:     ct,
		EscalateAfter: 20 * time.Millisecond,
	})

	channel.Shut(ingr)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("escalation never force-closed the transport")
	}
	waitOrFail(t, sup)
}

func waitOrFail(t *testing.T, s *Supervisor) {
	t.Helper()
	done := make(chan struct{})
	go func() { s.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor never finished tearing down")
	}
}

// closeTrackingTransport wraps a transport.Transport and signals closed
// the first time Close is called, letting the escalation test observe
// force-close without needing Input to actually block forever in a way
// that would make the test itself hang.
type closeTrackingTransport struct {
	transport.Transport
	closed chan struct{}
	once   bool
}

func (c *closeTrackingTransport) Close() error {
	if !c.once {
		c.once = true
		close(c.closed)
	}
	return c.Transport.Close()
}
