package buntstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gdavidbutler/gochan/channel"
)

func TestPersistentPutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chan.db")
	ch := channel.Create(nil, Open(path, 0, nil))

	require.Equal(t, channel.StatusPut, channel.Put(0, ch, []byte("a")))
	require.Equal(t, channel.StatusPut, channel.Put(0, ch, []byte("b")))

	v, st := channel.Get[[]byte](0, ch)
	require.Equal(t, channel.StatusGet, st)
	require.Equal(t, []byte("a"), v)

	v, st = channel.Get[[]byte](0, ch)
	require.Equal(t, channel.StatusGet, st)
	require.Equal(t, []byte("b"), v)

	channel.Shut(ch)
	channel.Close(ch)
}

func TestAppendExternalWakesBlockedGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chan.db")
	ch := channel.Create(nil, Open(path, 0, nil, WithPollInterval(5*time.Millisecond)))

	done := make(chan struct{})
	var got []byte
	var st channel.OpStatus
	go func() {
		got, st = channel.Get[[]byte](0, ch)
		close(done)
	}()

	// Give the blocking Get a moment to enroll before the row lands
	// entirely outside of Step, the way a second process writing directly
	// into the same database file would.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, AppendExternal(path, nil, []byte("external")))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocked Get was never woken by AppendExternal")
	}
	require.Equal(t, channel.StatusGet, st)
	require.Equal(t, []byte("external"), got)

	channel.Shut(ch)
	channel.Close(ch)
}
