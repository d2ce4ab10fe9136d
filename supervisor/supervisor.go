// Package supervisor wires a frame.Codec's egress and ingress functions to
// a pair of channel.Channel values and a transport.Transport, the Go
// rendering of original_source's chanBlb()/monT(): spawn the framer
// goroutines, watch both channels for Shut, and tear down cleanly -- with
// a bounded escalation to forcing the transport closed if a framer is
// still stuck in blocking I/O well after shutdown was requested.
package supervisor

import (
	"time"

	"github.com/gdavidbutler/gochan/channel"
	"github.com/gdavidbutler/gochan/frame"
	"github.com/gdavidbutler/gochan/transport"
)

// Config describes one supervised egress/ingress pair. Egress and/or
// Ingress may be nil (matching the original's "only e" / "only i" /
// "both" variants); at least one must be set.
type Config struct {
	Codec     frame.Codec
	Egress    *channel.Channel // if set, Codec.Egress drains this channel to Transport
	Ingress   *channel.Channel // if set, Codec.Ingress feeds this channel from Transport
	Transport transport.Transport
	MaxFrame  int // forwarded to Codec.Ingress

	// FinalClose, if set, runs once both framers have exited (or been
	// force-cancelled), after Transport.Close.
	FinalClose func()

	// EscalateAfter bounds how long the monitor waits, after observing
	// both channels shut, for the framer goroutines to exit on their own
	// before it force-closes Transport to unblock them. Defaults to 30
	// minutes (original_source's monT: 1800 one-second polls).
	EscalateAfter time.Duration

	Logger channel.Logger
}

// Supervisor tracks one running Config's goroutines.
type Supervisor struct {
	cfg     Config
	egrDone chan struct{}
	ingDone chan struct{}
	monDone chan struct{}
}

// Spawn starts the configured framer goroutines and a monitor goroutine,
// returning immediately. The monitor goroutine tears everything down once
// both channels are shut (or, for whichever side is absent, immediately).
func Spawn(cfg Config) *Supervisor {
	if cfg.Logger == nil {
		cfg.Logger = channel.NopLogger{}
	}
	if cfg.EscalateAfter <= 0 {
		cfg.EscalateAfter = 30 * time.Minute
	}
	s := &Supervisor{cfg: cfg, egrDone: make(chan struct{}), ingDone: make(chan struct{}), monDone: make(chan struct{})}

	if cfg.Egress != nil {
		channel.Open(cfg.Egress)
		go func() {
			defer close(s.egrDone)
			if err := cfg.Codec.Egress(cfg.Egress, cfg.Transport); err != nil {
				cfg.Logger.Log(channel.LevelWarn, "egress framer exited", "err", err)
			}
			channel.Close(cfg.Egress)
		}()
	} else {
		close(s.egrDone)
	}

	if cfg.Ingress != nil {
		channel.Open(cfg.Ingress)
		go func() {
			defer close(s.ingDone)
			if err := cfg.Codec.Ingress(cfg.Ingress, cfg.Transport, cfg.MaxFrame); err != nil {
				cfg.Logger.Log(channel.LevelWarn, "ingress framer exited", "err", err)
			}
			channel.Close(cfg.Ingress)
		}()
	} else {
		close(s.ingDone)
	}

	go s.monitor()
	return s
}

// Wait blocks until the monitor goroutine has finished tearing down.
func (s *Supervisor) Wait() {
	<-s.monDone
}

func (s *Supervisor) monitor() {
	defer close(s.monDone)
	s.waitBothShut()

	timer := time.NewTimer(s.cfg.EscalateAfter)
	defer timer.Stop()
	select {
	case <-allDone(s.egrDone, s.ingDone):
	case <-timer.C:
		s.cfg.Logger.Log(channel.LevelError, "framer escalation: forcing transport closed")
		if s.cfg.Transport != nil {
			s.cfg.Transport.Close()
		}
		<-allDone(s.egrDone, s.ingDone)
	}

	if s.cfg.Transport != nil {
		s.cfg.Transport.Close()
	}
	if s.cfg.FinalClose != nil {
		s.cfg.FinalClose()
	}
}

// waitBothShut blocks until every configured channel has been observed
// Shut, using a select-one over Sht-kind monitor entries -- the Go
// rendering of monT's chanOne(0, 2, p) loop.
func (s *Supervisor) waitBothShut() {
	entries := make([]channel.Entry, 0, 2)
	remaining := map[*channel.Channel]bool{}
	if s.cfg.Egress != nil {
		entries = append(entries, channel.Entry{Ch: s.cfg.Egress, Kind: channel.Sht})
		remaining[s.cfg.Egress] = true
	}
	if s.cfg.Ingress != nil {
		entries = append(entries, channel.Entry{Ch: s.cfg.Ingress, Kind: channel.Sht})
		remaining[s.cfg.Ingress] = true
	}
	for len(remaining) > 0 {
		live := make([]channel.Entry, 0, len(entries))
		for _, e := range entries {
			if remaining[e.Ch] {
				live = append(live, e)
			}
		}
		idx := channel.SelectOne(0, live)
		if idx < 0 {
			return
		}
		delete(remaining, live[idx].Ch)
	}
}

func allDone(chans ...chan struct{}) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		for _, c := range chans {
			<-c
		}
		close(out)
	}()
	return out
}
