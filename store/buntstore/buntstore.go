// Package buntstore is an external, persistent channel.Store backed by
// github.com/tidwall/buntdb, the Go-native analogue of original_source's
// example/chanStrSql.c and example/chanStrBlbSQL.c (a SQLite-backed FIFO
// store): items survive process restarts, and a FIFO ordering is kept with
// a monotonically increasing key rather than in-process queue positions.
package buntstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/gdavidbutler/gochan/channel"
)

// Codec converts values to and from the bytes buntdb persists. Callers
// whose values are already []byte or string can use BytesCodec.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte) (any, error)
}

// BytesCodec stores []byte values verbatim (round-tripping through a copy,
// since buntdb's Get result is only valid until the transaction ends).
type BytesCodec struct{}

func (BytesCodec) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("buntstore: BytesCodec: value is %T, not []byte", v)
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (BytesCodec) Decode(b []byte) (any, error) {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

const keyPrefix = "chan:item:"

// defaultPollInterval bounds how long an external writer's row can sit
// unnoticed before wake flips the waiting reader's CanGet bit.
const defaultPollInterval = 50 * time.Millisecond

// Option configures a store at allocation time.
type Option interface {
	apply(*store)
}

type optionFunc func(*store)

func (f optionFunc) apply(s *store) { f(s) }

// WithPollInterval overrides how often the store checks for rows written
// by AppendExternal (or by another process sharing the same database file)
// outside of any Step call. Defaults to 50ms.
func WithPollInterval(d time.Duration) Option {
	return optionFunc(func(s *store) {
		if d > 0 {
			s.pollInterval = d
		}
	})
}

// store is a channel.Store whose backing ring lives in a buntdb database:
// head/tail sequence numbers are persisted alongside the items so a FIFO
// ordering survives a restart.
type store struct {
	mu         sync.Mutex
	db         *buntdb.DB
	codec      Codec
	head, tail uint64
	capacity   int // 0 means unbounded
	dequeue    channel.Dequeue

	wake         channel.WakeFunc
	pollInterval time.Duration
	lastStatus   channel.StoreStatus
	stop         chan struct{}
}

// Open allocates a channel.Allocator backed by the buntdb database at path
// (":memory:" for a non-persistent in-process instance). capacity <= 0
// means unbounded. If codec is nil, BytesCodec is used.
//
// Open's store polls the database on its own, independent of Step, and
// calls wake whenever it notices a status change that didn't come from one
// of its own Step calls -- rows appended via AppendExternal from another
// goroutine (or another process sharing the same database file), matching
// spec.md §4.1's external-store contract: "uses wake to notify the engine
// when a background condition ... changes status."
func Open(path string, capacity int, codec Codec, opts ...Option) channel.Allocator {
	if codec == nil {
		codec = BytesCodec{}
	}
	return func(dequeue channel.Dequeue, wake channel.WakeFunc) (channel.Store, channel.StoreStatus) {
		db, err := buntdb.Open(path)
		if err != nil {
			return nil, 0
		}
		s := &store{
			db:           db,
			codec:        codec,
			capacity:     capacity,
			dequeue:      dequeue,
			wake:         wake,
			pollInterval: defaultPollInterval,
			stop:         make(chan struct{}),
		}
		for _, o := range opts {
			if o != nil {
				o.apply(s)
			}
		}
		if err := s.loadCursors(); err != nil {
			db.Close()
			return nil, 0
		}
		s.lastStatus = s.status()
		if s.wake != nil {
			go s.watch()
		}
		return s, s.lastStatus
	}
}

// watch polls for rows that arrived without going through Step -- buntdb
// has no change-notification hook, so this is the "at minimum" fallback
// spec.md's external-store contract allows -- and wakes the owning channel
// whenever the resulting status differs from the last one observed.
func (s *store) watch() {
	t := time.NewTicker(s.pollInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.mu.Lock()
			if err := s.loadCursors(); err != nil {
				s.mu.Unlock()
				continue
			}
			cur := s.status()
			changed := cur != s.lastStatus
			s.lastStatus = cur
			s.mu.Unlock()
			if changed {
				s.wake(cur)
			}
		}
	}
}

// AppendExternal inserts v directly into the database at path, bypassing
// Step entirely -- the Go analogue of a second process's INSERT against
// original_source's chanStrSql backing table. A store.Open'd instance
// polling the same path notices the new row and wakes its blocked Get
// waiters, demonstrating the external-store wake contract end to end.
func AppendExternal(path string, codec Codec, v any) error {
	if codec == nil {
		codec = BytesCodec{}
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	enc, err := codec.Encode(v)
	if err != nil {
		return err
	}
	return db.Update(func(tx *buntdb.Tx) error {
		var tail uint64
		if v, err := tx.Get("chan:tail"); err == nil {
			tail = decodeUint64(v)
		} else if !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}
		if _, _, err := tx.Set(itemKey(tail), string(enc), nil); err != nil {
			return err
		}
		tail++
		_, _, err := tx.Set("chan:tail", encodeUint64(tail), nil)
		return err
	})
}

func (s *store) loadCursors() error {
	return s.db.View(func(tx *buntdb.Tx) error {
		if v, err := tx.Get("chan:head"); err == nil {
			s.head = decodeUint64(v)
		}
		if v, err := tx.Get("chan:tail"); err == nil {
			s.tail = decodeUint64(v)
		} else if !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}
		return nil
	})
}

func (s *store) Step(oper channel.StoreOper, wait channel.StoreWait, val *any) channel.StoreStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch oper {
	case channel.OperPut:
		s.put(*val)
	case channel.OperGet:
		*val = s.get()
	}
	st := s.status()
	s.lastStatus = st
	return st
}

func (s *store) put(v any) {
	enc, err := s.codec.Encode(v)
	if err != nil {
		return
	}
	key := itemKey(s.tail)
	_ = s.db.Update(func(tx *buntdb.Tx) error {
		if _, _, err := tx.Set(key, string(enc), nil); err != nil {
			return err
		}
		s.tail++
		_, _, err := tx.Set("chan:tail", encodeUint64(s.tail), nil)
		return err
	})
}

func (s *store) get() any {
	var out any
	key := itemKey(s.head)
	_ = s.db.Update(func(tx *buntdb.Tx) error {
		raw, err := tx.Get(key)
		if err != nil {
			return err
		}
		v, err := s.codec.Decode([]byte(raw))
		if err != nil {
			return err
		}
		if _, err := tx.Delete(key); err != nil {
			return err
		}
		s.head++
		if _, _, err := tx.Set("chan:head", encodeUint64(s.head), nil); err != nil {
			return err
		}
		out = v
		return nil
	})
	return out
}

func (s *store) depth() int { return int(s.tail - s.head) }

func (s *store) status() channel.StoreStatus {
	var st channel.StoreStatus
	if s.depth() > 0 {
		st |= channel.CanGet
	}
	if s.capacity <= 0 || s.depth() < s.capacity {
		st |= channel.CanPut
	}
	return st
}

// Dealloc drains any residual items (invoking dequeue on each, per
// channel.Store's contract) and closes the database handle.
func (s *store) Dealloc(finalStatus channel.StoreStatus) {
	close(s.stop)
	s.mu.Lock()
	defer s.mu.Unlock()
	if finalStatus&channel.CanGet != 0 && s.dequeue != nil {
		for s.depth() > 0 {
			s.dequeue(s.get())
		}
	}
	s.db.Close()
}

func itemKey(seq uint64) string {
	return fmt.Sprintf("%s%020d", keyPrefix, seq)
}

func encodeUint64(v uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return string(b[:])
}

func decodeUint64(s string) uint64 {
	if len(s) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64([]byte(s)[:8])
}
