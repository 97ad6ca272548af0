package orbit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

const defaultSyncTimeout = 10 * time.Second

// Counters are the engagement numbers shown for one asset. Only
// LikedByThisClient is durable on the client.
type Counters struct {
	Views             uint64 `json:"views"`
	Likes             uint64 `json:"likes"`
	LikedByThisClient bool   `json:"likedByThisClient"`
}

// CounterRemote is the remote counter store.
type CounterRemote interface {
	IncrementView(ctx context.Context, shortID string) error
	ChangeLikes(ctx context.Context, shortID string, delta int) error
}

// SyncOptions configures a Synchronizer.
type SyncOptions struct {
	// Timeout bounds each remote submission. Defaults to 10s.
	Timeout time.Duration
	// OnError is called from the submitting goroutine when a remote update
	// fails. The optimistic local state is kept either way.
	OnError func(op, shortID string, err error)
}

// Synchronizer keeps optimistic local counters and submits deltas to the
// remote store in the background. The like flag persisted in the FlagStore
// is the only guard against duplicate like submissions from one client.
type Synchronizer struct {
	remote CounterRemote
	store  FlagStore
	opts   SyncOptions

	mu       sync.Mutex
	counters map[string]*Counters
	inflight sync.WaitGroup
}

// NewSynchronizer creates a synchronizer. remote may be nil for offline use.
func NewSynchronizer(remote CounterRemote, store FlagStore, opts SyncOptions) *Synchronizer {
	if store == nil {
		store = NewMemoryFlagStore()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultSyncTimeout
	}
	return &Synchronizer{
		remote:   remote,
		store:    store,
		opts:     opts,
		counters: make(map[string]*Counters),
	}
}

// Seed initializes counters for shortID from server metadata and the stored
// like flag. A missing or unreadable flag counts as not liked.
func (s *Synchronizer) Seed(ctx context.Context, shortID string, views, likes uint64) (Counters, error) {
	liked, err := s.readLiked(ctx, shortID)
	s.mu.Lock()
	c := &Counters{Views: views, Likes: likes, LikedByThisClient: liked}
	s.counters[shortID] = c
	out := *c
	s.mu.Unlock()
	return out, err
}

// Counters returns the current local counters for shortID.
func (s *Synchronizer) Counters(shortID string) Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.counters[shortID]; ok {
		return *c
	}
	return Counters{}
}

// RecordView counts a view locally and fires the remote increment without
// waiting. Every call counts; there is no duplicate guard.
func (s *Synchronizer) RecordView(ctx context.Context, shortID string) Counters {
	s.mu.Lock()
	c := s.entry(shortID)
	c.Views++
	out := *c
	s.mu.Unlock()

	s.submit(ctx, "view", shortID, func(ctx context.Context) error {
		return s.remote.IncrementView(ctx, shortID)
	})
	return out
}

// ToggleLike flips the like flag, adjusts the local like count by one
// (never below zero), persists the flag, then submits the delta in the
// background. A storage error is returned but the optimistic state and the
// remote submission stand.
func (s *Synchronizer) ToggleLike(ctx context.Context, shortID string) (Counters, error) {
	s.mu.Lock()
	c := s.entry(shortID)
	c.LikedByThisClient = !c.LikedByThisClient
	delta := 1
	if c.LikedByThisClient {
		c.Likes++
	} else {
		delta = -1
		if c.Likes > 0 {
			c.Likes--
		}
	}
	out := *c
	s.mu.Unlock()

	var storeErr error
	if err := s.store.Set(ctx, LikedKey(shortID), strconv.FormatBool(out.LikedByThisClient)); err != nil {
		storeErr = fmt.Errorf("persist like flag for %s: %w", shortID, err)
		debugf("%v", storeErr)
	}

	s.submit(ctx, "like", shortID, func(ctx context.Context) error {
		return s.remote.ChangeLikes(ctx, shortID, delta)
	})
	return out, storeErr
}

// Wait blocks until all in-flight remote submissions have finished.
func (s *Synchronizer) Wait() {
	s.inflight.Wait()
}

// entry returns the counters for shortID, creating them. Caller holds s.mu.
func (s *Synchronizer) entry(shortID string) *Counters {
	c, ok := s.counters[shortID]
	if !ok {
		c = &Counters{}
		s.counters[shortID] = c
	}
	return c
}

func (s *Synchronizer) readLiked(ctx context.Context, shortID string) (bool, error) {
	v, ok, err := s.store.Get(ctx, LikedKey(shortID))
	if err != nil {
		return false, fmt.Errorf("read like flag for %s: %w", shortID, err)
	}
	if !ok {
		return false, nil
	}
	liked, err := strconv.ParseBool(v)
	if err != nil {
		return false, nil
	}
	return liked, nil
}

// submit runs fn on a goroutine, detached from ctx cancellation but bounded
// by the sync timeout.
func (s *Synchronizer) submit(ctx context.Context, op, shortID string, fn func(context.Context) error) {
	if s.remote == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.Timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			debugf("%s sync for %s failed: %v", op, shortID, err)
			if s.opts.OnError != nil {
				s.opts.OnError(op, shortID, err)
			}
		}
	}()
}
