package orbit

import (
	"context"
	"sync"
)

// FlagStore is durable client-side key/value storage, the Go analogue of a
// browser's localStorage. Values are strings.
type FlagStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// LikedKey returns the storage key for the like flag of shortID.
func LikedKey(shortID string) string {
	return "liked_" + shortID
}

// MemoryFlagStore is an in-process FlagStore. It does not survive restarts;
// use sqlitestore for durable flags.
type MemoryFlagStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryFlagStore returns an empty store.
func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{values: make(map[string]string)}
}

// Get returns the stored value for key.
func (s *MemoryFlagStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *MemoryFlagStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
