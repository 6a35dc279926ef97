// Package memstore provides an in-memory types.KV. It backs tests and the
// "memory" backend, which keeps state only for the life of the process.
package memstore

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/habits/pkg/types"
)

var _ types.KV = (*Store)(nil)

// Store is a map-backed KV that also counts writes per key.
type Store struct {
	mu      sync.Mutex
	data    map[string]string
	writes  map[string]int
	failErr error
	closed  bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		data:   make(map[string]string),
		writes: make(map[string]int),
	}
}

// NewWith returns a Store preloaded with data. Preloading does not count as writes.
func NewWith(data map[string]string) *Store {
	s := New()
	for k, v := range data {
		s.data[k] = v
	}
	return s
}

// Get implements types.KV.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, types.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, types.ErrStoreClosed
	}
	v, ok := s.data[key]
	return v, ok, nil
}

// Set implements types.KV. When FailWrites has armed an error, Set returns it
// without changing the stored value.
func (s *Store) Set(_ context.Context, key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}
	if s.failErr != nil {
		return s.failErr
	}
	s.data[key] = value
	s.writes[key]++
	return nil
}

// Close implements types.KV.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// FailWrites makes every subsequent Set return err. Pass nil to clear.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Writes returns how many successful Set calls targeted key.
func (s *Store) Writes(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[key]
}

// ResetWrites zeroes the write counters.
func (s *Store) ResetWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = make(map[string]int)
}

// Raw returns the stored value for key without the closed check.
func (s *Store) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}
