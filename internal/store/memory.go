// internal/store/memory.go
//
// In-memory session store, shared by all four game route groups.
// Sessions are transient per-game-instance state: never persisted, destroyed
// on close or abandon, lost on restart.
//
// Characteristics:
//   - Stores sessions keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Errors are returned for missing session IDs on Get().

package store

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get and Delete for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Sessions is a mutex-guarded map of live game sessions of one kind.
type Sessions[T any] struct {
	mu       sync.RWMutex
	sessions map[string]T
}

// NewSessions constructs an empty session store.
func NewSessions[T any]() *Sessions[T] {
	return &Sessions[T]{sessions: make(map[string]T)}
}

// Put adds or replaces the session under id.
func (s *Sessions[T]) Put(id string, sess T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

// Get looks up a session by ID.
func (s *Sessions[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	var zero T
	return zero, ErrNotFound
}

// Delete removes the session and returns it so callers can tear it down
// (cancel timers, forfeit uncommitted rewards).
func (s *Sessions[T]) Delete(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		return sess, nil
	}
	var zero T
	return zero, ErrNotFound
}

// Len reports the number of live sessions.
func (s *Sessions[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
