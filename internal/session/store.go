// Package session owns the lifecycle of one analysis run: wiring a
// landmark source into the frame pipeline with an analyze stage,
// accumulating the results, and turning them into a feedback report
// on stop.
package session

import (
	"errors"
	"sync"
)

// ErrSessionNotFound is returned for lookups of unknown or already
// stopped session identifiers.
var ErrSessionNotFound = errors.New("session not found")

// Store is an explicit registry of live sessions. All access goes
// through the mutex; there is no package-level state.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session registry.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Add registers a session under its identifier.
func (s *Store) Add(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Lookup returns the live session for id.
func (s *Store) Lookup(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Remove detaches and returns the session for id. The removal is
// atomic with the lookup, so two concurrent stops of the same id
// cannot both win.
func (s *Store) Remove(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	return sess, ok
}

// List returns the identifiers of all live sessions.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
