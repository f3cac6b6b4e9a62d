package session

import (
	"crypto/rand"
	"sync"
	"time"
)

// Store is the concurrent session map keyed by session ID. The internal
// map is never exposed directly; callers reach a Session only through
// GetOrCreate or WithSession.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	timeout  time.Duration
}

// NewStore returns an empty Store that evicts sessions idle past timeout.
func NewStore(timeout time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		timeout:  timeout,
	}
}

func generateNonce() []byte {
	nonce := make([]byte, 16)
	_, _ = rand.Read(nonce)
	return nonce
}

// GetOrCreate returns the session for id, creating one with a fresh
// server nonce if none exists or the existing one has expired. An
// expired session is treated as unknown, not an error.
func (s *Store) GetOrCreate(id, deviceID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok && !sess.Expired(s.timeout) {
		return sess
	}

	sess := newSession(id, generateNonce())
	sess.DeviceID = deviceID
	s.sessions[id] = sess
	return sess
}

// WithSession looks up (or creates) the session for id and runs fn while
// holding exclusive access to it. This is the only
// way callers should mutate a Session, so handler logic for one session
// never races the sweep or another handler.
func (s *Store) WithSession(id, deviceID string, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.timeout) {
		sess = newSession(id, generateNonce())
		sess.DeviceID = deviceID
		s.sessions[id] = sess
	}
	fn(sess)
}

// Sweep evicts every session idle past the configured timeout. It takes
// the same exclusive lock WithSession uses, so it never evicts a session
// a handler is currently mutating.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.Expired(s.timeout) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Count returns the number of live sessions, for diagnostics.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Snapshot returns a shallow copy of the current sessions for the
// diagnostic /sessions endpoint; callers must not mutate the returned
// Sessions.
func (s *Store) Snapshot() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}
