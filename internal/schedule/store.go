package schedule

import (
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("builder session not found or expired")

// SessionStore is the in-process registry of open builder sessions,
// keyed by opaque token. Sessions are ephemeral: the server restarting
// or the TTL elapsing is equivalent to the manager closing the builder
// without publishing.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (st *SessionStore) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.Token] = s
}

func (st *SessionStore) Get(token string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[token]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.Expired(st.ttl) {
		st.Remove(token)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove discards a session and everything unpublished in it.
func (st *SessionStore) Remove(token string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, token)
}

// Sweep drops expired sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for token, s := range st.sessions {
		if s.Expired(st.ttl) {
			delete(st.sessions, token)
			n++
		}
	}
	return n
}
