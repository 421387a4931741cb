// Package session holds the authenticated user's identity and token, and
// persists it across restarts.
//
// The Store is the process-wide source of truth for "who is logged in". Only
// the auth controller writes to it (the gateway's forced clear goes through
// the same API), and every read is a pure in-memory lookup, so checking
// authentication never costs a network call.
package session

import (
	"sync"

	"github.com/shopforge/storefront/internal/apperr"
)

// Session is the authenticated identity. A zero token is never stored.
type Session struct {
	UserID   string   `json:"userId"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
	Token    string   `json:"token"`
}

// HasRole reports whether the session carries the given role.
func (s Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Store is the injectable session container. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu      sync.RWMutex
	current Session
	ok      bool
	persist Persistence
}

// NewStore creates a store backed by the given persistence. A nil
// persistence yields a memory-only store.
func NewStore(p Persistence) *Store {
	return &Store{persist: p}
}

// Restore rehydrates the store from persisted credentials, when present.
// The restored session is trusted optimistically; validity is only
// discovered on the next protected request.
func (st *Store) Restore() (Session, bool) {
	if st.persist == nil {
		return Session{}, false
	}
	sess, ok, err := st.persist.Load()
	if err != nil || !ok || sess.Token == "" {
		return Session{}, false
	}

	st.mu.Lock()
	st.current = sess
	st.ok = true
	st.mu.Unlock()
	return sess, true
}

// Set installs a new session. The token and profile are written together so
// no reader ever observes a half-logged-in state. The snapshot is written
// through to persistence.
func (st *Store) Set(sess Session) error {
	if sess.Token == "" {
		return apperr.Validation("session: token is required")
	}

	st.mu.Lock()
	st.current = sess
	st.ok = true
	st.mu.Unlock()

	if st.persist != nil {
		if err := st.persist.Save(sess); err != nil {
			return err
		}
	}
	return nil
}

// Clear drops the session and erases persisted credentials.
func (st *Store) Clear() {
	st.mu.Lock()
	st.current = Session{}
	st.ok = false
	st.mu.Unlock()

	if st.persist != nil {
		// Best effort: a failed erase leaves stale credentials on disk but
		// the in-memory state is already unauthenticated.
		_ = st.persist.Clear()
	}
}

// Current returns the session and whether one is present.
func (st *Store) Current() (Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current, st.ok
}

// Token returns the bearer token, or empty when unauthenticated.
func (st *Store) Token() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if !st.ok {
		return ""
	}
	return st.current.Token
}

// IsAuthenticated reports whether a session is present.
func (st *Store) IsAuthenticated() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.ok
}

// HasRole reports whether the current session carries the given role.
func (st *Store) HasRole(role string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.ok && st.current.HasRole(role)
}
