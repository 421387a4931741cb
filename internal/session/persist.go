package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Persistence is the durable key-value home for credentials. Implementations
// must tolerate Load before any Save and Clear on an empty store.
type Persistence interface {
	Load() (Session, bool, error)
	Save(Session) error
	Clear() error
}

// FileStore persists the session snapshot as a JSON file readable only by
// the owning user.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed persistence at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted session. A missing file means no session.
func (fs *FileStore) Load() (Session, bool, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("session: read credentials: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("session: parse credentials: %w", err)
	}
	if sess.Token == "" {
		return Session{}, false, nil
	}
	return sess, true, nil
}

// Save writes the session snapshot, creating the parent directory as needed.
func (fs *FileStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return fmt.Errorf("session: create credentials dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode credentials: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write credentials: %w", err)
	}
	return nil
}

// Clear removes the credentials file. Removing an absent file is not an error.
func (fs *FileStore) Clear() error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove credentials: %w", err)
	}
	return nil
}

// MemStore is an in-memory Persistence for tests.
type MemStore struct {
	mu   sync.Mutex
	sess Session
	ok   bool
}

// NewMemStore creates an empty in-memory persistence.
func NewMemStore() *MemStore { return &MemStore{} }

// Load returns the stored session, if any.
func (ms *MemStore) Load() (Session, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.sess, ms.ok, nil
}

// Save stores the session.
func (ms *MemStore) Save(sess Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sess = sess
	ms.ok = true
	return nil
}

// Clear drops the stored session.
func (ms *MemStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sess = Session{}
	ms.ok = false
	return nil
}
