// Package session caches the logged-in user between invocations. The cache
// is a single slot: writing replaces any prior session, and absence means
// anonymous. There is no expiry; a session is valid until cleared.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dtbank/teller/internal/bankapi"
)

var (
	_ bankapi.SessionStore = (*FileStore)(nil)
	_ bankapi.SessionStore = (*MemoryStore)(nil)
)

// DefaultPath returns the session file location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("session: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".teller", "session.json"), nil
}

// FileStore persists the session as a single JSON file. A missing,
// unreadable, or corrupt file reads as no session rather than an error.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns the cached user, or nil when no valid session is stored.
func (s *FileStore) Get() *bankapi.User {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var user bankapi.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	return &user
}

// Set caches the user, replacing any prior session. The write goes through
// a temp file and rename so a crash never leaves a half-written cache.
func (s *FileStore) Set(user *bankapi.User) error {
	if user == nil {
		return s.Clear()
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create session directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session: replace session: %w", err)
	}
	return nil
}

// Clear removes the cached session. Clearing an empty store is a no-op.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: clear session: %w", err)
	}
	return nil
}

// MemoryStore holds the session in memory with the same single-slot,
// last-writer-wins contract as FileStore. It backs tests and any embedding
// that does not want a file on disk.
type MemoryStore struct {
	mu   sync.Mutex
	user *bankapi.User
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns a copy of the cached user, or nil when anonymous.
func (s *MemoryStore) Get() *bankapi.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Set caches the user, replacing any prior session.
func (s *MemoryStore) Set(user *bankapi.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return nil
	}
	u := *user
	s.user = &u
	return nil
}

// Clear removes the cached session.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}
