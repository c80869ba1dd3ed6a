// Package session provides a small durable key/value store for flow state
// that must survive a full process restart, such as the pending-picker flag
// set before an OAuth redirect and the last-selected source.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys. Pending-picker flags are per provider, see PendingKey.
const (
	KeyLastSource = "last_source"
)

// PendingKey returns the store key for a provider's pending-picker flag.
func PendingKey(provider string) string {
	return "picker_pending_" + provider
}

// Store is a file-backed string key/value store. The file is read once when
// the store is opened; every mutation is written back immediately so flags
// survive a redirect-and-restart cycle.
type Store struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "phototagger", "session.json"), nil
}

// Open loads the store from path, creating an empty store if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from our own config dir
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read session file: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		// A corrupt session file should not brick the app, start fresh.
		s.values = make(map[string]string)
	}
	return s, nil
}

// Get returns the stored value, or empty string if the key is absent.
func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// GetBool returns true when the stored value is the string "true".
func (s *Store) GetBool(key string) bool {
	return s.Get(key) == "true"
}

// Set stores a value and persists the store.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// SetBool stores a boolean flag.
func (s *Store) SetBool(key string, value bool) error {
	if value {
		return s.Set(key, "true")
	}
	return s.Delete(key)
}

// Delete removes a key and persists the store. Deleting an absent key is a
// no-op that still succeeds.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

// flush writes the store to disk. Caller must hold the mutex.
func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("could not create session dir: %w", err)
	}
	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("could not marshal session values: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("could not write session file: %w", err)
	}
	return nil
}
