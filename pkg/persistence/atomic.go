// Package persistence implements atomic JSON file persistence for the
// bridge's state files: the OAuth token, the coordinator state, the
// auto-mode controller state, and the accessory cache.
//
// All writes go through a temp-file-then-rename sequence so a crash
// mid-write never leaves a truncated or partially-written JSON file on
// disk; a reader always sees either the previous complete file or the new
// complete file, never a mix.
package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store persists a single JSON document to path, guarding concurrent
// access and writing atomically.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save marshals v as indented JSON and writes it to the store's path via a
// temp file in the same directory followed by a rename, so a crash during
// the write can never leave a truncated file at path.
func (s *Store) Save(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, s.path)
}

// Load reads the JSON document at path into v. If the file does not exist,
// Load returns (false, nil) and leaves v untouched.
func (s *Store) Load(v any) (found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes the persisted file, if any.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
