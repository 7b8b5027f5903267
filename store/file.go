package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps state in a small JSON document on disk. Keys it does not
// own are preserved on write.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ CountStore = (*FileStore)(nil)

// DefaultStatePath returns ~/.krypt-state.json.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".krypt-state.json"
	}
	return filepath.Join(home, ".krypt-state.json")
}

// NewFileStore returns a store backed by path. The file is created on the
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return doc, nil
}

func (s *FileStore) LoadCount(_ context.Context) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return 0, false, err
	}

	raw, ok := doc[CountKey]
	if !ok {
		return 0, false, nil
	}

	var count uint64
	if err := json.Unmarshal(raw, &count); err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", CountKey, err)
	}
	return count, true, nil
}

func (s *FileStore) SaveCount(_ context.Context, count uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(count)
	if err != nil {
		return err
	}
	doc[CountKey] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	// write-then-rename so a crash never leaves a truncated file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
