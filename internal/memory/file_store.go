package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore is a JSON-file-backed preference store, kept for setups without
// a database. The file holds a single map of key -> list of values.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore and ensures its directory exists.
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create memory directory %s: %w", dir, err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) load() (map[string][]string, error) {
	data := make(map[string][]string)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, fmt.Errorf("failed to read memory file: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory file: %w", err)
	}
	return data, nil
}

// Fetch returns all values stored for a key.
func (s *FileStore) Fetch(_ context.Context, key string) ([]string, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	return data[key], nil
}

// Store appends a value under a key. Duplicate values are left untouched.
func (s *FileStore) Store(_ context.Context, key, value string) (StoreStatus, error) {
	data, err := s.load()
	if err != nil {
		return StatusError, err
	}

	for _, existing := range data[key] {
		if existing == value {
			return StatusAlreadyExists, nil
		}
	}
	data[key] = append(data[key], value)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return StatusError, fmt.Errorf("failed to marshal memory file: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return StatusError, fmt.Errorf("failed to write memory file: %w", err)
	}
	return StatusStored, nil
}
