package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per key under a base directory.
type FileStore struct {
	basePath string
}

func NewFileStore(basePath string) (*FileStore, error) {
	// Create base directory if not exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	fullPath, err := s.keyPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	return data, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	fullPath, err := s.keyPath(key)
	if err != nil {
		return err
	}

	if err := os.WriteFile(fullPath, value, 0644); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

func (s *FileStore) Delete(key string) error {
	fullPath, err := s.keyPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	return nil
}

// keyPath maps a key to a file path, rejecting anything that would
// escape the base directory.
func (s *FileStore) keyPath(key string) (string, error) {
	cleanKey := filepath.Clean(key)
	fullPath := filepath.Join(s.basePath, cleanKey+".json")

	if !strings.HasPrefix(fullPath, s.basePath) {
		return "", fmt.Errorf("invalid key: %s", key)
	}

	return fullPath, nil
}
