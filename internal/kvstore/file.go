package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one file per key under a root directory.
type FileStore struct {
	rootDir string
	mu      sync.Mutex
}

func NewFileStore(rootDir string) (*FileStore, error) {
	if rootDir == "" {
		return nil, errors.New("root directory is required")
	}
	if err := os.MkdirAll(rootDir, 0o750); err != nil {
		return nil, fmt.Errorf("os.MkdirAll > %w", err)
	}
	return &FileStore{rootDir: rootDir}, nil
}

func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.rootDir, url.PathEscape(key)+".json")
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	file, err := os.Open(s.filePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll > %w", err)
	}
	return string(contents), nil
}

// Set writes to a temporary file and renames it so readers never see a partial value.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.CreateTemp(s.rootDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tmpPath := file.Name()
	if _, err := file.WriteString(value); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("file.WriteString > %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("os.Rename > %w", err)
	}
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove > %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
