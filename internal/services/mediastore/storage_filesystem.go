package mediastore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FilesystemStorage implements StorageBackend for local filesystem storage
type FilesystemStorage struct {
	basePath string
}

// NewFilesystemStorage creates a new filesystem storage backend
func NewFilesystemStorage(basePath string) (StorageBackend, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FilesystemStorage{basePath: basePath}, nil
}

// Save writes data to the filesystem under the given relative path
func (fs *FilesystemStorage) Save(ctx context.Context, data io.Reader, path string) (int64, error) {
	fullPath := filepath.Join(fs.basePath, path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath) // Clean up on error
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return written, nil
}

// Load opens a blob for reading
func (fs *FilesystemStorage) Load(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(fs.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a blob from the filesystem
func (fs *FilesystemStorage) Delete(ctx context.Context, path string) error {
	if err := os.Remove(filepath.Join(fs.basePath, path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks if a blob exists
func (fs *FilesystemStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(filepath.Join(fs.basePath, path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}
