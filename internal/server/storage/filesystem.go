package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no file exists under the requested name.
var ErrNotFound = errors.New("file not found")

// Store defines the interface for blob storage backends.
// This allows swapping the filesystem for S3 or other backends later.
type Store interface {
	Save(name string, data io.Reader) (int64, error)
	Open(name string) (io.ReadCloser, int64, error)
	EnsureDir() error
}

// FileSystemStore keeps uploaded blobs in a flat directory, one file per
// storage key.
type FileSystemStore struct {
	basePath string
}

// NewFileSystemStore creates a new filesystem storage backend.
func NewFileSystemStore(basePath string) *FileSystemStore {
	return &FileSystemStore{basePath: basePath}
}

// EnsureDir creates the storage directory if it doesn't exist.
func (fs *FileSystemStore) EnsureDir() error {
	if err := os.MkdirAll(fs.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", fs.basePath, err)
	}
	return nil
}

// Save writes data to a file under the sanitized name, overwriting any
// existing file with the same name (last writer wins, no versioning).
// Returns the number of bytes written.
func (fs *FileSystemStore) Save(name string, data io.Reader) (int64, error) {
	filePath := fs.filePath(name)

	file, err := os.Create(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	n, err := io.Copy(file, data)
	if err != nil {
		// Clean up partial file on error
		os.Remove(filePath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return n, nil
}

// Open returns a reader over a previously stored file and its size.
// Returns ErrNotFound if no file exists under the name.
func (fs *FileSystemStore) Open(name string) (io.ReadCloser, int64, error) {
	filePath := fs.filePath(name)

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, SanitizeName(name))
		}
		return nil, 0, fmt.Errorf("failed to stat file: %w", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}

	return file, info.Size(), nil
}

func (fs *FileSystemStore) filePath(name string) string {
	return filepath.Join(fs.basePath, SanitizeName(name))
}

// SanitizeName reduces a storage key to its base name and a conservative
// character set, so a crafted key can never escape the storage directory.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '-' || c == '_' || c == '.':
			b.WriteRune(c)
		}
	}

	out := b.String()
	if out == "" || out == "." || out == ".." {
		out = "_"
	}
	return out
}
