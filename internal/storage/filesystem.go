package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Compile-time check that FileSystem implements Storage.
var _ Storage = (*FileSystem)(nil)

// FileSystem implements Storage using the local filesystem.
// Files are stored flat at <basePath>/<key>.
type FileSystem struct {
	basePath string
}

// NewFileSystem creates a new FileSystem storage rooted at basePath.
func NewFileSystem(basePath string) *FileSystem {
	return &FileSystem{basePath: basePath}
}

// Path returns the on-disk path for key.
func (fs *FileSystem) Path(key string) string {
	return filepath.Join(fs.basePath, key)
}

// Stage copies data into a hidden temp file inside basePath so that Commit
// is a same-directory rename.
func (fs *FileSystem) Stage(data io.Reader) (Pending, error) {
	if err := os.MkdirAll(fs.basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", fs.basePath, err)
	}

	tmp, err := os.CreateTemp(fs.basePath, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, data)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("writing data: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	return &staged{fs: fs, tmpPath: tmpPath, size: n}, nil
}

// Open opens the file stored under key.
func (fs *FileSystem) Open(key string) (io.ReadSeekCloser, time.Time, error) {
	if !ValidKey(key) {
		return nil, time.Time{}, fmt.Errorf("invalid key %q: %w", key, ErrNotFound)
	}
	path := fs.Path(key)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, time.Time{}, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, time.Time{}, fmt.Errorf("opening file %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, time.Time{}, fmt.Errorf("stat file %s: %w", path, err)
	}
	return f, info.ModTime(), nil
}

// Delete removes the file stored under key.
// It is idempotent: deleting a non-existent file returns no error.
func (fs *FileSystem) Delete(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	path := fs.Path(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing file %s: %w", path, err)
	}
	return nil
}

type staged struct {
	fs      *FileSystem
	tmpPath string
	size    int64
}

func (s *staged) Size() int64 { return s.size }

func (s *staged) Commit(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("invalid key %q", key)
	}
	dst := s.fs.Path(key)
	if err := os.Rename(s.tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}
	return nil
}

func (s *staged) Discard() error {
	if err := os.Remove(s.tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing temp file %s: %w", s.tmpPath, err)
	}
	return nil
}
