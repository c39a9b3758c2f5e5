package storage

import (
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no file is stored under the requested key.
var ErrNotFound = errors.New("file not found")

// Storage defines the interface for uploaded file bytes.
type Storage interface {
	// Stage writes data to a temporary location that is not yet visible
	// under any key.
	Stage(data io.Reader) (Pending, error)

	// Open returns the stored file and its modification time.
	Open(key string) (io.ReadSeekCloser, time.Time, error)

	// Delete removes the stored file. Deleting a missing key is not an error.
	Delete(key string) error

	// Path returns the location recorded in metadata for key.
	Path(key string) string
}

// Pending is staged upload data awaiting Commit or Discard.
type Pending interface {
	// Commit moves the staged data into place under key.
	Commit(key string) error
	// Discard removes the staged data.
	Discard() error
	// Size is the number of bytes staged.
	Size() int64
}
