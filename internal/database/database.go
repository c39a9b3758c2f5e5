package database

import (
	"errors"

	"github.com/leca/picvault/internal/model"
)

// ErrNotFound is returned when no image record matches the lookup.
var ErrNotFound = errors.New("image not found")

// Database defines the persistence interface for image records.
type Database interface {
	// CreateImage inserts img and sets img.ID to the assigned id.
	CreateImage(img *model.Image) error
	GetImage(id int64) (*model.Image, error)
	// FindLatestImage returns the most recent record carrying filename.
	FindLatestImage(filename string) (*model.Image, error)
	// ListImages returns every record, newest id first.
	ListImages() ([]*model.Image, error)
	DeleteImage(id int64) error

	Close() error
}
