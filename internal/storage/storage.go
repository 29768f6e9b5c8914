// Package storage defines the interface for asset storage operations.
// Assets are addressed only by an opaque leaf name; implementations never
// create subdirectories and must refuse names that would escape their root.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when no asset exists under the given name.
	ErrNotFound = errors.New("asset not found")

	// ErrInvalidName is returned for names that are not a plain leaf inside the root.
	ErrInvalidName = errors.New("invalid asset name")

	// ErrExists is returned by Save when the name is already taken.
	ErrExists = errors.New("asset already exists")
)

// Object is an opened asset ready to be streamed.
type Object struct {
	io.ReadSeekCloser
	Name    string
	Size    int64
	ModTime time.Time
}

// Storage is the interface for writing, reading and removing assets.
type Storage interface {
	// Save streams r into a new asset called name and returns the number of
	// bytes written. A failed write leaves nothing behind.
	Save(ctx context.Context, name string, r io.Reader) (int64, error)
	// Open returns the asset for reading. The caller closes it.
	Open(ctx context.Context, name string) (*Object, error)
	// Delete removes the asset called name.
	Delete(ctx context.Context, name string) error
}
