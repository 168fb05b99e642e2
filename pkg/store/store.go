// Package store persists finished layouts so they can be fetched by id.
//
// The API saves every layout it builds and serves them back from here. The
// CLI uses a [MemoryStore] unless --mongo is given.
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/dungeonforge/pkg/layout"
)

// ErrNotFound is returned by Get when no layout has the requested id.
var ErrNotFound = errors.New("layout not found")

// Store saves and retrieves layouts.
type Store interface {
	// Save stores l under l.ID, replacing any previous layout with that id.
	Save(ctx context.Context, l *layout.Layout) error

	// Get returns the layout with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*layout.Layout, error)

	// List returns layouts built from the named level, newest first.
	// An empty name lists every layout.
	List(ctx context.Context, level string) ([]*layout.Layout, error)

	// Close releases backend resources.
	Close() error
}
