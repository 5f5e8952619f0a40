package storage

import (
	"context"
	"io"
)

// Store persists uploaded images keyed by generated filename. Keys are
// produced by the upload service and never collide, so writers never
// overwrite an existing key.
type Store interface {
	// Save persists the payload under key and returns the stored path
	// (a local path or a public URL depending on the backend).
	Save(ctx context.Context, key string, r io.Reader) (string, error)

	// Path resolves key to a local filesystem path that the analyzer
	// scripts can read. Returns a NotFound error when no such key exists.
	Path(ctx context.Context, key string) (string, error)
}
