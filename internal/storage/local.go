package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Dev2197/recipe-snap/internal/apperr"
)

// LocalStore keeps uploads on the local filesystem under a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures dir exists and returns a store rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	dst := filepath.Join(s.dir, key)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("closing %s: %w", dst, err)
	}

	return dst, nil
}

func (s *LocalStore) Path(ctx context.Context, key string) (string, error) {
	p := filepath.Join(s.dir, key)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", apperr.NotFoundf("image file not found")
		}
		return "", fmt.Errorf("stat %s: %w", p, err)
	}
	return p, nil
}
