package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dev2197/recipe-snap/internal/apperr"
	"github.com/Dev2197/recipe-snap/internal/storage"
)

// MaxUploadBytes is the hard cap on accepted payloads.
const MaxUploadBytes = 10 << 20 // 10 MiB

// allowedTypes covers both file extensions (without the dot) and the
// subtype portion of declared image MIME types.
var allowedTypes = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

type Service struct {
	store storage.Store
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Submit validates and persists one uploaded image. The payload must be at
// most MaxUploadBytes and both the file extension and the declared MIME
// type must name an accepted image format. On success the file is stored
// under a freshly generated name that never collides with a previous one.
func (s *Service) Submit(
	ctx context.Context,
	r io.Reader,
	declaredType string,
	originalName string,
	size int64,
) (*Image, error) {

	if size > MaxUploadBytes {
		return nil, apperr.Validationf("File too large")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" || !allowedTypes[strings.TrimPrefix(ext, ".")] {
		return nil, apperr.Validationf("Only image files are allowed!")
	}
	if !mimeAllowed(declaredType) {
		return nil, apperr.Validationf("Only image files are allowed!")
	}

	// uuid + timestamp + original extension, matching the reference naming.
	key := fmt.Sprintf("%s-%d%s", uuid.New().String(), time.Now().UnixMilli(), ext)

	// Guard against undeclared oversize payloads: one byte past the cap
	// fails the copy instead of filling the disk.
	limited := &limitReader{r: r}

	path, err := s.store.Save(ctx, key, limited)
	if err != nil {
		if limited.exceeded {
			return nil, apperr.Validationf("File too large")
		}
		return nil, apperr.Externalf("storing upload: %v", err)
	}

	return &Image{
		Filename:     key,
		OriginalName: originalName,
		Size:         limited.read,
		Path:         path,
	}, nil
}

func mimeAllowed(declared string) bool {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared == "" {
		return false
	}
	sub := declared
	if i := strings.Index(declared, "/"); i >= 0 {
		if declared[:i] != "image" {
			return false
		}
		sub = declared[i+1:]
	}
	return allowedTypes[sub]
}

// limitReader fails the stream once more than MaxUploadBytes have been
// read, so Save never persists an oversize payload.
type limitReader struct {
	r        io.Reader
	read     int64
	exceeded bool
}

func (l *limitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > MaxUploadBytes {
		l.exceeded = true
		return n, fmt.Errorf("payload exceeds %d bytes", int64(MaxUploadBytes))
	}
	return n, err
}
