package analyze

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/Dev2197/recipe-snap/internal/apperr"
	"github.com/Dev2197/recipe-snap/internal/logger"
	"github.com/Dev2197/recipe-snap/internal/script"
	"github.com/Dev2197/recipe-snap/internal/storage"
)

const (
	captionScript   = "image_captioning.py"
	detectionScript = "object_detection.py"
)

type Service struct {
	store      storage.Store
	runner     script.Runner
	scriptsDir string
	timeout    time.Duration
}

func NewService(store storage.Store, runner script.Runner, scriptsDir string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Service{
		store:      store,
		runner:     runner,
		scriptsDir: scriptsDir,
		timeout:    timeout,
	}
}

// Analyze runs captioning and then object detection against the stored
// image and merges the two outputs. Either sub-call failing fails the
// whole stage; the caller never sees a half-populated result. The whole
// stage shares one timeout.
func (s *Service) Analyze(ctx context.Context, filename string) (*Result, error) {
	// The reference is a bare generated name; strip any path components
	// a hostile caller might smuggle in.
	filename = filepath.Base(filename)

	imagePath, err := s.store.Path(ctx, filename)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger.Info("starting image captioning", "filename", filename)
	captionOut, err := s.runner.Run(ctx, filepath.Join(s.scriptsDir, captionScript), imagePath)
	if err != nil {
		return nil, err
	}

	logger.Info("starting object detection", "filename", filename)
	detectionOut, err := s.runner.Run(ctx, filepath.Join(s.scriptsDir, detectionScript), imagePath)
	if err != nil {
		return nil, err
	}

	result, err := merge(captionOut, detectionOut)
	if err != nil {
		return nil, apperr.Externalf("decoding analyzer output: %v", err)
	}

	logger.Info("analysis complete",
		"filename", filename, "ingredients", len(result.Ingredients))
	return result, nil
}

func merge(captionOut, detectionOut json.RawMessage) (*Result, error) {
	var caption struct {
		Caption string `json:"caption"`
		Output  string `json:"output"`
	}
	if err := json.Unmarshal(captionOut, &caption); err != nil {
		return nil, err
	}

	var detection struct {
		Ingredients []string          `json:"ingredients"`
		Detections  []json.RawMessage `json:"detections"`
	}
	if err := json.Unmarshal(detectionOut, &detection); err != nil {
		return nil, err
	}

	result := &Result{
		Caption:     caption.Caption,
		Ingredients: detection.Ingredients,
		Detections:  detection.Detections,
	}
	if result.Caption == "" {
		result.Caption = caption.Output
	}
	if result.Ingredients == nil {
		result.Ingredients = []string{}
	}
	if result.Detections == nil {
		result.Detections = []json.RawMessage{}
	}
	return result, nil
}
