package recipe

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/Dev2197/recipe-snap/internal/apperr"
	"github.com/Dev2197/recipe-snap/internal/logger"
	"github.com/Dev2197/recipe-snap/internal/script"
)

const generationScript = "recipe_generation.py"

type Service struct {
	runner     script.Runner
	scriptsDir string
	timeout    time.Duration
}

// NewService builds the recipe stage. The generation call is bounded by
// timeout; unlike the analyzers there is no reference bound for it, so
// the default is a generous 5 minutes to cover slow local models.
func NewService(runner script.Runner, scriptsDir string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Service{
		runner:     runner,
		scriptsDir: scriptsDir,
		timeout:    timeout,
	}
}

// Generate invokes the external generator with the ingredient list and
// optional caption as context. The ingredient list must be non-empty;
// that is checked before any external call is made.
func (s *Service) Generate(ctx context.Context, ingredients []string, caption string) (*Result, error) {
	if len(ingredients) == 0 {
		return nil, apperr.Validationf("No ingredients provided")
	}

	encoded, err := json.Marshal(ingredients)
	if err != nil {
		return nil, apperr.Externalf("encoding ingredients: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger.Info("starting recipe generation", "ingredients", len(ingredients))
	out, err := s.runner.Run(ctx, filepath.Join(s.scriptsDir, generationScript), string(encoded), caption)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Recipe string `json:"recipe"`
		Output string `json:"output"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		return nil, apperr.Externalf("decoding generator output: %v", err)
	}

	text := decoded.Recipe
	if text == "" {
		text = decoded.Output
	}

	logger.Info("recipe generation complete", "length", len(text))
	return &Result{Recipe: text}, nil
}
