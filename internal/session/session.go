// Package session implements the client-side orchestrator that sequences
// upload, analysis and recipe generation as a step wizard with at most one
// request in flight per stage.
package session

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/Dev2197/recipe-snap/internal/analyze"
	"github.com/Dev2197/recipe-snap/internal/logger"
	"github.com/Dev2197/recipe-snap/internal/recipe"
	"github.com/Dev2197/recipe-snap/internal/upload"
)

// Step is the wizard position of a session.
type Step int

const (
	StepUpload Step = iota
	StepAnalyzing
	StepResults
	StepRecipe
)

// String returns a human-readable step name.
func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepAnalyzing:
		return "analyzing"
	case StepResults:
		return "results"
	case StepRecipe:
		return "recipe"
	default:
		return "unknown"
	}
}

// Stages abstracts the three server stages. The HTTP implementation lives
// in the apiclient package; tests use fakes.
type Stages interface {
	Upload(ctx context.Context, r io.Reader, declaredType, originalName string, size int64) (*upload.Image, error)
	Analyze(ctx context.Context, filename string) (*analyze.Result, error)
	GenerateRecipe(ctx context.Context, ingredients []string, caption string) (*recipe.Result, error)
}

// Snapshot is an immutable view of session state for presentation.
type Snapshot struct {
	Step     Step
	Image    *upload.Image
	Analysis *analyze.Result
	Recipe   *recipe.Result
	Err      string

	AnalysisInFlight bool
	RecipeInFlight   bool
}

// Session drives one user's upload → analyze → recipe flow. All state is
// guarded by the mutex; stage completions apply their result only while
// their request token is still current, so responses that race with a
// Reset are discarded instead of corrupting a fresh session.
type Session struct {
	mu     sync.Mutex
	stages Stages

	step     Step
	image    *upload.Image
	analysis *analyze.Result
	recipe   *recipe.Result
	errMsg   string

	// Outstanding single-flight tokens, empty when no request is in
	// flight for the stage.
	analysisToken string
	recipeToken   string

	// done receives one value per completed stage request; tests use it
	// to wait deterministically.
	done chan struct{}
}

// New creates an idle session in the upload step.
func New(stages Stages) *Session {
	return &Session{
		stages: stages,
		step:   StepUpload,
		done:   make(chan struct{}, 8),
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Step:             s.step,
		Image:            s.image,
		Analysis:         s.analysis,
		Recipe:           s.recipe,
		Err:              s.errMsg,
		AnalysisInFlight: s.analysisToken != "",
		RecipeInFlight:   s.recipeToken != "",
	}
}

// SubmitImage uploads the image and, on success, triggers analysis exactly
// once. A second call while analysis for the current image is outstanding
// is a no-op.
func (s *Session) SubmitImage(ctx context.Context, r io.Reader, declaredType, originalName string, size int64) error {
	img, err := s.stages.Upload(ctx, r, declaredType, originalName, size)
	if err != nil {
		s.mu.Lock()
		s.errMsg = err.Error()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if s.analysisToken != "" {
		// Analysis already outstanding; keep the guard and drop the trigger.
		s.mu.Unlock()
		return nil
	}
	token := uuid.New().String()
	s.image = img
	s.analysis = nil
	s.recipe = nil
	s.errMsg = ""
	s.step = StepAnalyzing
	s.analysisToken = token
	s.recipeToken = ""
	s.mu.Unlock()

	go s.runAnalysis(ctx, img.Filename, token)
	return nil
}

func (s *Session) runAnalysis(ctx context.Context, filename, token string) {
	result, err := s.stages.Analyze(ctx, filename)

	s.mu.Lock()
	defer func() {
		s.mu.Unlock()
		s.signal()
	}()

	if s.analysisToken != token {
		// The session was reset (or superseded) while the call was in
		// flight; the response is stale and must not be applied.
		logger.Debug("discarding stale analysis response", "filename", filename)
		return
	}
	s.analysisToken = ""

	if err != nil {
		s.errMsg = err.Error()
		s.step = StepUpload
		return
	}

	s.analysis = result
	s.errMsg = ""
	s.step = StepResults
}

// GenerateRecipe triggers recipe generation from the current analysis.
// It is a no-op while a generation is outstanding, and is callable again
// after a failure or from the recipe step (regeneration) since the
// ingredient list is retained.
func (s *Session) GenerateRecipe(ctx context.Context) error {
	s.mu.Lock()
	if s.analysis == nil {
		s.mu.Unlock()
		return ErrNoAnalysis
	}
	if len(s.analysis.Ingredients) == 0 {
		s.mu.Unlock()
		return ErrNoIngredients
	}
	if s.recipeToken != "" {
		s.mu.Unlock()
		return nil
	}
	token := uuid.New().String()
	s.recipeToken = token
	s.step = StepRecipe
	ingredients := append([]string(nil), s.analysis.Ingredients...)
	caption := s.analysis.Caption
	s.mu.Unlock()

	go s.runRecipe(ctx, ingredients, caption, token)
	return nil
}

func (s *Session) runRecipe(ctx context.Context, ingredients []string, caption, token string) {
	result, err := s.stages.GenerateRecipe(ctx, ingredients, caption)

	s.mu.Lock()
	defer func() {
		s.mu.Unlock()
		s.signal()
	}()

	if s.recipeToken != token {
		logger.Debug("discarding stale recipe response")
		return
	}
	s.recipeToken = ""

	if err != nil {
		s.errMsg = err.Error()
		s.step = StepResults
		return
	}

	s.recipe = result
	s.errMsg = ""
	s.step = StepRecipe
}

// Reset returns the session to its initial state. In-flight server calls
// are not cancelled, but their responses will no longer match an
// outstanding token and are discarded on arrival.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = StepUpload
	s.image = nil
	s.analysis = nil
	s.recipe = nil
	s.errMsg = ""
	s.analysisToken = ""
	s.recipeToken = ""
}

// DismissError clears the error banner without touching the rest of the
// session.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// Wait blocks until one stage request completes (success or failure).
func (s *Session) Wait() {
	<-s.done
}

func (s *Session) signal() {
	select {
	case s.done <- struct{}{}:
	default:
	}
}
