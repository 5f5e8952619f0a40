package session

import "errors"

var (
	// ErrNoAnalysis is returned when recipe generation is requested
	// before an analysis has completed.
	ErrNoAnalysis = errors.New("no analysis available")

	// ErrNoIngredients is returned when the completed analysis found
	// nothing to cook with.
	ErrNoIngredients = errors.New("no ingredients detected")
)
