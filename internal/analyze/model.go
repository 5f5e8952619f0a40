package analyze

import "encoding/json"

// Result merges the two analyzer outputs for one image. Ingredients and
// Detections are never nil; an image with nothing detected yields empty
// slices. Detection records are passed through uninterpreted.
type Result struct {
	Caption     string            `json:"caption"`
	Ingredients []string          `json:"ingredients"`
	Detections  []json.RawMessage `json:"detections"`
}
