package recipe

// Result carries the generated recipe text verbatim; the content is never
// parsed or validated here.
type Result struct {
	Recipe string `json:"recipe"`
}
