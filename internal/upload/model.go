package upload

// Image describes a successfully stored upload. Filename is the opaque
// reference later stages use to locate the file; it is unique for the
// lifetime of the process.
type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}
