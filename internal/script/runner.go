// Package script invokes the external model scripts as one-shot processes
// and normalizes their stdout into a single JSON document.
package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"

	"github.com/Dev2197/recipe-snap/internal/apperr"
	"github.com/Dev2197/recipe-snap/internal/logger"
)

// Runner executes an external script and returns its JSON output.
type Runner interface {
	Run(ctx context.Context, scriptPath string, args ...string) (json.RawMessage, error)
}

// PythonRunner runs scripts through a configured list of interpreters,
// tried in order. Falling through the list retries the invocation
// mechanism only; the semantic call itself is never retried.
type PythonRunner struct {
	interpreters []string
}

// NewPythonRunner returns a runner using the given interpreter fallback
// list, defaulting to python/python3/py when the list is empty.
func NewPythonRunner(interpreters []string) *PythonRunner {
	if len(interpreters) == 0 {
		interpreters = []string{"python", "python3", "py"}
	}
	return &PythonRunner{interpreters: interpreters}
}

func (r *PythonRunner) Run(ctx context.Context, scriptPath string, args ...string) (json.RawMessage, error) {
	var lastStderr string
	var lastErr error

	for _, interp := range r.interpreters {
		cmdArgs := append([]string{scriptPath}, args...)
		cmd := exec.CommandContext(ctx, interp, cmdArgs...)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		if err == nil {
			return normalize(stdout.Bytes()), nil
		}

		if ctx.Err() != nil {
			return nil, apperr.Timeoutf("script %s timed out", scriptPath)
		}

		lastErr = err
		if s := strings.TrimSpace(stderr.String()); s != "" {
			lastStderr = s
		}
		logger.Warn("script invocation failed, trying next interpreter",
			"interpreter", interp, "script", scriptPath, "error", err)
	}

	if lastStderr != "" {
		return nil, apperr.Externalf("script failed after trying all interpreters: %s", lastStderr)
	}
	if lastErr == nil {
		lastErr = errors.New("no interpreters configured")
	}
	return nil, apperr.Externalf("script failed after trying all interpreters: %v", lastErr)
}

// normalize returns stdout as-is when it is a JSON document, and wraps
// any other output verbatim as {"output": <text>}.
func normalize(stdout []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(stdout)
	if json.Valid(trimmed) && len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return json.RawMessage(trimmed)
	}
	wrapped, _ := json.Marshal(map[string]string{"output": string(trimmed)})
	return json.RawMessage(wrapped)
}
