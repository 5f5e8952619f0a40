package script

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dev2197/recipe-snap/internal/apperr"
)

// writeScript drops a shell script fixture that stands in for the Python
// analyzers; the runner only cares about exit codes and stdout.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake_script")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunJSONPassthrough(t *testing.T) {
	script := writeScript(t, `echo '{"caption": "a fridge with vegetables"}'`)
	runner := NewPythonRunner([]string{"sh"})

	out, err := runner.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Caption string `json:"caption"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Caption != "a fridge with vegetables" {
		t.Fatalf("unexpected caption: %q", decoded.Caption)
	}
}

func TestRunWrapsPlainOutput(t *testing.T) {
	script := writeScript(t, `echo 'just some text'`)
	runner := NewPythonRunner([]string{"sh"})

	out, err := runner.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Output != "just some text" {
		t.Fatalf("expected wrapped output, got %q", decoded.Output)
	}
}

func TestRunInterpreterFallback(t *testing.T) {
	script := writeScript(t, `echo '{"ok": true}'`)
	runner := NewPythonRunner([]string{"definitely-not-a-real-interpreter", "sh"})

	out, err := runner.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
	if !json.Valid(out) {
		t.Fatalf("expected JSON output, got %q", out)
	}
}

func TestRunAllInterpretersFail(t *testing.T) {
	script := writeScript(t, "echo 'model exploded' >&2\nexit 1\n")
	runner := NewPythonRunner([]string{"sh"})

	_, err := runner.Run(context.Background(), script)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.Is(err, apperr.KindExternal) {
		t.Fatalf("expected external failure, got %v", err)
	}
}

func TestRunTimeout(t *testing.T) {
	script := writeScript(t, "sleep 5\n")
	runner := NewPythonRunner([]string{"sh"})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := runner.Run(ctx, script)
	if !apperr.Is(err, apperr.KindTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestRunArgumentsForwarded(t *testing.T) {
	script := writeScript(t, `echo "{\"output\": \"$1 $2\"}"`)
	runner := NewPythonRunner([]string{"sh"})

	out, err := runner.Run(context.Background(), script, "first", "second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Output != "first second" {
		t.Fatalf("arguments not forwarded: %q", decoded.Output)
	}
}
