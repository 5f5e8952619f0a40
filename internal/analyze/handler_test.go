package analyze

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupAnalyzeRouter(runner *fakeRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store := &fakeStore{files: map[string]string{
		"stored.jpg": "/tmp/stored.jpg",
	}}
	service := NewService(store, runner, "ai_scripts", time.Minute)
	handler := NewHandler(service)

	r.POST("/api/analyze", handler.Analyze)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		captionScript:   `{"caption": "a fridge with vegetables"}`,
		detectionScript: `{"ingredients": ["carrot", "onion"]}`,
	}}
	router := setupAnalyzeRouter(runner)

	w := postJSON(t, router, "/api/analyze", map[string]string{"filename": "stored.jpg"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success     bool     `json:"success"`
		Caption     string   `json:"caption"`
		Ingredients []string `json:"ingredients"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Caption == "" || len(resp.Ingredients) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAnalyzeEndpointMissingFilename(t *testing.T) {
	router := setupAnalyzeRouter(&fakeRunner{})

	w := postJSON(t, router, "/api/analyze", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "No filename provided" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestAnalyzeEndpointFileNotFound(t *testing.T) {
	router := setupAnalyzeRouter(&fakeRunner{})

	w := postJSON(t, router, "/api/analyze", map[string]string{"filename": "ghost.jpg"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "Image file not found" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestAnalyzeEndpointScriptFailure(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		captionScript: errFake,
	}}
	router := setupAnalyzeRouter(runner)

	w := postJSON(t, router, "/api/analyze", map[string]string{"filename": "stored.jpg"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["details"] == nil {
		t.Fatalf("expected details field on 500 body: %v", resp)
	}
}
