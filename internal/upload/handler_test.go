package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupUploadRouter(store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	service := NewService(store)
	handler := NewHandler(service)

	r.POST("/api/upload", handler.Upload)
	return r
}

func multipartBody(t *testing.T, field, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return body, mw.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	store := newMemStore()
	router := setupUploadRouter(store)

	body, contentType := multipartBody(t, "image", "fridge.jpg", "image/jpeg", []byte("jpeg bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success      bool   `json:"success"`
		Filename     string `json:"filename"`
		OriginalName string `json:"originalName"`
		Size         int64  `json:"size"`
		Path         string `json:"path"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if resp.Filename == "" || resp.Path == "" {
		t.Fatalf("incomplete response: %+v", resp)
	}
	if resp.OriginalName != "fridge.jpg" {
		t.Fatalf("unexpected originalName: %s", resp.OriginalName)
	}
	if resp.Size != int64(len("jpeg bytes")) {
		t.Fatalf("unexpected size: %d", resp.Size)
	}
}

func TestUploadEndpointMissingFile(t *testing.T) {
	router := setupUploadRouter(newMemStore())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString(""))
	req.Header.Set("Content-Type", "multipart/form-data")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "No image file uploaded" {
		t.Fatalf("unexpected error body: %v", resp)
	}
}

func TestUploadEndpointWrongType(t *testing.T) {
	store := newMemStore()
	router := setupUploadRouter(store)

	body, contentType := multipartBody(t, "image", "notes.txt", "text/plain", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(store.files) != 0 {
		t.Fatal("rejected upload must not be persisted")
	}
}
