package handler_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minsu-lee/agenda-api/internal/http/handler"
)

func writeStaticFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"index.html":           "<!doctype html><title>agenda</title>",
		"assets/index-abc.js":  "console.log('app')",
		"assets/index-abc.css": "body{}",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestStaticHandler(t *testing.T) {
	h := handler.NewStaticHandler(writeStaticFixture(t))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"root serves index", "/", http.StatusOK, "agenda"},
		{"explicit index", "/index.html", http.StatusOK, "agenda"},
		{"asset hit", "/assets/index-abc.js", http.StatusOK, "console.log"},
		{"asset miss is 404", "/assets/index-zzz.js", http.StatusNotFound, ""},
		{"unknown route falls back to index", "/some/client/route", http.StatusOK, "agenda"},
		{"traversal stays inside dir", "/../../etc/passwd", http.StatusOK, "agenda"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("expected body containing %q, got %q", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestStaticHandler_MissingIndex(t *testing.T) {
	h := handler.NewStaticHandler(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Internal Error") {
		t.Errorf("expected plain-text Internal Error body, got %q", w.Body.String())
	}
}

func TestStaticHandler_MethodNotAllowed(t *testing.T) {
	h := handler.NewStaticHandler(writeStaticFixture(t))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
