package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// StaticHandler serves the single-page app bundle. A request that doesn't
// match a file falls back to index.html so client-side routes resolve, except
// under /assets/ where a miss is a real 404 (a stale hashed bundle reference
// must not be answered with HTML).
type StaticHandler struct {
	dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	urlPath := path.Clean("/" + r.URL.Path)
	if urlPath == "/" {
		urlPath = "/index.html"
	}

	name := filepath.Join(h.dir, filepath.FromSlash(urlPath))
	if h.serveFile(w, r, name) {
		return
	}

	if strings.HasPrefix(urlPath, "/assets/") {
		http.NotFound(w, r)
		return
	}

	if h.serveFile(w, r, filepath.Join(h.dir, "index.html")) {
		return
	}

	slog.Error("static: index.html not servable", "dir", h.dir)
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte("Internal Error"))
}

// serveFile serves name if it exists as a regular file. Returns false when
// the file is missing or is a directory.
func (h *StaticHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Error("static: open failed", "path", name, "error", err)
		}
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
