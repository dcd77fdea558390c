package server

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "index.html", "text/html")
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	s.serveFile(w, r, name, contentType(name))
}

// contentType derives the response type from the file extension.
func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".css"):
		return "text/css"
	case strings.HasSuffix(name, ".js"):
		return "application/javascript"
	case strings.HasSuffix(name, ".html"):
		return "text/html"
	default:
		return "text/plain"
	}
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, name, ctype string) {
	if name == "" || strings.Contains(name, "..") || strings.Contains(name, "\\") {
		s.handleNotFound(w, r)
		return
	}
	path := filepath.Join(s.cfg.StaticDir, filepath.FromSlash(name))

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		s.handleNotFound(w, r)
		return
	}
	var content []byte
	if err == nil {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "error serving file", "file", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
