package level

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// FileName is the name of level id inside a level directory.
func FileName(id int) string {
	return fmt.Sprintf("level-%d.json", id)
}

// Handler serves the level files of one directory.
type Handler struct {
	dir string
	log logrus.FieldLogger
}

// NewHandler returns the level server's routes:
//
//	GET /health
//	GET /levels/{id}
func NewHandler(dir string, log logrus.FieldLogger) http.Handler {
	h := &Handler{dir: dir, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLog)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/levels/{id}", h.GetLevel)
	return r
}

// GetLevel handles GET /levels/{id}. The file is sent as stored once it
// decodes; a malformed file is a server error.
func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		respondError(w, http.StatusBadRequest, "invalid level id")
		return
	}
	data, err := os.ReadFile(filepath.Join(h.dir, FileName(id)))
	if errors.Is(err, fs.ErrNotExist) {
		respondError(w, http.StatusNotFound, "level not found")
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("level", id).Error("read level")
		respondError(w, http.StatusInternalServerError, "level unavailable")
		return
	}
	if _, err := Decode(bytes.NewReader(data)); err != nil {
		h.log.WithError(err).WithField("level", id).Error("bad level file")
		respondError(w, http.StatusInternalServerError, "level unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
