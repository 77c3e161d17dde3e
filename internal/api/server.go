package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/grabtube/grabtube/internal/model"
	"github.com/grabtube/grabtube/internal/store"
)

// maxRequestBody is the maximum allowed request body size (1 MB).
const maxRequestBody int64 = 1 << 20

// Submitter runs one download job to completion.
type Submitter interface {
	Submit(ctx context.Context, url, kind, quality string) (*model.Job, error)
}

// FileStore is the slice of the artifact store the API serves from.
type FileStore interface {
	store.Lister
	store.Opener
	store.Deleter
}

// Server holds the HTTP handlers and dependencies.
type Server struct {
	manager Submitter
	files   FileStore
	mux     *http.ServeMux
}

// New creates a new API server.
func New(manager Submitter, files FileStore) *Server {
	srv := &Server{manager: manager, files: files, mux: http.NewServeMux()}
	srv.routes()
	return srv
}

// Handler returns the root http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return recoverPanic(requestLog(limitBody(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /download", s.handleDownload)
	s.mux.HandleFunc("GET /files", s.handleListFiles)
	s.mux.HandleFunc("GET /file/{filename}", s.handleGetFile)
	s.mux.HandleFunc("DELETE /delete/{filename}", s.handleDeleteFile)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// requestLog tags each request with an ID and writes one access line.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		w.Header().Set("X-Request-ID", reqID)
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}

// limitBody restricts the request body to maxRequestBody bytes.
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		next.ServeHTTP(w, r)
	})
}

// recoverPanic turns a handler panic into a plain 500 instead of a
// dropped connection. The panic value is logged, never surfaced.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("handler panic", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeClassified renders a taxonomy error with its mapped status and
// user-safe message.
func writeClassified(w http.ResponseWriter, err error) {
	kind := model.ErrorKindOf(err)
	writeError(w, kind.HTTPStatus(), model.UserMessage(err))
}
