// Package api serves dungeon builds over HTTP.
//
// Routes:
//
//	POST /v1/dungeons             build a layout from a level descriptor
//	GET  /v1/dungeons             list stored layouts (?level=name)
//	GET  /v1/dungeons/{id}        fetch a stored layout
//	POST /v1/levels/validate      check a level descriptor
//	POST /v1/levels/graph         render a room graph (?graph=name&format=svg)
//	GET  /healthz                 liveness
//
// Level descriptors are sent as the request body, TOML by default or JSON
// when the Content-Type says so.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dungeonforge/pkg/buildinfo"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
)

const (
	// MaxBodyBytes caps the size of an uploaded level descriptor.
	MaxBodyBytes = 1 << 20

	// RequestTimeout bounds a single request, build included.
	RequestTimeout = 60 * time.Second
)

// Server exposes a pipeline.Runner over HTTP.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server. A nil logger logs to log.Default().
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/dungeons", func(r chi.Router) {
			r.Post("/", s.handleBuild)
			r.Get("/", s.handleList)
			r.Get("/{id}", s.handleGet)
		})
		r.Route("/levels", func(r chi.Router) {
			r.Post("/validate", s.handleValidate)
			r.Post("/graph", s.handleGraph)
		})
	})
	return r
}

// logRequests logs one line per request at info, server errors at error.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request", fields...)
		} else {
			s.logger.Info("request", fields...)
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}
