package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/layout"
	"github.com/matzehuels/dungeonforge/pkg/level"
	"github.com/matzehuels/dungeonforge/pkg/pipeline"
	"github.com/matzehuels/dungeonforge/pkg/store"
)

// BuildResponse is returned by POST /v1/dungeons.
type BuildResponse struct {
	Layout    *layout.Layout `json:"layout"`
	LevelHash string         `json:"level_hash"`
	CacheHit  bool           `json:"cache_hit"`
	Attempts  int            `json:"attempts"`
	Rounds    int            `json:"rounds"`
	BuildMS   int64          `json:"build_ms"`
}

// LayoutSummary is one entry of GET /v1/dungeons.
type LayoutSummary struct {
	ID        string `json:"id"`
	Level     string `json:"level"`
	Graph     string `json:"graph"`
	Seed      uint64 `json:"seed"`
	Rooms     int    `json:"rooms"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	lvl, err := readLevel(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := buildOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	res, err := s.runner.Build(r.Context(), lvl, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/dungeons/"+res.Layout.ID)
	writeJSON(w, http.StatusCreated, BuildResponse{
		Layout:    res.Layout,
		LevelHash: res.LevelHash,
		CacheHit:  res.CacheHit,
		Attempts:  res.Stats.Attempts,
		Rounds:    res.Stats.Rounds,
		BuildMS:   res.Stats.BuildTime.Milliseconds(),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	l, err := s.runner.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	layouts, err := s.runner.Store.List(r.Context(), r.URL.Query().Get("level"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]LayoutSummary, 0, len(layouts))
	for _, l := range layouts {
		out = append(out, LayoutSummary{
			ID:        l.ID,
			Level:     l.Level,
			Graph:     l.Graph,
			Seed:      l.Seed,
			Rooms:     len(l.Rooms),
			CreatedAt: l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	lvl, err := readLevel(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := lvl.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":     true,
		"level":     lvl.Name,
		"graphs":    len(lvl.Graphs),
		"templates": len(lvl.Templates),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	lvl, err := readLevel(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	data, err := s.runner.RenderGraph(r.Context(), lvl, r.URL.Query().Get("graph"), format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if format == pipeline.FormatSVG {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Request decoding
// =============================================================================

// readLevel decodes the request body as a level descriptor. JSON content
// types select JSON; anything else is read as TOML.
func readLevel(w http.ResponseWriter, r *http.Request) (*level.Level, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "level descriptor exceeds %d bytes", MaxBodyBytes)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}

	format := level.FormatTOML
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "application/json" {
		format = level.FormatJSON
	}
	lvl, err := level.Parse(data, format)
	if err != nil {
		return nil, err
	}
	if lvl.Name == "" {
		lvl.Name = "untitled"
	}
	return lvl, nil
}

// buildOptions reads build options from the query string:
// seed, max_attempts, max_graph_attempts, verify, refresh.
func buildOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid seed %q", v)
		}
		opts.Seed = seed
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"max_attempts", &opts.MaxBuildAttempts},
		{"max_graph_attempts", &opts.MaxRebuildAttempts},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", p.name, v)
		}
		if n < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must not be negative, got %d", p.name, n)
		}
		*p.dst = n
	}
	// An explicit zero means one attempt per graph, not the default.
	if q.Get("max_graph_attempts") != "" && opts.MaxRebuildAttempts == 0 {
		opts.MaxRebuildAttempts = pipeline.NoRebuilds
	}
	opts.Verify = q.Get("verify") == "true"
	opts.Refresh = q.Get("refresh") == "true"
	return opts, opts.ValidateAndSetDefaults()
}

// =============================================================================
// Responses
// =============================================================================

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	switch errors.KindOf(err) {
	case errors.KindInput:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindBuild:
		return http.StatusUnprocessableEntity
	case errors.KindUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	var body ErrorBody
	code := errors.GetCode(err)
	body.Error.Code = string(code)
	body.Error.Message = strings.TrimPrefix(err.Error(), string(code)+": ")
	if stderrors.Is(err, store.ErrNotFound) {
		body.Error.Code = string(errors.ErrCodeNotFound)
	}
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		body.Error.Message = "internal error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
