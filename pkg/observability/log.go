package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failed builds and
// saves are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or log.Default() when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

// Install registers h for builds, cache and store events.
func (h *LogHooks) Install() {
	SetBuildHooks(h)
	SetCacheHooks(h)
	SetStoreHooks(h)
}

func (h *LogHooks) OnBuildStart(_ context.Context, level string, graphs int) {
	h.logger.Debug("build start", "level", level, "graphs", graphs)
}

func (h *LogHooks) OnGraphSelected(_ context.Context, level, graph string, round int) {
	h.logger.Debug("graph selected", "level", level, "graph", graph, "round", round)
}

func (h *LogHooks) OnAttempt(_ context.Context, graph string, attempt int, ok bool) {
	h.logger.Debug("attempt", "graph", graph, "n", attempt, "ok", ok)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, level string, attempts int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("build failed", "level", level, "attempts", attempts, "took", d, "err", err)
		return
	}
	h.logger.Debug("build done", "level", level, "attempts", attempts, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnSave(_ context.Context, backend, level string, rooms int, err error) {
	if err != nil {
		h.logger.Warn("save failed", "backend", backend, "level", level, "err", err)
		return
	}
	h.logger.Debug("saved", "backend", backend, "level", level, "rooms", rooms)
}

func (h *LogHooks) OnLoad(_ context.Context, backend, id string, found bool) {
	h.logger.Debug("load", "backend", backend, "id", id, "found", found)
}

var (
	_ BuildHooks = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ StoreHooks = (*LogHooks)(nil)
)
