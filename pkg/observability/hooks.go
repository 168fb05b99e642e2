// Package observability lets a process watch builds, cache traffic and
// layout storage without the libraries knowing who is listening.
//
// Three hook sets exist: [BuildHooks] for the builder's retry loop,
// [CacheHooks] for pipeline cache lookups and [StoreHooks] for layout
// persistence. Each starts as a no-op and can be replaced once at startup:
//
//	observability.SetBuildHooks(observability.NewLogHooks(logger))
//
// [LogHooks] implements all three on top of charmbracelet/log; metrics
// backends plug in the same way.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Hook Sets
// =============================================================================

// BuildHooks receives events from the dungeon build loop.
type BuildHooks interface {
	// OnBuildStart fires once per build, after templates are loaded.
	OnBuildStart(ctx context.Context, level string, graphs int)

	// OnGraphSelected fires every time a room graph is drawn, round counting
	// from 1.
	OnGraphSelected(ctx context.Context, level, graph string, round int)

	// OnAttempt fires after every placement attempt on graph.
	OnAttempt(ctx context.Context, graph string, attempt int, ok bool)

	// OnBuildComplete fires once per build. err is nil on success.
	OnBuildComplete(ctx context.Context, level string, attempts int, duration time.Duration, err error)
}

// CacheHooks receives pipeline cache events. keyType is "layout" or
// "render".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// StoreHooks receives layout store events. backend names the store
// ("memory", "mongo").
type StoreHooks interface {
	OnSave(ctx context.Context, backend, level string, rooms int, err error)
	OnLoad(ctx context.Context, backend, id string, found bool)
}

// NoopBuildHooks ignores every build event.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnBuildStart(context.Context, string, int)                          {}
func (NoopBuildHooks) OnGraphSelected(context.Context, string, string, int)               {}
func (NoopBuildHooks) OnAttempt(context.Context, string, int, bool)                       {}
func (NoopBuildHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks ignores every store event.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, string, int, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, string, bool)       {}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	mu    sync.RWMutex
	build BuildHooks
	cache CacheHooks
	store StoreHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{build: NoopBuildHooks{}, cache: NoopCacheHooks{}, store: NoopStoreHooks{}}
}

// SetBuildHooks replaces the build hooks. nil is ignored.
func SetBuildHooks(h BuildHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.build = h
	hooks.mu.Unlock()
}

// SetCacheHooks replaces the cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetStoreHooks replaces the store hooks. nil is ignored.
func SetStoreHooks(h StoreHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.store = h
	hooks.mu.Unlock()
}

// Build returns the current build hooks.
func Build() BuildHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.build
}

// Cache returns the current cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// Store returns the current store hooks.
func Store() StoreHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.store
}

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	hooks.build, hooks.cache, hooks.store = fresh.build, fresh.cache, fresh.store
	hooks.mu.Unlock()
}
