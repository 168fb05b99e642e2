package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dungeonforge/pkg/cache"
	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/layout"
	"github.com/matzehuels/dungeonforge/pkg/level"
	"github.com/matzehuels/dungeonforge/pkg/observability"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
	"github.com/matzehuels/dungeonforge/pkg/store"
)

// Runner builds dungeons with caching and storage.
//
// The Runner holds no per-build state, so one Runner can serve concurrent
// builds; every build gets its own dungeon.Builder.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer, a nil store keeps layouts in memory and a nil
// logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Keyer: keyer, Store: st, Logger: logger}
}

// HashLevel returns the content hash used in cache keys for lvl.
func HashLevel(lvl *level.Level) (string, error) {
	data, err := json.Marshal(lvl)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash level %q", lvl.Name)
	}
	return cache.Hash(data), nil
}

// Build lays out lvl, serving the layout from cache when the same level was
// built with the same seed and limits before. Fresh layouts are cached and
// saved to the store.
func (r *Runner) Build(ctx context.Context, lvl *level.Level, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := HashLevel(lvl)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	res := &Result{LevelHash: hash}

	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, key); ok {
			r.Logger.Debug("layout cache hit", "level", lvl.Name, "seed", opts.Seed, "id", l.ID)
			res.Layout = l
			res.CacheHit = true
			r.ensureStored(ctx, l)
			return res, nil
		}
	}

	start := time.Now()
	b := dungeon.NewBuilder(opts.builderOptions())
	built, err := b.Generate(ctx, lvl)
	res.Stats = Stats{Attempts: built.Attempts, Rounds: built.Rounds, BuildTime: time.Since(start)}
	if err != nil {
		return res, err
	}

	g, _ := lvl.Graph(built.Graph)
	if opts.Verify {
		if err := dungeon.CheckInvariants(built.Rooms, g); err != nil {
			return res, errors.Wrap(errors.ErrCodeInternal, err, "layout for %q failed verification", lvl.Name)
		}
	}

	l := layout.FromResult(built, g, opts.Seed)
	l.LevelHash = hash
	res.Layout = l

	r.Logger.Info("built layout",
		"level", lvl.Name,
		"graph", l.Graph,
		"rooms", len(l.Rooms),
		"attempts", built.Attempts,
		"duration", res.Stats.BuildTime)

	if data, err := layout.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	if err := r.Store.Save(ctx, l); err != nil {
		return res, fmt.Errorf("save layout: %w", err)
	}
	return res, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (*layout.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	l, err := layout.Unmarshal(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return l, true
}

// ensureStored saves a cached layout the store has not seen, which happens
// when the cache outlives the store.
func (r *Runner) ensureStored(ctx context.Context, l *layout.Layout) {
	if _, err := r.Store.Get(ctx, l.ID); !stderrors.Is(err, store.ErrNotFound) {
		return
	}
	if err := r.Store.Save(ctx, l); err != nil {
		r.Logger.Warn("store write failed", "id", l.ID, "err", err)
	}
}

// RenderGraph renders the named room graph of lvl as DOT or SVG. An empty
// name selects the first graph. SVG output is cached.
func (r *Runner) RenderGraph(ctx context.Context, lvl *level.Level, name, format string) ([]byte, error) {
	if err := ValidateGraphFormat(format); err != nil {
		return nil, err
	}
	if len(lvl.Graphs) == 0 {
		return nil, errors.New(errors.ErrCodeNoGraphsAvailable, "level %q has no room graphs", lvl.Name)
	}
	g := &lvl.Graphs[0]
	if name != "" {
		var ok bool
		if g, ok = lvl.Graph(name); !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "level %q has no room graph %q", lvl.Name, name)
		}
	}

	dot := roomgraph.ToDOT(g)
	if format == FormatDOT {
		return []byte(dot), nil
	}

	hash, err := HashLevel(lvl)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.RenderKey(hash, g.Name, format)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	svg, err := roomgraph.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, svg, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(svg))
	}
	return svg, nil
}

// Close releases the cache and the store.
func (r *Runner) Close() error {
	return stderrors.Join(r.Cache.Close(), r.Store.Close())
}
