// Package pipeline runs dungeon builds for the CLI and the HTTP API.
//
// A [Runner] wraps [dungeon.Builder] with the pieces both entry points need:
// option defaults, a layout cache, optional invariant verification and a
// [store.Store] that keeps every finished layout addressable by id. Seeded
// builds are deterministic, so a cached layout is exactly what a rebuild
// would produce.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, store.NewMemoryStore(), logger)
//	defer runner.Close()
//
//	lvl, err := level.ReadFile("crypt.toml")
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Build(ctx, lvl, pipeline.Options{Seed: 7, Verify: true})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Layout.ID, len(res.Layout.Rooms))
package pipeline

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dungeonforge/pkg/cache"
	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/layout"
)

// =============================================================================
// Defaults shared by the CLI and the API
// =============================================================================

const (
	// DefaultMaxBuildAttempts is how many times a room graph is drawn.
	DefaultMaxBuildAttempts = dungeon.DefaultMaxBuildAttempts

	// DefaultMaxRebuildAttempts is how many retries each drawn graph gets.
	DefaultMaxRebuildAttempts = dungeon.DefaultMaxRebuildAttemptsForGraph

	// NoRebuilds gives every drawn graph a single attempt.
	NoRebuilds = dungeon.NoRebuilds

	// MaxAttemptsLimit caps either limit for API callers.
	MaxAttemptsLimit = 100_000
)

// Room graph render formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidGraphFormats is the set of supported room graph render formats.
var ValidGraphFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// ValidateGraphFormat reports whether format can be rendered.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported graph format %q (want dot or svg)", format)
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a single build.
type Options struct {
	// Seed drives every random choice. Zero draws a fresh seed, which is
	// recorded in the resulting layout.
	Seed uint64

	// MaxBuildAttempts and MaxRebuildAttempts bound the retry loops. Zero
	// selects the defaults and other negative values are rejected.
	// MaxRebuildAttempts may be NoRebuilds.
	MaxBuildAttempts   int
	MaxRebuildAttempts int

	// Verify re-checks the finished layout for overlaps and broken joins.
	Verify bool

	// Refresh skips the cache lookup. The fresh layout is still cached.
	Refresh bool

	Logger *log.Logger
}

// ValidateAndSetDefaults checks limits and fills in defaults. It is
// idempotent: a second call leaves the options unchanged.
func (o *Options) ValidateAndSetDefaults() error {
	if o.MaxBuildAttempts < 0 || o.MaxBuildAttempts > MaxAttemptsLimit {
		return errors.New(errors.ErrCodeInvalidInput,
			"max build attempts must be between 0 and %d, got %d", MaxAttemptsLimit, o.MaxBuildAttempts)
	}
	if (o.MaxRebuildAttempts < 0 && o.MaxRebuildAttempts != NoRebuilds) || o.MaxRebuildAttempts > MaxAttemptsLimit {
		return errors.New(errors.ErrCodeInvalidInput,
			"max rebuild attempts must be between 0 and %d, got %d", MaxAttemptsLimit, o.MaxRebuildAttempts)
	}
	if o.MaxBuildAttempts == 0 {
		o.MaxBuildAttempts = DefaultMaxBuildAttempts
	}
	if o.MaxRebuildAttempts == 0 {
		o.MaxRebuildAttempts = DefaultMaxRebuildAttempts
	}
	if o.Seed == 0 {
		o.Seed = rand.Uint64() | 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutKeyOpts returns the cache key options for these build options.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Seed:               o.Seed,
		MaxBuildAttempts:   o.MaxBuildAttempts,
		MaxRebuildAttempts: o.MaxRebuildAttempts,
	}
}

// builderOptions maps pipeline options onto a dungeon builder.
func (o Options) builderOptions() dungeon.Options {
	return dungeon.Options{
		MaxBuildAttempts:           o.MaxBuildAttempts,
		MaxRebuildAttemptsForGraph: o.MaxRebuildAttempts,
		Rand:                       dungeon.NewRand(o.Seed),
		Logger:                     o.Logger,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of Runner.Build.
type Result struct {
	Layout    *layout.Layout
	LevelHash string
	CacheHit  bool
	Stats     Stats
}

// Stats describes the work a build did. They are zero on a cache hit.
type Stats struct {
	Attempts  int
	Rounds    int
	BuildTime time.Duration
}
