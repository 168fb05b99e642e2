package dungeon

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dungeonforge/pkg/observability"
)

const (
	// DefaultMaxBuildAttempts is how many times a build picks a room graph.
	DefaultMaxBuildAttempts = 10

	// DefaultMaxRebuildAttemptsForGraph is how many extra attempts a picked
	// graph gets after its first one fails.
	DefaultMaxRebuildAttemptsForGraph = 1000

	// NoRebuilds sets MaxRebuildAttemptsForGraph so that every picked graph
	// gets exactly one attempt. Zero cannot say this; it selects the default.
	NoRebuilds = -1
)

// Rand is the source of randomness for a build. *math/rand/v2.Rand
// satisfies it; tests substitute scripted sequences.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a seeded PCG generator.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Releaser frees whatever an external collaborator attached to a room.
// It is called for every room dropped by [Builder.Clear].
type Releaser interface {
	Release(r *Room)
}

// ReleaserFunc adapts a function to [Releaser].
type ReleaserFunc func(r *Room)

// Release calls f(r).
func (f ReleaserFunc) Release(r *Room) { f(r) }

// Options configures a [Builder]. Zero values select defaults.
type Options struct {
	// MaxBuildAttempts bounds how many times a room graph is picked.
	MaxBuildAttempts int

	// MaxRebuildAttemptsForGraph bounds the retries for one picked graph.
	// Each graph gets this many plus one attempts. Any negative value
	// behaves like NoRebuilds.
	MaxRebuildAttemptsForGraph int

	Rand     Rand
	Logger   *log.Logger
	Releaser Releaser
	Hooks    observability.BuildHooks
}

// SetDefaults fills zero fields. A nil Rand is seeded from the clock, so
// set one explicitly for reproducible layouts.
func (o *Options) SetDefaults() {
	if o.MaxBuildAttempts <= 0 {
		o.MaxBuildAttempts = DefaultMaxBuildAttempts
	}
	if o.MaxRebuildAttemptsForGraph == 0 {
		o.MaxRebuildAttemptsForGraph = DefaultMaxRebuildAttemptsForGraph
	}
	if o.Rand == nil {
		o.Rand = NewRand(uint64(time.Now().UnixNano()))
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Hooks == nil {
		o.Hooks = observability.Build()
	}
}

// GraphAttempts returns how many attempts one picked graph gets.
func (o Options) GraphAttempts() int {
	return max(o.MaxRebuildAttemptsForGraph, 0) + 1
}

// MaxAttempts returns the most placement attempts a build can make.
func (o Options) MaxAttempts() int {
	return o.MaxBuildAttempts * o.GraphAttempts()
}
