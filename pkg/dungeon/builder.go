package dungeon

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/level"
	"github.com/matzehuels/dungeonforge/pkg/library"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

// Result describes a finished build.
type Result struct {
	Level string
	Graph string
	Rooms map[string]*Room

	// Attempts counts placement attempts across all rounds.
	Attempts int
	// Rounds counts how many times a room graph was picked.
	Rounds   int
	Duration time.Duration
}

// Builder lays out levels. It owns the template library of the level being
// built and the rooms of the current attempt.
type Builder struct {
	opts   Options
	rng    Rand
	logger *log.Logger
	lib    *library.Library
	rooms  map[string]*Room
}

// NewBuilder creates a builder. See [Options.SetDefaults] for defaults.
func NewBuilder(opts Options) *Builder {
	opts.SetDefaults()
	return &Builder{
		opts:   opts,
		rng:    opts.Rand,
		logger: opts.Logger,
		lib:    library.New(opts.Logger),
		rooms:  make(map[string]*Room),
	}
}

// Options returns the effective options.
func (b *Builder) Options() Options { return b.opts }

// Library returns the templates loaded by the last call to Generate.
func (b *Builder) Library() *library.Library { return b.lib }

// Generate lays out lvl.
//
// It loads the level's templates (duplicate ids are logged and skipped),
// then picks a random room graph up to MaxBuildAttempts times, giving each
// pick up to MaxRebuildAttemptsForGraph+1 attempts. The first successful
// attempt wins. A level without graphs fails immediately with
// NO_GRAPHS_AVAILABLE; running out of attempts fails with BUILD_FAILED.
//
// The context is checked between attempts only.
func (b *Builder) Generate(ctx context.Context, lvl *level.Level) (Result, error) {
	start := time.Now()
	res := Result{Level: lvl.Name}
	hooks := b.opts.Hooks

	b.Clear()
	b.lib = library.New(b.logger)
	_ = b.lib.Load(lvl.Templates)

	if len(lvl.Graphs) == 0 {
		err := errors.New(errors.ErrCodeNoGraphsAvailable, "level %q has no room graphs", lvl.Name)
		hooks.OnBuildComplete(ctx, lvl.Name, 0, time.Since(start), err)
		return res, err
	}

	hooks.OnBuildStart(ctx, lvl.Name, len(lvl.Graphs))
	b.logger.Debug("building level",
		"level", lvl.Name,
		"graphs", len(lvl.Graphs),
		"templates", b.lib.Len(),
		"max_attempts", b.opts.MaxAttempts())

	for round := 1; round <= b.opts.MaxBuildAttempts; round++ {
		g := &lvl.Graphs[b.rng.IntN(len(lvl.Graphs))]
		res.Rounds = round
		hooks.OnGraphSelected(ctx, lvl.Name, g.Name, round)

		for try := 0; try < b.opts.GraphAttempts(); try++ {
			if err := ctx.Err(); err != nil {
				b.Clear()
				res.Duration = time.Since(start)
				hooks.OnBuildComplete(ctx, lvl.Name, res.Attempts, res.Duration, err)
				return res, err
			}

			b.Clear()
			res.Attempts++
			ok, err := b.attemptBuild(g)
			hooks.OnAttempt(ctx, g.Name, res.Attempts, ok)
			if err != nil {
				b.logger.Debug("attempt failed", "graph", g.Name, "attempt", res.Attempts, "err", err)
			}
			if !ok {
				continue
			}

			res.Graph = g.Name
			res.Rooms = b.Rooms()
			res.Duration = time.Since(start)
			b.logger.Info("dungeon built",
				"level", lvl.Name,
				"graph", g.Name,
				"rooms", len(res.Rooms),
				"attempts", res.Attempts,
				"duration", res.Duration)
			hooks.OnBuildComplete(ctx, lvl.Name, res.Attempts, res.Duration, nil)
			return res, nil
		}

		b.logger.Debug("giving up on room graph",
			"graph", g.Name,
			"round", round,
			"attempts", b.opts.GraphAttempts())
	}

	res.Duration = time.Since(start)
	err := errors.New(errors.ErrCodeBuildFailed,
		"no layout found for level %q after %d attempts over %d rounds",
		lvl.Name, res.Attempts, res.Rounds)
	b.logger.Warn("dungeon build failed", "level", lvl.Name, "attempts", res.Attempts)
	hooks.OnBuildComplete(ctx, lvl.Name, res.Attempts, res.Duration, err)
	return res, err
}

// attemptBuild makes one breadth-first pass over g. It reports false as soon
// as a node cannot be placed, leaving the partial layout for the caller to
// clear. A graph without an entrance fails with NO_ENTRANCE_NODE.
func (b *Builder) attemptBuild(g *roomgraph.Graph) (bool, error) {
	entrance, ok := g.Entrance()
	if !ok {
		return false, errors.New(errors.ErrCodeNoEntranceNode, "graph %q has no entrance node", g.Name)
	}

	queued := mapset.New[string]()
	pending := queue.New[*roomgraph.Node]()
	pending.Enqueue(entrance)
	queued.Put(entrance.ID)

	for !pending.Empty() {
		n := pending.Dequeue()
		for _, c := range g.Children(n.ID) {
			if !queued.Has(c.ID) {
				queued.Put(c.ID)
				pending.Enqueue(c)
			}
		}

		if n.ID == entrance.ID {
			t, ok := b.lib.RandomFor(b.rng, roomgraph.Entrance)
			if !ok {
				return false, fmt.Errorf("no %s template", roomgraph.Entrance)
			}
			room := newRoom(t, n)
			room.Parent = ""
			room.Positioned = true
			b.rooms[room.ID] = room
			continue
		}

		parent, ok := b.rooms[n.Parent]
		if !ok {
			return false, fmt.Errorf("node %q: parent %q is not placed", n.ID, n.Parent)
		}
		if !b.placeAgainstParent(n, parent) {
			return false, nil
		}
	}
	return true, nil
}

// Clear drops every placed room, handing each to the Releaser. Calling it
// on an empty builder does nothing.
func (b *Builder) Clear() {
	if len(b.rooms) == 0 {
		return
	}
	if b.opts.Releaser != nil {
		for _, r := range b.rooms {
			b.opts.Releaser.Release(r)
		}
	}
	b.rooms = make(map[string]*Room)
}

// Rooms returns a snapshot of the rooms placed so far, keyed by node id.
func (b *Builder) Rooms() map[string]*Room {
	return maps.Clone(b.rooms)
}
