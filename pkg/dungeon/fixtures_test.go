package dungeon

import (
	"context"
	"time"

	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/level"
	"github.com/matzehuels/dungeonforge/pkg/library"
	"github.com/matzehuels/dungeonforge/pkg/observability"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

// scriptRand replays vals in order, then keeps returning zero.
type scriptRand struct {
	vals  []int
	calls int
}

func (s *scriptRand) IntN(n int) int {
	v := 0
	if s.calls < len(s.vals) {
		v = s.vals[s.calls]
	}
	s.calls++
	return v % n
}

// countingRand wraps another Rand and counts draws.
type countingRand struct {
	Rand
	calls int
}

func (c *countingRand) IntN(n int) int {
	c.calls++
	return c.Rand.IntN(n)
}

type countingHooks struct {
	observability.NoopBuildHooks
	starts, rounds, attempts, completes int
	lastErr                             error
}

func (h *countingHooks) OnBuildStart(context.Context, string, int)            { h.starts++ }
func (h *countingHooks) OnGraphSelected(context.Context, string, string, int) { h.rounds++ }
func (h *countingHooks) OnAttempt(context.Context, string, int, bool)         { h.attempts++ }
func (h *countingHooks) OnBuildComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	h.completes++
	h.lastErr = err
}

func pt(x, y int) geom.Point { return geom.Point{X: x, Y: y} }

func door(x, y int, o geom.Orientation) geom.Doorway {
	return geom.Doorway{Position: pt(x, y), Orientation: o}
}

// fourWay is a square template with a doorway in the middle of every side.
func fourWay(id string, c roomgraph.Category, size int) library.Template {
	mid := size / 2
	return library.Template{
		ID:       id,
		Category: c,
		Upper:    pt(size, size),
		Doorways: []geom.Doorway{
			door(mid, size, geom.North),
			door(size, mid, geom.East),
			door(mid, 0, geom.South),
			door(0, mid, geom.West),
		},
		SpawnPositions: []geom.Point{pt(mid, mid)},
	}
}

func corridorTemplates() []library.Template {
	return []library.Template{
		{ID: "ns", Category: roomgraph.CorridorNS, Upper: pt(2, 5),
			Doorways: []geom.Doorway{door(1, 5, geom.North), door(1, 0, geom.South)}},
		{ID: "ew", Category: roomgraph.CorridorEW, Upper: pt(5, 2),
			Doorways: []geom.Doorway{door(5, 1, geom.East), door(0, 1, geom.West)}},
	}
}

// cryptLevel is a solvable level with a branching graph.
func cryptLevel() *level.Level {
	templates := []library.Template{
		fourWay("gate", roomgraph.Entrance, 6),
		fourWay("hall", roomgraph.Normal, 6),
		fourWay("lair", roomgraph.Boss, 8),
	}
	templates = append(templates, corridorTemplates()...)

	return &level.Level{
		Name: "crypt",
		Graphs: []roomgraph.Graph{*roomgraph.New("main", []roomgraph.Node{
			{ID: "in", Category: roomgraph.Entrance, Children: []string{"c1", "c2"}},
			{ID: "c1", Category: roomgraph.Corridor, Parent: "in", Children: []string{"hall"}},
			{ID: "c2", Category: roomgraph.Corridor, Parent: "in", Children: []string{"vault"}},
			{ID: "hall", Category: roomgraph.Normal, Parent: "c1", Children: []string{"c3"}},
			{ID: "vault", Category: roomgraph.Normal, Parent: "c2"},
			{ID: "c3", Category: roomgraph.Corridor, Parent: "hall", Children: []string{"boss"}},
			{ID: "boss", Category: roomgraph.Boss, Parent: "c3"},
		})},
		Templates: templates,
	}
}
