package dungeon

import (
	"context"
	"errors"
	"testing"

	dferrors "github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/level"
	"github.com/matzehuels/dungeonforge/pkg/library"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

func TestGenerateInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		lvl := cryptLevel()
		g := &lvl.Graphs[0]

		b := NewBuilder(Options{Rand: NewRand(seed)})
		res, err := b.Generate(context.Background(), lvl)
		if err != nil {
			t.Fatalf("seed %d: Generate() error: %v", seed, err)
		}
		if res.Graph != "main" || len(res.Rooms) != g.Len() {
			t.Fatalf("seed %d: graph=%q rooms=%d, want main and %d", seed, res.Graph, len(res.Rooms), g.Len())
		}
		if err := CheckInvariants(res.Rooms, g); err != nil {
			t.Errorf("seed %d: %v", seed, err)
		}
		for id, r := range res.Rooms {
			if !r.Positioned {
				t.Errorf("seed %d: room %q not positioned", seed, id)
			}
		}
		if res.Rooms["in"].Bounds != res.Rooms["in"].TemplateBounds {
			t.Errorf("seed %d: entrance moved off its template origin", seed)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := NewBuilder(Options{Rand: NewRand(99)}).Generate(context.Background(), cryptLevel())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBuilder(Options{Rand: NewRand(99)}).Generate(context.Background(), cryptLevel())
	if err != nil {
		t.Fatal(err)
	}

	if a.Attempts != b.Attempts {
		t.Errorf("attempts differ: %d vs %d", a.Attempts, b.Attempts)
	}
	for id, ra := range a.Rooms {
		rb := b.Rooms[id]
		if rb == nil || ra.Bounds != rb.Bounds || ra.TemplateID != rb.TemplateID {
			t.Errorf("room %q differs: %+v vs %+v", id, ra, rb)
		}
	}
}

func TestEntranceOnlyBuildsFirstTime(t *testing.T) {
	lvl := &level.Level{
		Name: "single",
		Graphs: []roomgraph.Graph{*roomgraph.New("solo", []roomgraph.Node{
			{ID: "in", Category: roomgraph.Entrance},
		})},
		Templates: []library.Template{fourWay("gate", roomgraph.Entrance, 4)},
	}

	res, err := NewBuilder(Options{Rand: NewRand(1)}).Generate(context.Background(), lvl)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if res.Attempts != 1 || res.Rounds != 1 {
		t.Errorf("attempts=%d rounds=%d, want 1 and 1", res.Attempts, res.Rounds)
	}
	if len(res.Rooms) != 1 {
		t.Fatalf("rooms = %d, want 1", len(res.Rooms))
	}
	r := res.Rooms["in"]
	if r.Parent != "" || r.TemplateID != "gate" || !r.Positioned {
		t.Errorf("entrance room = %+v", r)
	}
}

func TestMissingCategoryExhaustsBothTiers(t *testing.T) {
	lvl := &level.Level{
		Name: "empty-hall",
		Graphs: []roomgraph.Graph{*roomgraph.New("g", []roomgraph.Node{
			{ID: "in", Category: roomgraph.Entrance, Children: []string{"r"}},
			{ID: "r", Category: roomgraph.Normal, Parent: "in"},
		})},
		Templates: []library.Template{fourWay("gate", roomgraph.Entrance, 4)},
	}

	hooks := &countingHooks{}
	released := 0
	b := NewBuilder(Options{
		MaxBuildAttempts:           3,
		MaxRebuildAttemptsForGraph: 4,
		Rand:                       NewRand(5),
		Hooks:                      hooks,
		Releaser:                   ReleaserFunc(func(*Room) { released++ }),
	})

	res, err := b.Generate(context.Background(), lvl)
	if !dferrors.Is(err, dferrors.ErrCodeBuildFailed) {
		t.Fatalf("Generate() = %v, want BUILD_FAILED", err)
	}
	if !dferrors.Terminal(err) {
		t.Error("BUILD_FAILED should be terminal")
	}
	if res.Attempts != 15 || res.Rounds != 3 {
		t.Errorf("attempts=%d rounds=%d, want 15 and 3", res.Attempts, res.Rounds)
	}
	if hooks.attempts != 15 || hooks.rounds != 3 || hooks.completes != 1 || hooks.lastErr == nil {
		t.Errorf("hooks = %+v", hooks)
	}
	// Every attempt after the first clears the entrance left by the previous one.
	if released != 14 {
		t.Errorf("released = %d, want 14", released)
	}
}

func TestPlaceAgainstParentFailsWithoutTemplates(t *testing.T) {
	lvl := &level.Level{
		Templates: []library.Template{fourWay("gate", roomgraph.Entrance, 4)},
	}
	rng := &countingRand{Rand: NewRand(1)}
	b := NewBuilder(Options{Rand: rng})
	b.lib = library.New(nil)
	if err := b.lib.Load(lvl.Templates); err != nil {
		t.Fatal(err)
	}

	gate, _ := b.lib.Template("gate")
	parent := newRoom(gate, &roomgraph.Node{ID: "in", Category: roomgraph.Entrance})
	b.rooms[parent.ID] = parent

	ok := b.placeAgainstParent(&roomgraph.Node{ID: "r", Category: roomgraph.Normal, Parent: "in"}, parent)
	if ok {
		t.Fatal("placeAgainstParent() succeeded without templates")
	}
	if rng.calls != 0 {
		t.Errorf("drew %d random numbers, want none", rng.calls)
	}
	for i, d := range parent.Doorways {
		if d.State != geom.Unconnected {
			t.Errorf("doorway %d = %s, want untouched", i, d.State)
		}
	}
}

func TestBoundedRetries(t *testing.T) {
	lvl := &level.Level{
		Name: "headless",
		Graphs: []roomgraph.Graph{
			*roomgraph.New("a", []roomgraph.Node{{ID: "r", Category: roomgraph.Normal}}),
			*roomgraph.New("b", []roomgraph.Node{{ID: "r", Category: roomgraph.Boss}}),
		},
		Templates: []library.Template{fourWay("hall", roomgraph.Normal, 4)},
	}

	hooks := &countingHooks{}
	b := NewBuilder(Options{Rand: NewRand(3), Hooks: hooks})
	res, err := b.Generate(context.Background(), lvl)

	if !dferrors.Is(err, dferrors.ErrCodeBuildFailed) {
		t.Fatalf("Generate() = %v, want BUILD_FAILED", err)
	}
	limit := DefaultMaxBuildAttempts * (DefaultMaxRebuildAttemptsForGraph + 1)
	if res.Attempts != limit || hooks.attempts != limit {
		t.Errorf("attempts = %d (hooks %d), want %d", res.Attempts, hooks.attempts, limit)
	}
	if b.Options().MaxAttempts() != limit {
		t.Errorf("MaxAttempts() = %d, want %d", b.Options().MaxAttempts(), limit)
	}
}

func TestAttemptsPerGraph(t *testing.T) {
	lvl := &level.Level{
		Name:      "headless",
		Graphs:    []roomgraph.Graph{*roomgraph.New("a", []roomgraph.Node{{ID: "r", Category: roomgraph.Normal}})},
		Templates: []library.Template{fourWay("hall", roomgraph.Normal, 4)},
	}
	tests := []struct {
		name     string
		rebuilds int
		want     int
	}{
		{"no rebuilds", NoRebuilds, 3},
		{"any negative", -7, 3},
		{"two rebuilds", 2, 9},
		{"zero selects default", 0, 3 * (DefaultMaxRebuildAttemptsForGraph + 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(Options{MaxBuildAttempts: 3, MaxRebuildAttemptsForGraph: tt.rebuilds, Rand: NewRand(1)})
			res, err := b.Generate(context.Background(), lvl)
			if !dferrors.Is(err, dferrors.ErrCodeBuildFailed) {
				t.Fatalf("Generate() = %v, want BUILD_FAILED", err)
			}
			if res.Attempts != tt.want || res.Rounds != 3 {
				t.Errorf("attempts = %d rounds = %d, want %d and 3", res.Attempts, res.Rounds, tt.want)
			}
			if b.Options().MaxAttempts() != tt.want {
				t.Errorf("MaxAttempts() = %d, want %d", b.Options().MaxAttempts(), tt.want)
			}
		})
	}
}

func TestAttemptBuildNoEntrance(t *testing.T) {
	b := NewBuilder(Options{Rand: NewRand(1)})
	g := roomgraph.New("headless", []roomgraph.Node{{ID: "r", Category: roomgraph.Normal}})

	ok, err := b.attemptBuild(g)
	if ok {
		t.Fatal("attemptBuild() succeeded without an entrance")
	}
	if !dferrors.Is(err, dferrors.ErrCodeNoEntranceNode) {
		t.Errorf("attemptBuild() error = %v, want NO_ENTRANCE_NODE", err)
	}
	if dferrors.Terminal(err) {
		t.Error("NO_ENTRANCE_NODE must not be terminal")
	}
}

func TestNoGraphsAvailable(t *testing.T) {
	hooks := &countingHooks{}
	b := NewBuilder(Options{Hooks: hooks})
	res, err := b.Generate(context.Background(), &level.Level{
		Name:      "void",
		Templates: []library.Template{fourWay("gate", roomgraph.Entrance, 4)},
	})

	if !dferrors.Is(err, dferrors.ErrCodeNoGraphsAvailable) {
		t.Fatalf("Generate() = %v, want NO_GRAPHS_AVAILABLE", err)
	}
	if res.Attempts != 0 || hooks.attempts != 0 || hooks.starts != 0 {
		t.Errorf("no attempt should run: res=%+v hooks=%+v", res, hooks)
	}
}

func TestDuplicateTemplatesDoNotStopBuild(t *testing.T) {
	lvl := &level.Level{
		Name: "dups",
		Graphs: []roomgraph.Graph{*roomgraph.New("solo", []roomgraph.Node{
			{ID: "in", Category: roomgraph.Entrance},
		})},
		Templates: []library.Template{
			fourWay("gate", roomgraph.Entrance, 4),
			fourWay("gate", roomgraph.Entrance, 9),
		},
	}

	b := NewBuilder(Options{Rand: NewRand(1)})
	res, err := b.Generate(context.Background(), lvl)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got := res.Rooms["in"].Bounds.Width(); got != 5 {
		t.Errorf("entrance width = %d, want 5 (first template wins)", got)
	}
	if b.Library().Len() != 1 {
		t.Errorf("library has %d templates, want 1", b.Library().Len())
	}
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(Options{Rand: NewRand(1)})
	res, err := b.Generate(ctx, cryptLevel())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Generate() = %v, want context.Canceled", err)
	}
	if res.Attempts != 0 || len(b.Rooms()) != 0 {
		t.Errorf("canceled build left attempts=%d rooms=%d", res.Attempts, len(b.Rooms()))
	}
}

func TestClearIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		lvl  *level.Level
	}{
		{"AfterSuccess", cryptLevel()},
		{"AfterFailure", &level.Level{
			Name: "stuck",
			Graphs: []roomgraph.Graph{*roomgraph.New("g", []roomgraph.Node{
				{ID: "in", Category: roomgraph.Entrance, Children: []string{"r"}},
				{ID: "r", Category: roomgraph.Normal, Parent: "in"},
			})},
			Templates: []library.Template{fourWay("gate", roomgraph.Entrance, 4)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			released := map[string]int{}
			b := NewBuilder(Options{
				MaxBuildAttempts:           1,
				MaxRebuildAttemptsForGraph: 1,
				Rand:                       NewRand(8),
				Releaser:                   ReleaserFunc(func(r *Room) { released[r.ID]++ }),
			})
			_, _ = b.Generate(context.Background(), tt.lvl)

			placed := b.Rooms()
			if len(placed) == 0 {
				t.Fatal("expected rooms left over from the last attempt")
			}
			clear(released)

			b.Clear()
			b.Clear()

			if len(b.Rooms()) != 0 {
				t.Errorf("Rooms() = %d after Clear, want 0", len(b.Rooms()))
			}
			for id := range placed {
				if released[id] != 1 {
					t.Errorf("room %q released %d times, want 1", id, released[id])
				}
			}
			if len(released) != len(placed) {
				t.Errorf("released %d rooms, want %d", len(released), len(placed))
			}
		})
	}
}

func TestResultSurvivesClear(t *testing.T) {
	b := NewBuilder(Options{Rand: NewRand(4)})
	res, err := b.Generate(context.Background(), cryptLevel())
	if err != nil {
		t.Fatal(err)
	}
	b.Clear()
	if len(res.Rooms) != 7 {
		t.Errorf("result rooms = %d after Clear, want 7", len(res.Rooms))
	}
}

func TestRoomsOwnTheirDoorways(t *testing.T) {
	lvl := cryptLevel()
	b := NewBuilder(Options{Rand: NewRand(11)})
	res, err := b.Generate(context.Background(), lvl)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range b.Library().IDs() {
		tmpl, _ := b.Library().Template(id)
		for i, d := range tmpl.Doorways {
			if d.State != geom.Unconnected {
				t.Errorf("template %q doorway %d = %s, want unconnected", id, i, d.State)
			}
		}
	}
	for _, tmpl := range lvl.Templates {
		for i, d := range tmpl.Doorways {
			if d.State != geom.Unconnected {
				t.Errorf("level template %q doorway %d = %s, want unconnected", tmpl.ID, i, d.State)
			}
		}
	}

	entrance := res.Rooms["in"]
	for i := range entrance.Doorways {
		entrance.Doorways[i].State = geom.Unavailable
	}
	tmpl, _ := b.Library().Template(entrance.TemplateID)
	for i, d := range tmpl.Doorways {
		if d.State != geom.Unconnected {
			t.Errorf("mutating the room changed template doorway %d to %s", i, d.State)
		}
	}
}
