package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dungeonforge/pkg/cache"
	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/level"
	"github.com/matzehuels/dungeonforge/pkg/library"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
	"github.com/matzehuels/dungeonforge/pkg/store"
)

func door(x, y int, o geom.Orientation) geom.Doorway {
	return geom.Doorway{Position: geom.Point{X: x, Y: y}, Orientation: o}
}

func outpost() *level.Level {
	return &level.Level{
		Name: "outpost",
		Graphs: []roomgraph.Graph{*roomgraph.New("main", []roomgraph.Node{
			{ID: "gate", Category: roomgraph.Entrance, Children: []string{"passage"}},
			{ID: "passage", Category: roomgraph.Corridor, Parent: "gate", Children: []string{"hall"}},
			{ID: "hall", Category: roomgraph.Normal, Parent: "passage"},
		})},
		Templates: []library.Template{
			{ID: "gatehouse", Category: roomgraph.Entrance, Upper: geom.Point{X: 4, Y: 4},
				Doorways: []geom.Doorway{door(4, 2, geom.East)}},
			{ID: "tunnel", Category: roomgraph.CorridorEW, Upper: geom.Point{X: 5, Y: 2},
				Doorways: []geom.Doorway{door(0, 1, geom.West), door(5, 1, geom.East)}},
			{ID: "great-hall", Category: roomgraph.Normal, Upper: geom.Point{X: 6, Y: 6},
				Doorways: []geom.Doorway{door(0, 3, geom.West)}},
		},
	}
}

func newTestRunner(t *testing.T) (*Runner, *store.MemoryStore) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewMemoryStore()
	return NewRunner(fc, nil, st, nil), st
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.MaxBuildAttempts != DefaultMaxBuildAttempts {
		t.Errorf("MaxBuildAttempts = %d, want %d", opts.MaxBuildAttempts, DefaultMaxBuildAttempts)
	}
	if opts.MaxRebuildAttempts != DefaultMaxRebuildAttempts {
		t.Errorf("MaxRebuildAttempts = %d, want %d", opts.MaxRebuildAttempts, DefaultMaxRebuildAttempts)
	}
	if opts.Seed == 0 {
		t.Error("zero seed should be replaced")
	}
	if opts.Logger == nil {
		t.Error("logger should be set")
	}

	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Seed != before.Seed || opts.MaxBuildAttempts != before.MaxBuildAttempts {
		t.Error("second call changed options")
	}
}

func TestOptionsRejectsBadLimits(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative build", Options{MaxBuildAttempts: -1}},
		{"negative rebuild", Options{MaxRebuildAttempts: -2}},
		{"huge build", Options{MaxBuildAttempts: MaxAttemptsLimit + 1}},
		{"huge rebuild", Options{MaxRebuildAttempts: MaxAttemptsLimit + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestOptionsNoRebuilds(t *testing.T) {
	opts := Options{Seed: 1, MaxBuildAttempts: 4, MaxRebuildAttempts: NoRebuilds}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.MaxRebuildAttempts != NoRebuilds {
		t.Errorf("MaxRebuildAttempts = %d, want NoRebuilds", opts.MaxRebuildAttempts)
	}
	if got := opts.builderOptions().MaxAttempts(); got != 4 {
		t.Errorf("MaxAttempts() = %d, want one attempt per round", got)
	}
	if opts.LayoutKeyOpts() == (Options{Seed: 1, MaxBuildAttempts: 4}).LayoutKeyOpts() {
		t.Error("single-attempt builds should not share a cache key with default builds")
	}
}

func TestValidateGraphFormat(t *testing.T) {
	for format, ok := range map[string]bool{"dot": true, "svg": true, "png": false, "": false, "SVG": false} {
		if err := ValidateGraphFormat(format); (err == nil) != ok {
			t.Errorf("ValidateGraphFormat(%q) = %v", format, err)
		}
	}
}

func TestBuild(t *testing.T) {
	r, st := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Build(ctx, outpost(), Options{Seed: 42, Verify: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.CacheHit {
		t.Error("first build should miss the cache")
	}
	l := res.Layout
	if l.Level != "outpost" || l.Graph != "main" || l.Seed != 42 {
		t.Errorf("layout header = %s/%s/%d", l.Level, l.Graph, l.Seed)
	}
	if len(l.Rooms) != 3 || l.Rooms[0].ID != "gate" {
		t.Fatalf("rooms = %+v", l.Rooms)
	}
	if l.LevelHash != res.LevelHash || res.LevelHash == "" {
		t.Error("layout should carry the level hash")
	}
	if res.Stats.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", res.Stats.Attempts)
	}
	if _, err := st.Get(ctx, l.ID); err != nil {
		t.Errorf("layout not stored: %v", err)
	}
}

func TestBuildUsesCache(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	first, err := r.Build(ctx, outpost(), Options{Seed: 9})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Build(ctx, outpost(), Options{Seed: 9})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Fatal("identical build should hit the cache")
	}
	if second.Layout.ID != first.Layout.ID {
		t.Errorf("cached id = %s, want %s", second.Layout.ID, first.Layout.ID)
	}

	other, err := r.Build(ctx, outpost(), Options{Seed: 10})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheHit {
		t.Error("different seed should miss the cache")
	}

	refreshed, err := r.Build(ctx, outpost(), Options{Seed: 9, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestBuildSameSeedSameRooms(t *testing.T) {
	ctx := context.Background()
	a, err := NewRunner(nil, nil, nil, nil).Build(ctx, outpost(), Options{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRunner(nil, nil, nil, nil).Build(ctx, outpost(), Options{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Layout.Rooms {
		if a.Layout.Rooms[i].Bounds != b.Layout.Rooms[i].Bounds {
			t.Errorf("room %s: %v vs %v", a.Layout.Rooms[i].ID, a.Layout.Rooms[i].Bounds, b.Layout.Rooms[i].Bounds)
		}
	}
}

func TestCacheHitRestoresStore(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first, err := NewRunner(fc, nil, store.NewMemoryStore(), nil).Build(ctx, outpost(), Options{Seed: 5})
	if err != nil {
		t.Fatal(err)
	}

	fresh := store.NewMemoryStore()
	res, err := NewRunner(fc, nil, fresh, nil).Build(ctx, outpost(), Options{Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheHit {
		t.Fatal("expected cache hit")
	}
	if _, err := fresh.Get(ctx, first.Layout.ID); err != nil {
		t.Errorf("cached layout should be saved to the new store: %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	r, st := newTestRunner(t)
	ctx := context.Background()

	empty := outpost()
	empty.Graphs = nil
	if _, err := r.Build(ctx, empty, Options{Seed: 1}); !errors.Is(err, errors.ErrCodeNoGraphsAvailable) {
		t.Errorf("err = %v, want NO_GRAPHS_AVAILABLE", err)
	}

	noHall := outpost()
	noHall.Templates = noHall.Templates[:2]
	_, err := r.Build(ctx, noHall, Options{Seed: 1, MaxBuildAttempts: 2, MaxRebuildAttempts: 3})
	if !errors.Is(err, errors.ErrCodeBuildFailed) {
		t.Errorf("err = %v, want BUILD_FAILED", err)
	}

	if _, err := r.Build(ctx, outpost(), Options{MaxBuildAttempts: -5}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	if st.Len() != 0 {
		t.Errorf("failed builds stored %d layouts", st.Len())
	}
}

func TestRenderGraph(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	dot, err := r.RenderGraph(ctx, outpost(), "", FormatDOT)
	if err != nil {
		t.Fatalf("RenderGraph: %v", err)
	}
	if !strings.HasPrefix(string(dot), "digraph RoomGraph") || !strings.Contains(string(dot), `"gate" -> "passage"`) {
		t.Errorf("unexpected DOT:\n%s", dot)
	}

	if _, err := r.RenderGraph(ctx, outpost(), "missing", FormatDOT); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	if _, err := r.RenderGraph(ctx, outpost(), "main", "png"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	empty := outpost()
	empty.Graphs = nil
	if _, err := r.RenderGraph(ctx, empty, "", FormatDOT); !errors.Is(err, errors.ErrCodeNoGraphsAvailable) {
		t.Errorf("err = %v, want NO_GRAPHS_AVAILABLE", err)
	}
}

func TestRenderGraphWithoutGraphs(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	empty := &level.Level{Name: "empty"}

	for _, name := range []string{"", "main"} {
		t.Run("graph="+name, func(t *testing.T) {
			_, err := r.RenderGraph(context.Background(), empty, name, FormatDOT)
			if !errors.Is(err, errors.ErrCodeNoGraphsAvailable) {
				t.Errorf("err = %v, want NO_GRAPHS_AVAILABLE", err)
			}
		})
	}
}

func TestNewRunnerDefaultLoggerIsQuiet(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	if r.Logger == log.Default() {
		t.Error("NewRunner(nil logger) should not write to the process logger")
	}
}

func TestHashLevel(t *testing.T) {
	a, err := HashLevel(outpost())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashLevel(outpost())
	if a != b {
		t.Error("HashLevel should be deterministic")
	}
	changed := outpost()
	changed.Templates[0].Upper.X++
	if c, _ := HashLevel(changed); c == a {
		t.Error("template change should change the hash")
	}
}
