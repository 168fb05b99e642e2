package tilemap

import (
	"testing"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

func pt(x, y int) geom.Point { return geom.Point{X: x, Y: y} }

func box(x0, y0, x1, y1 int) geom.Bounds {
	return geom.Bounds{Lower: pt(x0, y0), Upper: pt(x1, y1)}
}

func TestLayerBasics(t *testing.T) {
	l := NewLayer("test")
	if _, ok := l.Bounds(); ok {
		t.Error("empty layer should have no bounds")
	}
	if l.String() != "" {
		t.Errorf("empty layer String() = %q", l.String())
	}

	l.Set(pt(0, 0), Tile{ID: TileWall})
	l.Set(pt(2, 1), Tile{ID: TileFloor, Transform: 3})
	l.Set(pt(-1, 1), Tile{ID: "lava"})

	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
	if b, _ := l.Bounds(); b != box(-1, 0, 2, 1) {
		t.Errorf("Bounds() = %s", b)
	}
	if tile, ok := l.Get(pt(2, 1)); !ok || tile.Transform != 3 {
		t.Errorf("Get() = %+v, %v", tile, ok)
	}

	want := "l  .\n" + " #\n"
	if got := l.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}

	l.Set(pt(0, 0), Tile{})
	if _, ok := l.Get(pt(0, 0)); ok {
		t.Error("setting an empty tile should clear the cell")
	}
}

func TestZeroLayer(t *testing.T) {
	var l Layer
	if _, ok := l.Get(pt(0, 0)); ok {
		t.Error("zero layer should be empty")
	}
	l.Set(pt(0, 0), Tile{})
	l.Set(pt(3, 2), Tile{ID: TileDoor})
	if tile, ok := l.Get(pt(3, 2)); !ok || tile.ID != TileDoor {
		t.Errorf("Get() = %+v, %v", tile, ok)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestPoints(t *testing.T) {
	l := NewLayer("p")
	for _, p := range []geom.Point{pt(1, 1), pt(0, 1), pt(5, 0)} {
		l.Set(p, Tile{ID: TileWall})
	}
	got := l.Points()
	want := []geom.Point{pt(5, 0), pt(0, 1), pt(1, 1)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Points() = %v, want %v", got, want)
		}
	}
}

func TestBlockUnusedDoorways(t *testing.T) {
	tests := []struct {
		name  string
		door  geom.Doorway
		src   map[geom.Point]Tile
		check map[geom.Point]string
	}{
		{
			name: "NorthCopiesRight",
			door: geom.Doorway{Orientation: geom.North, CopyStart: pt(1, 5), CopyWidth: 2, CopyHeight: 2},
			src: map[geom.Point]Tile{
				pt(1, 5): {ID: TileWall, Transform: 1},
				pt(1, 4): {ID: TileWall},
			},
			// (1,5) smears to (2,5) then (3,5); same for row 4.
			check: map[geom.Point]string{
				pt(2, 5): TileWall, pt(3, 5): TileWall,
				pt(2, 4): TileWall, pt(3, 4): TileWall,
			},
		},
		{
			name: "EastCopiesDown",
			door: geom.Doorway{Orientation: geom.East, CopyStart: pt(6, 4), CopyWidth: 1, CopyHeight: 2},
			src: map[geom.Point]Tile{
				pt(6, 4): {ID: TileWall},
			},
			check: map[geom.Point]string{
				pt(6, 3): TileWall, pt(6, 2): TileWall,
			},
		},
		{
			name: "EmptyRegionDoesNothing",
			door: geom.Doorway{Orientation: geom.West, CopyStart: pt(0, 2)},
			src: map[geom.Point]Tile{
				pt(0, 2): {ID: TileWall},
				pt(0, 1): {ID: TileFloor},
			},
			check: map[geom.Point]string{pt(0, 1): TileFloor},
		},
		{
			name: "ConnectedIsLeftOpen",
			door: geom.Doorway{Orientation: geom.South, State: geom.Connected, CopyStart: pt(2, 0), CopyWidth: 1, CopyHeight: 1},
			src: map[geom.Point]Tile{
				pt(2, 0): {ID: TileWall},
				pt(3, 0): {ID: TileDoor},
			},
			check: map[geom.Point]string{pt(3, 0): TileDoor},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walls, decor := NewLayer("walls"), NewLayer("decor")
			for p, tile := range tt.src {
				walls.Set(p, tile)
				decor.Set(p, tile)
			}
			room := &dungeon.Room{ID: "r", Doorways: []geom.Doorway{tt.door}}

			BlockUnusedDoorways(room, walls, nil, decor)

			for _, l := range []*Layer{walls, decor} {
				for p, want := range tt.check {
					if got, _ := l.Get(p); got.ID != want {
						t.Errorf("%s %s = %q, want %q", l.Name, p, got.ID, want)
					}
				}
			}
		})
	}
}

func TestBlockCarriesTransform(t *testing.T) {
	l := NewLayer("walls")
	l.Set(pt(0, 0), Tile{ID: TileWall, Transform: 7})
	room := &dungeon.Room{Doorways: []geom.Doorway{
		{Orientation: geom.South, State: geom.Unavailable, CopyStart: pt(0, 0), CopyWidth: 1, CopyHeight: 1},
	}}

	BlockUnusedDoorways(room, l)

	if got, _ := l.Get(pt(1, 0)); got.Transform != 7 {
		t.Errorf("copied tile transform = %d, want 7", got.Transform)
	}
}

func TestRoomLayerAndStamp(t *testing.T) {
	tmpl := box(0, 0, 4, 2)
	rooms := map[string]*dungeon.Room{
		"a": {
			ID: "a", Category: roomgraph.Entrance,
			Bounds: tmpl, TemplateBounds: tmpl,
			Doorways: []geom.Doorway{
				{Position: pt(4, 1), Orientation: geom.East, State: geom.Connected},
				{Position: pt(2, 2), Orientation: geom.North, CopyStart: pt(1, 2), CopyWidth: 1, CopyHeight: 1},
			},
			SpawnPositions: []geom.Point{pt(1, 1)},
		},
		"b": {
			ID: "b", Category: roomgraph.Normal, Parent: "a",
			Bounds: box(5, 0, 7, 2), TemplateBounds: box(0, 0, 2, 2),
			Doorways: []geom.Doorway{
				{Position: pt(0, 1), Orientation: geom.West, State: geom.Connected},
			},
		},
	}

	local := RoomLayer(rooms["a"])
	if got, _ := local.Get(pt(2, 2)); got.ID != TileFloor {
		t.Errorf("unsealed doorway = %q, want open floor", got.ID)
	}

	world := Stamp(rooms)
	want := "" +
		"########\n" +
		"#*..++.#\n" +
		"########\n"
	if got := world.String(); got != want {
		t.Errorf("Stamp() =\n%s\nwant\n%s", got, want)
	}

	if got, _ := world.Get(pt(2, 2)); got.ID != TileWall {
		t.Errorf("north doorway should be sealed, got %q", got.ID)
	}
	if got, _ := world.Get(pt(4, 1)); got.ID != TileDoor {
		t.Errorf("east doorway of a = %q, want door", got.ID)
	}
	if got, _ := world.Get(pt(5, 1)); got.ID != TileDoor {
		t.Errorf("west doorway of b = %q, want door", got.ID)
	}
	if got, _ := world.Get(pt(1, 1)); got.ID != TileSpawn {
		t.Errorf("spawn = %q", got.ID)
	}
}
