package tilemap

import (
	"slices"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/geom"
)

// BlockUnusedDoorways seals every doorway of r that is not connected, on
// each of the given template-local layers. Nil layers are skipped.
//
// A doorway's copy region starts at CopyStart and extends CopyWidth cells
// right and CopyHeight cells down. North and south doorways copy each cell of
// the region one column to the right; east and west doorways copy it one row
// down. Cells are copied in order, so a one-cell-wide region smears its
// first column (or row) across the gap. Tile transforms travel with the tiles.
func BlockUnusedDoorways(r *dungeon.Room, layers ...*Layer) {
	for _, d := range r.Doorways {
		if d.State == geom.Connected {
			continue
		}
		for _, l := range layers {
			if l != nil {
				blockDoorway(l, d)
			}
		}
	}
}

func blockDoorway(l *Layer, d geom.Doorway) {
	start := d.CopyStart
	switch d.Orientation.Family() {
	case geom.FamilyNorthSouth:
		for x := range d.CopyWidth {
			for y := range d.CopyHeight {
				src := geom.Point{X: start.X + x, Y: start.Y - y}
				copyTile(l, src, geom.Point{X: src.X + 1, Y: src.Y})
			}
		}
	case geom.FamilyEastWest:
		for y := range d.CopyHeight {
			for x := range d.CopyWidth {
				src := geom.Point{X: start.X + x, Y: start.Y - y}
				copyTile(l, src, geom.Point{X: src.X, Y: src.Y - 1})
			}
		}
	}
}

func copyTile(l *Layer, from, to geom.Point) {
	t, _ := l.Get(from)
	l.Set(to, t)
}

// RoomLayer draws r in template-local space: walls around the edge, floor
// inside, spawn markers, and doorways. Connected doorways become doors;
// the rest are left open as floor for [BlockUnusedDoorways] to seal.
func RoomLayer(r *dungeon.Room) *Layer {
	l := NewLayer(r.ID)
	b := r.TemplateBounds
	for y := b.Lower.Y; y <= b.Upper.Y; y++ {
		for x := b.Lower.X; x <= b.Upper.X; x++ {
			id := TileFloor
			if x == b.Lower.X || x == b.Upper.X || y == b.Lower.Y || y == b.Upper.Y {
				id = TileWall
			}
			l.Set(geom.Point{X: x, Y: y}, Tile{ID: id})
		}
	}
	for _, p := range r.SpawnPositions {
		l.Set(p, Tile{ID: TileSpawn})
	}
	for _, d := range r.Doorways {
		id := TileFloor
		if d.State == geom.Connected {
			id = TileDoor
		}
		l.Set(d.Position, Tile{ID: id})
	}
	return l
}

// Stamp draws a finished layout into one world-space layer. Each room is
// drawn with [RoomLayer], sealed with [BlockUnusedDoorways] and shifted
// into place. Rooms are stamped in id order.
func Stamp(rooms map[string]*dungeon.Room) *Layer {
	world := NewLayer("world")
	ids := make([]string, 0, len(rooms))
	for id := range rooms {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		r := rooms[id]
		local := RoomLayer(r)
		BlockUnusedDoorways(r, local)
		off := r.Offset()
		for _, p := range local.Points() {
			t, _ := local.Get(p)
			world.Set(p.Add(off), t)
		}
	}
	return world
}
