// Package tilemap works on sparse tile layers: sealing unused doorways of
// finished rooms and stamping whole layouts into a single layer for previews.
//
// Layers are in whatever space the caller chooses. Room layers built by
// [RoomLayer] are template-local, the way a room's own tile art is authored;
// [Stamp] moves them into world space.
package tilemap

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/dungeonforge/pkg/geom"
)

// Well-known tile ids used by [RoomLayer] and [Stamp].
const (
	TileWall  = "wall"
	TileFloor = "floor"
	TileDoor  = "door"
	TileSpawn = "spawn"
)

var glyphs = map[string]rune{
	TileWall:  '#',
	TileFloor: '.',
	TileDoor:  '+',
	TileSpawn: '*',
}

// Tile is one cell of a layer. Transform is an opaque orientation code
// (rotation or flip) carried along when tiles are copied.
type Tile struct {
	ID        string `json:"id"`
	Transform int    `json:"transform,omitempty"`
}

// Glyph returns the character used to draw t.
func (t Tile) Glyph() rune {
	if g, ok := glyphs[t.ID]; ok {
		return g
	}
	if t.ID == "" {
		return ' '
	}
	return []rune(t.ID)[0]
}

// Layer is a sparse grid of tiles. The zero value is an empty, unnamed layer
// ready to use.
type Layer struct {
	Name  string
	tiles map[geom.Point]Tile
}

// NewLayer creates an empty layer.
func NewLayer(name string) *Layer {
	return &Layer{Name: name, tiles: make(map[geom.Point]Tile)}
}

// Get returns the tile at p.
func (l *Layer) Get(p geom.Point) (Tile, bool) {
	t, ok := l.tiles[p]
	return t, ok
}

// Set places t at p. Setting an empty tile clears the cell.
func (l *Layer) Set(p geom.Point, t Tile) {
	if t.ID == "" {
		delete(l.tiles, p)
		return
	}
	if l.tiles == nil {
		l.tiles = make(map[geom.Point]Tile)
	}
	l.tiles[p] = t
}

// Len returns the number of occupied cells.
func (l *Layer) Len() int { return len(l.tiles) }

// Points returns the occupied cells, bottom row first, left to right.
func (l *Layer) Points() []geom.Point {
	pts := slices.Collect(maps.Keys(l.tiles))
	slices.SortFunc(pts, func(a, b geom.Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return pts
}

// Bounds returns the smallest box holding every occupied cell, or false for
// an empty layer.
func (l *Layer) Bounds() (geom.Bounds, bool) {
	var b geom.Bounds
	first := true
	for p := range l.tiles {
		cell := geom.Bounds{Lower: p, Upper: p}
		if first {
			b, first = cell, false
			continue
		}
		b = b.Union(cell)
	}
	return b, !first
}

// String draws the layer with north up, one glyph per cell.
func (l *Layer) String() string {
	b, ok := l.Bounds()
	if !ok {
		return ""
	}
	var sb strings.Builder
	for y := b.Upper.Y; y >= b.Lower.Y; y-- {
		row := make([]rune, 0, b.Width())
		for x := b.Lower.X; x <= b.Upper.X; x++ {
			t, _ := l.Get(geom.Point{X: x, Y: y})
			row = append(row, t.Glyph())
		}
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
