package geom

import "fmt"

// Point is a cell on the integer grid.
type Point struct {
	X int `json:"x" toml:"x" bson:"x"`
	Y int `json:"y" toml:"y" bson:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Bounds is an axis-aligned box of cells. Both corners are inclusive.
type Bounds struct {
	Lower Point `json:"lower" toml:"lower" bson:"lower"`
	Upper Point `json:"upper" toml:"upper" bson:"upper"`
}

// Translate returns b shifted by d.
func (b Bounds) Translate(d Point) Bounds {
	return Bounds{Lower: b.Lower.Add(d), Upper: b.Upper.Add(d)}
}

// Width returns the number of columns covered by b.
func (b Bounds) Width() int { return b.Upper.X - b.Lower.X + 1 }

// Height returns the number of rows covered by b.
func (b Bounds) Height() int { return b.Upper.Y - b.Lower.Y + 1 }

// Valid reports whether Lower is not above or right of Upper.
func (b Bounds) Valid() bool {
	return b.Lower.X <= b.Upper.X && b.Lower.Y <= b.Upper.Y
}

// Contains reports whether p lies inside b, boundary included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Lower.X && p.X <= b.Upper.X &&
		p.Y >= b.Lower.Y && p.Y <= b.Upper.Y
}

// Overlaps reports whether b and o share at least one cell.
// Boxes that only touch (adjacent cells) do not overlap.
func (b Bounds) Overlaps(o Bounds) bool {
	return intervalsOverlap(b.Lower.X, b.Upper.X, o.Lower.X, o.Upper.X) &&
		intervalsOverlap(b.Lower.Y, b.Upper.Y, o.Lower.Y, o.Upper.Y)
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Lower: Point{X: min(b.Lower.X, o.Lower.X), Y: min(b.Lower.Y, o.Lower.Y)},
		Upper: Point{X: max(b.Upper.X, o.Upper.X), Y: max(b.Upper.Y, o.Upper.Y)},
	}
}

func (b Bounds) String() string { return fmt.Sprintf("[%s..%s]", b.Lower, b.Upper) }

func intervalsOverlap(min1, max1, min2, max2 int) bool {
	return max(min1, min2) <= min(max1, max2)
}
