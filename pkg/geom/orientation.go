package geom

import (
	"fmt"
	"strings"
)

// Orientation is the direction a doorway faces out of its room.
type Orientation int

const (
	North Orientation = iota
	East
	South
	West
	None
)

var orientationNames = [...]string{
	North: "north",
	East:  "east",
	South: "south",
	West:  "west",
	None:  "none",
}

// String returns the lowercase name of the orientation.
func (o Orientation) String() string {
	if o < North || o > None {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// Opposite returns the orientation a doorway must have to connect to o.
// None has no opposite and maps to itself.
func (o Orientation) Opposite() Orientation {
	switch o {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return None
	}
}

// Family groups orientations by axis.
type Family int

const (
	FamilyNone Family = iota
	FamilyNorthSouth
	FamilyEastWest
)

// Family returns the axis o belongs to.
func (o Orientation) Family() Family {
	switch o {
	case North, South:
		return FamilyNorthSouth
	case East, West:
		return FamilyEastWest
	default:
		return FamilyNone
	}
}

// ParseOrientation parses a case-insensitive orientation name.
func ParseOrientation(s string) (Orientation, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for o, n := range orientationNames {
		if n == name {
			return Orientation(o), nil
		}
	}
	return None, fmt.Errorf("unknown orientation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// exteriorOffsets maps a doorway orientation to the translation from the
// connection point (the other room's doorway cell) to the doorway cell. A
// north-facing doorway sits one row below the south-facing doorway it joins.
var exteriorOffsets = [...]Point{
	North: {X: 0, Y: -1},
	East:  {X: -1, Y: 0},
	South: {X: 0, Y: 1},
	West:  {X: 1, Y: 0},
	None:  {},
}

// ExteriorOffset returns the fixed offset applied to a connection point to
// find where a doorway of orientation o must sit.
func ExteriorOffset(o Orientation) Point {
	if o < North || o > None {
		return Point{}
	}
	return exteriorOffsets[o]
}
