package geom

import (
	"fmt"
	"strings"
)

// ConnectionState tracks a doorway while a layout is built.
type ConnectionState int

const (
	// Unconnected doorways are candidates for attaching a child room.
	Unconnected ConnectionState = iota
	// Connected doorways join exactly one other room.
	Connected
	// Unavailable doorways were found unusable for the room being placed.
	Unavailable
)

var stateNames = [...]string{
	Unconnected: "unconnected",
	Connected:   "connected",
	Unavailable: "unavailable",
}

func (s ConnectionState) String() string {
	if s < Unconnected || s > Unavailable {
		return fmt.Sprintf("ConnectionState(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ConnectionState) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range stateNames {
		if n == name {
			*s = ConnectionState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown connection state %q", text)
}

// Doorway is a connection point on a room's boundary.
//
// CopyStart, CopyWidth and CopyHeight describe the tile block used to seal
// the doorway when it is left unconnected (see package tilemap).
type Doorway struct {
	Position    Point           `json:"position" toml:"position" bson:"position"`
	Orientation Orientation     `json:"orientation" toml:"orientation" bson:"orientation"`
	State       ConnectionState `json:"state,omitempty" toml:"state,omitempty" bson:"state,omitempty"`
	CopyStart   Point           `json:"copy_start" toml:"copy_start" bson:"copy_start"`
	CopyWidth   int             `json:"copy_width" toml:"copy_width" bson:"copy_width"`
	CopyHeight  int             `json:"copy_height" toml:"copy_height" bson:"copy_height"`
}

// Available reports whether the doorway can still accept a connection.
func (d Doorway) Available() bool { return d.State == Unconnected }

// CopyDoorways returns an independent copy of ds.
func CopyDoorways(ds []Doorway) []Doorway {
	if ds == nil {
		return nil
	}
	out := make([]Doorway, len(ds))
	copy(out, ds)
	return out
}
