package dungeon

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

var (
	// ErrOverlap is reported when two placed rooms share a cell.
	ErrOverlap = errors.New("rooms overlap")
	// ErrDisconnected is reported when a room is not joined to its parent
	// through exactly one pair of facing doorways.
	ErrDisconnected = errors.New("room not connected to parent")
	// ErrIncomplete is reported when a graph node has no room, or a room no node.
	ErrIncomplete = errors.New("layout incomplete")
)

// CheckInvariants verifies a finished layout against its graph:
//   - no two rooms overlap
//   - every non-entrance room shares exactly one connected doorway pair with
//     its parent, facing opposite ways one cell apart
//   - no room has connected doorways beyond its graph links
//   - every linked graph node has a room and every room has a node
//
// All violations are returned joined.
func CheckInvariants(rooms map[string]*Room, g *roomgraph.Graph) error {
	var errs []error

	ids := make([]string, 0, len(rooms))
	for id := range rooms {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if rooms[a].Bounds.Overlaps(rooms[b].Bounds) {
				errs = append(errs, fmt.Errorf("%w: %q %s and %q %s",
					ErrOverlap, a, rooms[a].Bounds, b, rooms[b].Bounds))
			}
		}
	}

	for _, n := range g.Nodes {
		if n.Category == roomgraph.None && n.Parent == "" && len(n.Children) == 0 {
			continue
		}
		if _, ok := rooms[n.ID]; !ok {
			errs = append(errs, fmt.Errorf("%w: node %q has no room", ErrIncomplete, n.ID))
		}
	}

	for _, id := range ids {
		r := rooms[id]
		if _, ok := g.Node(id); !ok {
			errs = append(errs, fmt.Errorf("%w: room %q has no graph node", ErrIncomplete, id))
		}

		links := len(r.Children)
		if r.Parent != "" {
			links++
			parent, ok := rooms[r.Parent]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: room %q has no placed parent %q", ErrDisconnected, id, r.Parent))
			} else if n := joins(parent, r); n != 1 {
				errs = append(errs, fmt.Errorf("%w: room %q shares %d doorway pairs with %q", ErrDisconnected, id, n, r.Parent))
			}
		}
		if got := len(r.ConnectedDoorways()); got != links {
			errs = append(errs, fmt.Errorf("%w: room %q has %d connected doorways for %d links",
				ErrDisconnected, id, got, links))
		}
	}

	return errors.Join(errs...)
}

// joins counts connected doorway pairs between parent and child that face
// each other with the child doorway one cell beyond the parent's.
func joins(parent, child *Room) int {
	count := 0
	for ci, cd := range child.Doorways {
		if cd.State != geom.Connected {
			continue
		}
		want := child.DoorwayWorldPosition(ci).Sub(geom.ExteriorOffset(cd.Orientation))
		for pi, pd := range parent.Doorways {
			if pd.State == geom.Connected &&
				pd.Orientation == cd.Orientation.Opposite() &&
				parent.DoorwayWorldPosition(pi) == want {
				count++
			}
		}
	}
	return count
}
