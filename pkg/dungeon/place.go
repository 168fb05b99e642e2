package dungeon

import (
	"slices"

	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

// placeAgainstParent attaches a room for n to one of parent's free doorways.
//
// Each pass draws a random candidate doorway and drops it from the
// candidate set whatever happens, so the loop ends after at most one pass per
// doorway:
//   - no template fits the doorway's axis (corridors only): the doorway is
//     marked unavailable
//   - the template has no doorway facing back: the doorway is marked
//     unavailable
//   - the translated room overlaps a placed room: the doorway stays
//     unconnected, another template may fit it on a later attempt
//
// A node whose category has no templates at all fails before any doorway is
// drawn.
func (b *Builder) placeAgainstParent(n *roomgraph.Node, parent *Room) bool {
	if !n.Category.IsCorridor() && b.lib.Count(n.Category) == 0 {
		b.logger.Debug("no template for node", "node", n.ID, "category", n.Category)
		return false
	}

	candidates := parent.availableDoorways()
	for len(candidates) > 0 {
		k := b.rng.IntN(len(candidates))
		di := candidates[k]
		candidates = slices.Delete(candidates, k, k+1)
		door := &parent.Doorways[di]

		t, ok := b.lib.ForNode(b.rng, n.Category, door.Orientation)
		if !ok {
			door.State = geom.Unavailable
			continue
		}

		room := newRoom(t, n)
		ci := room.doorwayFacing(door.Orientation.Opposite())
		if ci < 0 {
			door.State = geom.Unavailable
			continue
		}

		connection := parent.DoorwayWorldPosition(di)
		room.moveTo(ci, connection.Add(geom.ExteriorOffset(room.Doorways[ci].Orientation)))

		if b.overlapsPlaced(room) {
			continue
		}

		door.State = geom.Connected
		room.Doorways[ci].State = geom.Connected
		room.Positioned = true
		b.rooms[room.ID] = room
		return true
	}
	return false
}

func (b *Builder) overlapsPlaced(room *Room) bool {
	for _, other := range b.rooms {
		if room.Bounds.Overlaps(other.Bounds) {
			return true
		}
	}
	return false
}
