package dungeon

import (
	"slices"

	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/library"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

// Room is a template instantiated for one graph node.
//
// Bounds is in world space; TemplateBounds keeps the template-local box so
// doorway positions (which stay template-local) can be mapped to the world.
// Each room owns its Doorways slice.
type Room struct {
	ID             string             `json:"id" bson:"id"`
	TemplateID     string             `json:"template_id" bson:"template_id"`
	Category       roomgraph.Category `json:"category" bson:"category"`
	Bounds         geom.Bounds        `json:"bounds" bson:"bounds"`
	TemplateBounds geom.Bounds        `json:"template_bounds" bson:"template_bounds"`
	Doorways       []geom.Doorway     `json:"doorways,omitempty" bson:"doorways,omitempty"`
	SpawnPositions []geom.Point       `json:"spawn_positions,omitempty" bson:"spawn_positions,omitempty"`
	Parent         string             `json:"parent,omitempty" bson:"parent,omitempty"`
	Children       []string           `json:"children,omitempty" bson:"children,omitempty"`
	Positioned     bool               `json:"positioned" bson:"positioned"`
}

// newRoom instantiates t for node n. World bounds start out equal to the
// template bounds; placement corrects them later.
func newRoom(t *library.Template, n *roomgraph.Node) *Room {
	r := &Room{
		ID:             n.ID,
		TemplateID:     t.ID,
		Category:       t.Category,
		Bounds:         t.Bounds(),
		TemplateBounds: t.Bounds(),
		Doorways:       geom.CopyDoorways(t.Doorways),
		SpawnPositions: slices.Clone(t.SpawnPositions),
		Children:       slices.Clone(n.Children),
	}
	if n.Parent == "" {
		r.Positioned = true
	} else {
		r.Parent = n.Parent
	}
	return r
}

// Offset returns the translation from template space to world space.
func (r *Room) Offset() geom.Point {
	return r.Bounds.Lower.Sub(r.TemplateBounds.Lower)
}

// DoorwayWorldPosition returns the world cell of doorway i.
func (r *Room) DoorwayWorldPosition(i int) geom.Point {
	return r.Doorways[i].Position.Add(r.Offset())
}

// ConnectedDoorways returns the indexes of doorways joined to another room.
func (r *Room) ConnectedDoorways() []int {
	var out []int
	for i, d := range r.Doorways {
		if d.State == geom.Connected {
			out = append(out, i)
		}
	}
	return out
}

// availableDoorways returns the indexes of doorways that are neither
// connected nor unavailable.
func (r *Room) availableDoorways() []int {
	var out []int
	for i, d := range r.Doorways {
		if d.Available() {
			out = append(out, i)
		}
	}
	return out
}

// doorwayFacing returns the index of the first doorway with orientation o,
// or -1. Nothing faces geom.None.
func (r *Room) doorwayFacing(o geom.Orientation) int {
	if o == geom.None {
		return -1
	}
	for i, d := range r.Doorways {
		if d.Orientation == o {
			return i
		}
	}
	return -1
}

// moveTo translates the room so that its doorway i sits on world cell p.
func (r *Room) moveTo(i int, p geom.Point) {
	r.Bounds = r.TemplateBounds.Translate(p.Sub(r.Doorways[i].Position))
}
