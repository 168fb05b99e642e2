package roomgraph

import (
	"fmt"
	"strings"
)

// Category tags a graph node or a room template with the kind of room it
// stands for.
type Category int

const (
	// None marks an unassigned slot. Templates of this category are never selected.
	None Category = iota
	// Entrance anchors the whole layout.
	Entrance
	// Corridor is a graph slot for a passage. The template library resolves
	// it to CorridorNS or CorridorEW depending on the parent doorway.
	Corridor
	// CorridorNS templates run north-south.
	CorridorNS
	// CorridorEW templates run east-west.
	CorridorEW
	// Boss is the boss room.
	Boss
	// Normal is an ordinary room.
	Normal
)

var categoryNames = [...]string{
	None:       "none",
	Entrance:   "entrance",
	Corridor:   "corridor",
	CorridorNS: "corridor-ns",
	CorridorEW: "corridor-ew",
	Boss:       "boss",
	Normal:     "normal",
}

func (c Category) String() string {
	if c < None || c > Normal {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// IsCorridor reports whether c is any of the corridor categories.
func (c Category) IsCorridor() bool {
	return c == Corridor || c == CorridorNS || c == CorridorEW
}

// ParseCategory parses a case-insensitive category name.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range categoryNames {
		if n == name {
			return Category(c), nil
		}
	}
	return None, fmt.Errorf("unknown room category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Node is one slot in a room graph.
type Node struct {
	ID       string   `json:"id" toml:"id" bson:"id"`
	Category Category `json:"category" toml:"category" bson:"category"`
	Parent   string   `json:"parent,omitempty" toml:"parent,omitempty" bson:"parent,omitempty"`
	Children []string `json:"children,omitempty" toml:"children,omitempty" bson:"children,omitempty"`
}

// IsEntrance reports whether n is the entrance slot.
func (n *Node) IsEntrance() bool { return n.Category == Entrance }

// Graph is a tree of room slots rooted at its entrance node.
//
// The zero value is an empty graph. Graph is not safe for concurrent
// mutation; concurrent reads are fine once the index has been built by
// [New] or a first lookup.
type Graph struct {
	Name  string `json:"name" toml:"name" bson:"name"`
	Nodes []Node `json:"nodes" toml:"nodes" bson:"nodes"`

	byID    map[string]int
	indexed int
}

// New creates a graph and indexes its nodes.
func New(name string, nodes []Node) *Graph {
	g := &Graph{Name: name, Nodes: nodes}
	g.Reindex()
	return g
}

// Reindex rebuilds the id lookup. Call it after modifying Nodes directly.
// When two nodes share an id the first one wins.
func (g *Graph) Reindex() {
	g.byID = make(map[string]int, len(g.Nodes))
	g.indexed = len(g.Nodes)
	for i := range g.Nodes {
		if _, dup := g.byID[g.Nodes[i].ID]; !dup {
			g.byID[g.Nodes[i].ID] = i
		}
	}
}

func (g *Graph) ensureIndex() {
	if g.byID == nil || g.indexed != len(g.Nodes) {
		g.Reindex()
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	g.ensureIndex()
	i, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// Entrance returns the first entrance node, or false if there is none.
func (g *Graph) Entrance() (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].IsEntrance() {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Children returns the child nodes of id in declaration order.
// Child ids that do not resolve to a node are skipped.
func (g *Graph) Children(id string) []*Node {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c, ok := g.Node(cid); ok {
			out = append(out, c)
		}
	}
	return out
}

// IDs returns all node ids in declaration order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// CountCategory returns how many nodes have category c.
func (g *Graph) CountCategory(c Category) int {
	count := 0
	for _, n := range g.Nodes {
		if n.Category == c {
			count++
		}
	}
	return count
}
