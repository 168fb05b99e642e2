package roomgraph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
)

// MaxChildCorridors is the most corridors a room may lead into. Three is
// allowed but makes layouts noticeably harder to fit.
const MaxChildCorridors = 3

var (
	// ErrNoEntrance is returned by [Graph.Validate] when no node is an entrance.
	ErrNoEntrance = errors.New("graph has no entrance node")

	// ErrMultipleEntrances is returned when more than one node is an entrance.
	ErrMultipleEntrances = errors.New("graph has more than one entrance node")

	// ErrMultipleBosses is returned when more than one node is a boss room.
	ErrMultipleBosses = errors.New("graph has more than one boss room")

	// ErrDuplicateNodeID is returned when two nodes share an id.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDanglingLink is returned when a parent or child id does not resolve,
	// or when a link is not mirrored on the other node.
	ErrDanglingLink = errors.New("dangling node link")

	// ErrIllegalLink is returned when a link breaks the room/corridor rules.
	ErrIllegalLink = errors.New("illegal node link")

	// ErrUnreachable is returned when a node cannot be reached from the entrance.
	ErrUnreachable = errors.New("node unreachable from entrance")
)

// Validate checks the authoring rules for a room graph and returns every
// violation found, joined with errors.Join. A nil result means the graph is
// ready to be built.
//
// The rules:
//   - exactly one entrance, with no parent
//   - at most one boss room
//   - node ids are unique and every link resolves and is mirrored
//   - rooms connect only to corridors and corridors only to rooms
//   - a corridor leads to at most one room
//   - a room leads to at most MaxChildCorridors corridors
//   - no node of category None is linked, no node links to itself
//   - every node is reachable from the entrance
func (g *Graph) Validate() error {
	var errs []error
	fail := func(base error, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...)))
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			fail(ErrDuplicateNodeID, "%q", n.ID)
		}
		seen[n.ID] = true
	}

	switch entrances := g.CountCategory(Entrance); {
	case entrances == 0:
		errs = append(errs, ErrNoEntrance)
	case entrances > 1:
		fail(ErrMultipleEntrances, "found %d", entrances)
	}
	if bosses := g.CountCategory(Boss); bosses > 1 {
		fail(ErrMultipleBosses, "found %d", bosses)
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]

		if n.IsEntrance() && n.Parent != "" {
			fail(ErrIllegalLink, "entrance %q cannot have a parent", n.ID)
		}
		if !n.IsEntrance() && n.Parent == "" && n.Category != None {
			fail(ErrDanglingLink, "node %q has no parent", n.ID)
		}
		if n.Category == None && (n.Parent != "" || len(n.Children) > 0) {
			fail(ErrIllegalLink, "node %q of category none is linked", n.ID)
		}

		if n.Parent != "" {
			parent, ok := g.Node(n.Parent)
			switch {
			case n.Parent == n.ID:
				fail(ErrIllegalLink, "node %q is its own parent", n.ID)
			case !ok:
				fail(ErrDanglingLink, "node %q has unknown parent %q", n.ID, n.Parent)
			case !slices.Contains(parent.Children, n.ID):
				fail(ErrDanglingLink, "parent %q does not list %q as a child", n.Parent, n.ID)
			}
		}

		corridors := 0
		for j, cid := range n.Children {
			if slices.Contains(n.Children[:j], cid) {
				fail(ErrIllegalLink, "node %q lists child %q twice", n.ID, cid)
				continue
			}
			child, ok := g.Node(cid)
			if !ok {
				fail(ErrDanglingLink, "node %q has unknown child %q", n.ID, cid)
				continue
			}
			if cid == n.ID {
				fail(ErrIllegalLink, "node %q is its own child", n.ID)
				continue
			}
			if child.Parent != n.ID {
				fail(ErrDanglingLink, "child %q does not name %q as its parent", cid, n.ID)
			}
			if child.IsEntrance() {
				fail(ErrIllegalLink, "entrance %q cannot be a child of %q", cid, n.ID)
			}
			if child.Category.IsCorridor() == n.Category.IsCorridor() {
				fail(ErrIllegalLink, "%s %q cannot lead to %s %q", n.Category, n.ID, child.Category, cid)
			}
			if child.Category.IsCorridor() {
				corridors++
			}
		}
		if n.Category.IsCorridor() && len(n.Children) > 1 {
			fail(ErrIllegalLink, "corridor %q leads to %d rooms", n.ID, len(n.Children))
		}
		if corridors > MaxChildCorridors {
			fail(ErrIllegalLink, "room %q leads to %d corridors (max %d)", n.ID, corridors, MaxChildCorridors)
		}
	}

	if entrance, ok := g.Entrance(); ok && len(errs) == 0 {
		reached := g.reachableFrom(entrance.ID)
		for _, n := range g.Nodes {
			if n.Category != None && !reached.Has(n.ID) {
				fail(ErrUnreachable, "%q", n.ID)
			}
		}
	}

	return errors.Join(errs...)
}

// reachableFrom returns the ids reached breadth-first from id.
func (g *Graph) reachableFrom(id string) mapset.Set[string] {
	reached := mapset.New[string]()
	reached.Put(id)
	frontier := queue.New[string]()
	frontier.Enqueue(id)
	for !frontier.Empty() {
		for _, c := range g.Children(frontier.Dequeue()) {
			if !reached.Has(c.ID) {
				reached.Put(c.ID)
				frontier.Enqueue(c.ID)
			}
		}
	}
	return reached
}
