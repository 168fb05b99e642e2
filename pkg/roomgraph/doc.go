// Package roomgraph models the abstract topology of a dungeon level: a tree
// of room slots to be filled with concrete rooms.
//
// # Overview
//
// A [Graph] holds [Node] slots. Each node carries a [Category] (entrance,
// corridor, boss, normal room) and links to at most one parent and an
// ordered list of children. Despite the name the structure is a tree rooted
// at the single entrance node; the builder in package dungeon walks it
// breadth-first so that every parent is placed before its children.
//
//	g := roomgraph.New("crypt", []roomgraph.Node{
//	    {ID: "in", Category: roomgraph.Entrance, Children: []string{"c1"}},
//	    {ID: "c1", Category: roomgraph.Corridor, Parent: "in", Children: []string{"boss"}},
//	    {ID: "boss", Category: roomgraph.Boss, Parent: "c1"},
//	})
//	entrance, _ := g.Entrance()
//
// # Validation
//
// Graphs are normally authored elsewhere and assumed valid. [Graph.Validate]
// checks the authoring rules (alternating rooms and corridors, a single
// entrance, at most one boss, child limits) and is used by the CLI, never by
// the builder itself.
//
// # Visualization
//
// [ToDOT] and [RenderSVG] draw a graph with Graphviz for debugging level
// topologies.
package roomgraph
