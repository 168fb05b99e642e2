package dungeon_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/level"
	"github.com/matzehuels/dungeonforge/pkg/library"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

func Example() {
	door := func(x, y int, o geom.Orientation) geom.Doorway {
		return geom.Doorway{Position: geom.Point{X: x, Y: y}, Orientation: o}
	}

	lvl := &level.Level{
		Name: "outpost",
		Graphs: []roomgraph.Graph{*roomgraph.New("main", []roomgraph.Node{
			{ID: "gate", Category: roomgraph.Entrance, Children: []string{"passage"}},
			{ID: "passage", Category: roomgraph.Corridor, Parent: "gate", Children: []string{"hall"}},
			{ID: "hall", Category: roomgraph.Normal, Parent: "passage"},
		})},
		Templates: []library.Template{
			{ID: "gatehouse", Category: roomgraph.Entrance, Upper: geom.Point{X: 4, Y: 4},
				Doorways: []geom.Doorway{door(4, 2, geom.East)}},
			{ID: "tunnel", Category: roomgraph.CorridorEW, Upper: geom.Point{X: 5, Y: 2},
				Doorways: []geom.Doorway{door(0, 1, geom.West), door(5, 1, geom.East)}},
			{ID: "great-hall", Category: roomgraph.Normal, Upper: geom.Point{X: 6, Y: 6},
				Doorways: []geom.Doorway{door(0, 3, geom.West)}},
		},
	}

	b := dungeon.NewBuilder(dungeon.Options{Rand: dungeon.NewRand(42)})
	res, err := b.Generate(context.Background(), lvl)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, id := range lvl.Graphs[0].IDs() {
		r := res.Rooms[id]
		fmt.Printf("%-8s %-11s %s\n", r.ID, r.TemplateID, r.Bounds)
	}
	fmt.Println("valid:", dungeon.CheckInvariants(res.Rooms, &lvl.Graphs[0]) == nil)
	// Output:
	// gate     gatehouse   [(0,0)..(4,4)]
	// passage  tunnel      [(5,1)..(10,3)]
	// hall     great-hall  [(11,-1)..(17,5)]
	// valid: true
}
