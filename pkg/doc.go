// Package pkg provides the core libraries for Dungeonforge dungeon layouts.
//
// # Overview
//
// Dungeonforge turns a level descriptor into a dungeon: rooms cut from a
// template library, joined doorway to doorway, placed breadth-first from the
// entrance of a room graph so that no two rooms share a tile. The pkg
// directory is organized into three areas:
//
//  1. Domain: [geom], [roomgraph], [library], [level], [dungeon], [tilemap]
//  2. Serialization: [layout]
//  3. Infrastructure: [pipeline], [cache], [store], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	Level file (TOML or JSON)
//	         ↓
//	    [level] package (parse + validate)
//	         ↓
//	    [dungeon] package (select graph, place rooms, retry)
//	         ↓
//	    [layout] package (portable result)
//	         ↓
//	    JSON file / Redis / MongoDB
//
// # Quick Start
//
//	lvl, _ := level.ReadFile("crypt.toml")
//
//	b := dungeon.NewBuilder(dungeon.Options{Rand: dungeon.NewRand(42)})
//	res, _ := b.Generate(ctx, lvl)
//
//	fmt.Println(tilemap.Stamp(res.Rooms))
//
// The [pipeline] package wraps the same steps with caching and persistence
// and is shared by the CLI and the HTTP API.
//
// # Testing
//
//	go test ./pkg/...
//	DUNGEONFORGE_TEST_REDIS=redis://localhost:6379/0 go test ./pkg/cache
//	DUNGEONFORGE_TEST_MONGO=mongodb://localhost:27017 go test ./pkg/store
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/geom
// [roomgraph]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/roomgraph
// [library]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/library
// [level]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/level
// [dungeon]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/dungeon
// [tilemap]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/tilemap
// [layout]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/dungeonforge/pkg/errors
package pkg
