// Package dungeon lays out a level: it turns a room graph and a template
// library into positioned, non-overlapping rooms joined through doorways.
//
// # Overview
//
// A [Builder] runs the two-tier retry loop. Each round picks one of the
// level's room graphs at random and tries to lay it out up to
// MaxRebuildAttemptsForGraph+1 times before picking again, for at most
// MaxBuildAttempts rounds. A single attempt walks the graph breadth-first:
//
//  1. The entrance is instantiated from a random entrance template and
//     anchored at its template-space origin.
//  2. Every other node is attached to one of its parent's free doorways,
//     using a template whose doorway faces the opposite way.
//  3. The candidate is shifted so the two doorways are one cell apart and
//     rejected if its box overlaps any room placed so far.
//
// The first node that cannot be placed abandons the attempt; nothing is
// repaired in place. Rooms from an abandoned attempt are cleared (and handed
// to the [Releaser], if any) before the next one starts.
//
// # Determinism
//
// All randomness comes from [Options.Rand]. Builds with the same seed, level
// and limits produce the same layout:
//
//	b := dungeon.NewBuilder(dungeon.Options{Rand: dungeon.NewRand(42)})
//	res, err := b.Generate(ctx, lvl)
//
// # Concurrency
//
// A Builder is single-threaded and not safe for concurrent use. Create one
// per build; they are cheap.
package dungeon
