// Package layout is the serialization format for finished dungeons.
//
// A [Layout] captures everything a consumer needs to materialize a build:
// the rooms in world space, the room graph they came from and the seed and
// limits that reproduce them. It is what the CLI writes to disk, what the
// cache stores and what the API returns.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

// Layout is a finished dungeon.
type Layout struct {
	ID        string         `json:"id" bson:"_id"`
	Level     string         `json:"level" bson:"level"`
	LevelHash string         `json:"level_hash,omitempty" bson:"level_hash,omitempty"`
	Graph     string         `json:"graph" bson:"graph"`
	Seed      uint64         `json:"seed" bson:"seed"`
	Attempts  int            `json:"attempts" bson:"attempts"`
	Bounds    geom.Bounds    `json:"bounds" bson:"bounds"`
	Rooms     []dungeon.Room `json:"rooms" bson:"rooms"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// FromResult converts a build result into a layout with a fresh id. Rooms are
// listed in graph order when g is given, by id otherwise.
func FromResult(res dungeon.Result, g *roomgraph.Graph, seed uint64) *Layout {
	l := &Layout{
		ID:        uuid.NewString(),
		Level:     res.Level,
		Graph:     res.Graph,
		Seed:      seed,
		Attempts:  res.Attempts,
		CreatedAt: time.Now().UTC(),
	}

	var ids []string
	if g != nil {
		for _, id := range g.IDs() {
			if _, ok := res.Rooms[id]; ok {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) != len(res.Rooms) {
		ids = ids[:0]
		for id := range res.Rooms {
			ids = append(ids, id)
		}
		slices.Sort(ids)
	}

	l.Rooms = make([]dungeon.Room, 0, len(ids))
	for i, id := range ids {
		r := *res.Rooms[id]
		r.Doorways = geom.CopyDoorways(r.Doorways)
		l.Rooms = append(l.Rooms, r)
		if i == 0 {
			l.Bounds = r.Bounds
		} else {
			l.Bounds = l.Bounds.Union(r.Bounds)
		}
	}
	return l
}

// RoomMap returns the rooms keyed by id, the shape the builder produces.
func (l *Layout) RoomMap() map[string]*dungeon.Room {
	m := make(map[string]*dungeon.Room, len(l.Rooms))
	for i := range l.Rooms {
		m[l.Rooms[i].ID] = &l.Rooms[i]
	}
	return m
}

// Room returns the room with the given id.
func (l *Layout) Room(id string) (*dungeon.Room, bool) {
	for i := range l.Rooms {
		if l.Rooms[i].ID == id {
			return &l.Rooms[i], true
		}
	}
	return nil, false
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal encodes a layout as indented JSON.
func Marshal(l *Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON layout.
func Unmarshal(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &l, nil
}

// Write encodes a layout as indented JSON to w.
func Write(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

// WriteFile writes a layout to a JSON file.
func WriteFile(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(l, f)
}

// ReadFile reads a JSON layout file.
func ReadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
