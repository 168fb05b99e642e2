// Package level reads and writes level descriptors: the candidate room graphs
// and the room templates a dungeon is assembled from.
//
// Descriptors are authored as TOML (or JSON) and decoded into a [Level]:
//
//	name = "crypt"
//
//	[[graphs]]
//	name = "main"
//
//	[[graphs.nodes]]
//	id = "in"
//	category = "entrance"
//	children = ["c1"]
//
//	[[templates]]
//	id = "gatehouse"
//	category = "entrance"
//	lower = { x = 0, y = 0 }
//	upper = { x = 8, y = 6 }
//
//	[[templates.doorways]]
//	position = { x = 8, y = 3 }
//	orientation = "east"
//
// Categories, orientations and doorway states are written by name.
package level

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/library"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

// Descriptor formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Level is the input of a dungeon build.
type Level struct {
	Name      string             `json:"name" toml:"name"`
	Graphs    []roomgraph.Graph  `json:"graphs" toml:"graphs"`
	Templates []library.Template `json:"templates" toml:"templates"`
}

// Graph returns the room graph with the given name.
func (l *Level) Graph(name string) (*roomgraph.Graph, bool) {
	for i := range l.Graphs {
		if l.Graphs[i].Name == name {
			return &l.Graphs[i], true
		}
	}
	return nil, false
}

// FormatFor returns the descriptor format implied by a file extension.
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// ReadFile reads a level descriptor from disk. The format follows the file
// extension.
func ReadFile(path string) (*Level, error) {
	if err := errors.ValidateLevelFilename(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "level %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	lvl, err := Read(f, FormatFor(path))
	if err != nil {
		return nil, err
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return lvl, nil
}

// Read decodes a level descriptor in the given format.
func Read(r io.Reader, format string) (*Level, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a level descriptor from memory.
func Parse(data []byte, format string) (*Level, error) {
	var lvl Level
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &lvl); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLevel, err, "decode toml")
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &lvl); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLevel, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown level format %q", format)
	}
	for i := range lvl.Graphs {
		lvl.Graphs[i].Reindex()
	}
	return &lvl, nil
}

// Marshal encodes the level in the given format.
func (l *Level) Marshal(format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(l); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(l); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown level format %q", format)
	}
	return buf.Bytes(), nil
}
