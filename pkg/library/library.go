// Package library holds the room templates of a dungeon level and picks
// them at random for graph slots.
//
// Templates are immutable reference data. A [Library] indexes them by id and
// by category once, at load time, and is read-only afterwards. Random picks
// are re-drawn on every call so that repeated placement attempts for the same
// slot can land on different shapes.
package library

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

// Rand is the randomness a library needs. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Template is a reusable room shape in template-local coordinates.
type Template struct {
	ID             string             `json:"id" toml:"id" bson:"id"`
	Category       roomgraph.Category `json:"category" toml:"category" bson:"category"`
	Lower          geom.Point         `json:"lower" toml:"lower" bson:"lower"`
	Upper          geom.Point         `json:"upper" toml:"upper" bson:"upper"`
	Doorways       []geom.Doorway     `json:"doorways,omitempty" toml:"doorways,omitempty" bson:"doorways,omitempty"`
	SpawnPositions []geom.Point       `json:"spawn_positions,omitempty" toml:"spawn_positions,omitempty" bson:"spawn_positions,omitempty"`
}

// Bounds returns the template's box in template-local space.
func (t *Template) Bounds() geom.Bounds {
	return geom.Bounds{Lower: t.Lower, Upper: t.Upper}
}

// Library indexes templates by id and category.
// The zero value is not usable; call [New].
type Library struct {
	logger     *log.Logger
	byID       map[string]*Template
	byCategory map[roomgraph.Category][]*Template
	order      []string
}

// New creates an empty library. A nil logger discards output.
func New(logger *log.Logger) *Library {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Library{
		logger:     logger,
		byID:       make(map[string]*Template),
		byCategory: make(map[roomgraph.Category][]*Template),
	}
}

// Load adds templates to the library in order.
//
// When two templates share an id the first one wins and the later one is
// skipped with a warning. Load still indexes every other template; the
// returned DUPLICATE_TEMPLATE_ID error only reports what was skipped and
// callers are free to ignore it.
func (l *Library) Load(templates []Template) error {
	var dups []string
	for i := range templates {
		t := templates[i]
		if _, exists := l.byID[t.ID]; exists {
			l.logger.Warn("duplicate template id, keeping first", "id", t.ID, "category", t.Category)
			dups = append(dups, t.ID)
			continue
		}
		t.Doorways = geom.CopyDoorways(t.Doorways)
		l.byID[t.ID] = &t
		l.byCategory[t.Category] = append(l.byCategory[t.Category], &t)
		l.order = append(l.order, t.ID)
	}
	if len(dups) > 0 {
		return errors.New(errors.ErrCodeDuplicateTemplateID,
			"duplicate template ids ignored: %s", strings.Join(dups, ", "))
	}
	return nil
}

// Template returns the template with the given id.
func (l *Library) Template(id string) (*Template, bool) {
	t, ok := l.byID[id]
	return t, ok
}

// Len returns the number of indexed templates.
func (l *Library) Len() int { return len(l.byID) }

// IDs returns template ids in load order.
func (l *Library) IDs() []string {
	return append([]string(nil), l.order...)
}

// Count returns how many templates have category c.
func (l *Library) Count(c roomgraph.Category) int { return len(l.byCategory[c]) }

// RandomFor returns a uniformly random template of category c, or false if
// the library has none.
func (l *Library) RandomFor(rng Rand, c roomgraph.Category) (*Template, bool) {
	candidates := l.byCategory[c]
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[rng.IntN(len(candidates))], true
}

// RandomCorridorFor returns a corridor template running along the family of
// o: north-south corridors for north and south doorways, east-west corridors
// for east and west. Orientation None never yields a template.
func (l *Library) RandomCorridorFor(rng Rand, o geom.Orientation) (*Template, bool) {
	switch o.Family() {
	case geom.FamilyNorthSouth:
		return l.RandomFor(rng, roomgraph.CorridorNS)
	case geom.FamilyEastWest:
		return l.RandomFor(rng, roomgraph.CorridorEW)
	default:
		return nil, false
	}
}

// ForNode picks a template for a graph slot of category c that is to be
// attached to a parent doorway facing o. Corridor slots follow the doorway's
// orientation family; every other category ignores it.
func (l *Library) ForNode(rng Rand, c roomgraph.Category, o geom.Orientation) (*Template, bool) {
	if c.IsCorridor() {
		return l.RandomCorridorFor(rng, o)
	}
	return l.RandomFor(rng, c)
}
