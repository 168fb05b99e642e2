package level

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/dungeonforge/pkg/errors"
	"github.com/matzehuels/dungeonforge/pkg/geom"
	"github.com/matzehuels/dungeonforge/pkg/roomgraph"
)

// Validate checks a level for authoring mistakes: graph rules, template ids,
// template geometry and doorway placement. Builds never call it; the
// builder assumes its input is valid and only fails geometrically.
//
// All problems are reported in one INVALID_LEVEL error.
func (l *Level) Validate() error {
	var errs []error

	if len(l.Graphs) == 0 {
		errs = append(errs, stderrors.New("no room graphs"))
	}
	for i := range l.Graphs {
		g := &l.Graphs[i]
		if err := g.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("graph %q: %w", g.Name, err))
		}
		for _, n := range g.Nodes {
			if err := errors.ValidateID("node", n.ID); err != nil {
				errs = append(errs, fmt.Errorf("graph %q: %w", g.Name, err))
			}
		}
	}

	seen := make(map[string]bool, len(l.Templates))
	for _, t := range l.Templates {
		if err := errors.ValidateID("template", t.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[t.ID] {
			errs = append(errs, errors.New(errors.ErrCodeDuplicateTemplateID, "template %q defined twice", t.ID))
		}
		seen[t.ID] = true

		if t.Category == roomgraph.None || t.Category == roomgraph.Corridor {
			errs = append(errs, fmt.Errorf("template %q: category %s cannot be placed", t.ID, t.Category))
		}
		b := t.Bounds()
		if !b.Valid() {
			errs = append(errs, fmt.Errorf("template %q: lower %s is above or right of upper %s", t.ID, t.Lower, t.Upper))
			continue
		}
		for i, d := range t.Doorways {
			if d.Orientation == geom.None {
				errs = append(errs, fmt.Errorf("template %q: doorway %d has no orientation", t.ID, i))
			}
			if !b.Contains(d.Position) {
				errs = append(errs, fmt.Errorf("template %q: doorway %d at %s lies outside %s", t.ID, i, d.Position, b))
			}
		}
	}

	for i := range l.Graphs {
		for _, n := range l.Graphs[i].Nodes {
			if n.Category == roomgraph.None || n.Category.IsCorridor() {
				continue
			}
			if !l.hasTemplate(n.Category) {
				errs = append(errs, fmt.Errorf("graph %q: no template for %s node %q", l.Graphs[i].Name, n.Category, n.ID))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInvalidLevel, stderrors.Join(errs...), "level %q", l.Name)
}

func (l *Level) hasTemplate(c roomgraph.Category) bool {
	for _, t := range l.Templates {
		if t.Category == c {
			return true
		}
	}
	return false
}
