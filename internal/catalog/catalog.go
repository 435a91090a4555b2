// Package catalog holds the reference pathology definitions a report is built from.
package catalog

import (
	"fmt"
	"strings"
)

// Column names expected in the header row of a catalog source.
const (
	ColumnPathology   = "Pathology"
	ColumnObservation = "Observation"
	ColumnImpression  = "Impression"
	ColumnSide        = "is_side"
	ColumnLobe        = "is_lobe"
	ColumnMm          = "is_mm"
)

// RequiredColumns returns the columns every catalog source must provide.
func RequiredColumns() []string {
	return []string{ColumnPathology, ColumnObservation, ColumnImpression, ColumnSide, ColumnLobe, ColumnMm}
}

// Row is one header-keyed record of the tabular source.
type Row map[string]string

// PathologyDefinition describes one selectable finding.
type PathologyDefinition struct {
	Name         string
	Observation  string
	Impression   string
	RequiresSide bool
	RequiresLobe bool
	RequiresMm   bool
}

// HasRequirements reports whether any qualifying attribute must be supplied.
func (d PathologyDefinition) HasRequirements() bool {
	return d.RequiresSide || d.RequiresLobe || d.RequiresMm
}

// DroppedRow records a source row that did not become a definition.
type DroppedRow struct {
	Line   int // 1-based data row index, header excluded
	Name   string
	Reason string
}

// Catalog maps pathology names to definitions. It is never mutated after Load.
type Catalog struct {
	byName  map[string]PathologyDefinition
	order   []string
	dropped []DroppedRow
}

// Empty returns a catalog with no definitions.
func Empty() *Catalog {
	return &Catalog{byName: map[string]PathologyDefinition{}}
}

// Load converts header-keyed rows into a catalog.
// Rows without a pathology name are dropped, and so are repeats of a name
// already seen. A source missing one of RequiredColumns is malformed: the
// returned catalog is empty and the error is a *LoadError.
func Load(rows []Row) (*Catalog, error) {
	if missing := missingColumns(rows); len(missing) > 0 {
		return Empty(), &LoadError{
			Err: fmt.Errorf("%w: missing columns %s", ErrMalformed, strings.Join(missing, ", ")),
		}
	}

	c := Empty()
	for i, row := range rows {
		name := strings.TrimSpace(row[ColumnPathology])
		if name == "" {
			c.dropped = append(c.dropped, DroppedRow{Line: i + 1, Reason: "empty pathology name"})
			continue
		}
		if _, exists := c.byName[name]; exists {
			c.dropped = append(c.dropped, DroppedRow{Line: i + 1, Name: name, Reason: "duplicate pathology name"})
			continue
		}

		c.byName[name] = PathologyDefinition{
			Name:         name,
			Observation:  strings.TrimSpace(row[ColumnObservation]),
			Impression:   strings.TrimSpace(row[ColumnImpression]),
			RequiresSide: parseFlag(row[ColumnSide]),
			RequiresLobe: parseFlag(row[ColumnLobe]),
			RequiresMm:   parseFlag(row[ColumnMm]),
		}
		c.order = append(c.order, name)
	}

	return c, nil
}

// parseFlag maps exactly "TRUE" to true. Anything else is false: an absent
// cell, other casings, and a TRUE padded with whitespace.
func parseFlag(raw string) bool {
	return raw == "TRUE"
}

// missingColumns checks the header of a header-keyed source. Every row built
// from the same header carries the same keys, so the first row is enough.
func missingColumns(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := rows[0][col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// Lookup returns the definition registered under name.
func (c *Catalog) Lookup(name string) (PathologyDefinition, bool) {
	def, ok := c.byName[name]
	return def, ok
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.order) }

// Names returns pathology names in source order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Definitions returns all definitions in source order.
func (c *Catalog) Definitions() []PathologyDefinition {
	out := make([]PathologyDefinition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// Search returns the definitions whose name contains term, ignoring case.
// An empty term matches everything.
func (c *Catalog) Search(term string) []PathologyDefinition {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return c.Definitions()
	}

	var out []PathologyDefinition
	for _, name := range c.order {
		if strings.Contains(strings.ToLower(name), term) {
			out = append(out, c.byName[name])
		}
	}
	return out
}

// Dropped returns the rows skipped during Load.
func (c *Catalog) Dropped() []DroppedRow {
	out := make([]DroppedRow, len(c.dropped))
	copy(out, c.dropped)
	return out
}
