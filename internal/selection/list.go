package selection

import (
	"slices"
	"strings"
)

// Entry is a committed finding. It is never modified once committed.
type Entry struct {
	ID            int        `yaml:"id" json:"id"`
	PathologyName string     `yaml:"pathology" json:"pathology"`
	Observation   string     `yaml:"observation" json:"observation"`
	Impression    string     `yaml:"impression" json:"impression"`
	Sides         []Side     `yaml:"sides,omitempty" json:"sides,omitempty"`
	Lobes         []Lobe     `yaml:"lobes,omitempty" json:"lobes,omitempty"`
	Sizes         []SizeBand `yaml:"sizes,omitempty" json:"sizes,omitempty"`
}

// Qualifiers renders the chosen attributes, e.g. "Left; Frontal; 1-3 mm".
func (e Entry) Qualifiers() string {
	var parts []string
	if len(e.Sides) > 0 {
		parts = append(parts, JoinValues(e.Sides))
	}
	if len(e.Lobes) > 0 {
		parts = append(parts, JoinValues(e.Lobes))
	}
	if len(e.Sizes) > 0 {
		parts = append(parts, JoinValues(e.Sizes))
	}
	return strings.Join(parts, "; ")
}

func (e Entry) clone() Entry {
	e.Sides = slices.Clone(e.Sides)
	e.Lobes = slices.Clone(e.Lobes)
	e.Sizes = slices.Clone(e.Sizes)
	return e
}

// List is the ordered set of committed findings. Insertion order is report
// order. Every mutation bumps the revision.
type List struct {
	entries  []Entry
	lastID   int
	revision int
}

// Add appends e with the next identifier and returns the stored entry.
// Identifiers are never reused, not even after Clear.
func (l *List) Add(e Entry) Entry {
	l.lastID++
	e = e.clone()
	e.ID = l.lastID
	l.entries = append(l.entries, e)
	l.revision++
	return e.clone()
}

// Remove deletes the entry with the given identifier.
func (l *List) Remove(id int) bool {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = slices.Delete(l.entries, i, i+1)
			l.revision++
			return true
		}
	}
	return false
}

// Clear removes every entry.
func (l *List) Clear() {
	if len(l.entries) == 0 {
		return
	}
	l.entries = nil
	l.revision++
}

// Get returns the entry with the given identifier.
func (l *List) Get(id int) (Entry, bool) {
	for _, e := range l.entries {
		if e.ID == id {
			return e.clone(), true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the entries in report order.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of entries
func (l *List) Len() int { return len(l.entries) }

// Revision counts mutations since the list was created.
func (l *List) Revision() int { return l.revision }

// Snapshot is a point-in-time copy of a list.
type Snapshot struct {
	Entries  []Entry
	Revision int
}

// Snapshot returns the current entries together with the revision.
func (l *List) Snapshot() Snapshot {
	return Snapshot{Entries: l.Entries(), Revision: l.revision}
}
