package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_AddAssignsMonotonicIDs(t *testing.T) {
	var l List
	a := l.Add(Entry{PathologyName: "Nodule"})
	b := l.Add(Entry{PathologyName: "Nodule"})
	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)

	l.Clear()
	c := l.Add(Entry{PathologyName: "Infarct"})
	assert.Equal(t, 3, c.ID, "ids are not reused after Clear")
}

func TestList_RemoveByIDWithDuplicates(t *testing.T) {
	var l List
	first := l.Add(Entry{PathologyName: "Nodule", Sides: []Side{SideLeft}})
	l.Add(Entry{PathologyName: "Infarct"})
	third := l.Add(Entry{PathologyName: "Nodule", Sides: []Side{SideRight}})

	require.True(t, l.Remove(third.ID))

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, []Side{SideLeft}, entries[0].Sides)
	assert.Equal(t, "Infarct", entries[1].PathologyName)

	assert.False(t, l.Remove(third.ID), "already removed")
	assert.False(t, l.Remove(99))
	assert.Equal(t, 2, l.Len())
}

func TestList_Revision(t *testing.T) {
	var l List
	assert.Equal(t, 0, l.Revision())

	e := l.Add(Entry{PathologyName: "Nodule"})
	assert.Equal(t, 1, l.Revision())

	l.Remove(42)
	assert.Equal(t, 1, l.Revision(), "failed removal is not a mutation")

	l.Remove(e.ID)
	assert.Equal(t, 2, l.Revision())

	l.Clear()
	assert.Equal(t, 2, l.Revision(), "clearing an empty list is not a mutation")
}

func TestList_EntriesIsACopy(t *testing.T) {
	var l List
	l.Add(Entry{PathologyName: "Nodule", Lobes: []Lobe{LobeFrontal}})

	entries := l.Entries()
	entries[0].PathologyName = "changed"
	entries[0].Lobes[0] = LobeOccipital

	got, ok := l.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Nodule", got.PathologyName)
	assert.Equal(t, []Lobe{LobeFrontal}, got.Lobes)
}

func TestList_Snapshot(t *testing.T) {
	var l List
	l.Add(Entry{PathologyName: "Nodule"})
	l.Add(Entry{PathologyName: "Infarct"})

	snap := l.Snapshot()
	assert.Equal(t, 2, snap.Revision)
	assert.Len(t, snap.Entries, 2)

	l.Clear()
	assert.Len(t, snap.Entries, 2)
}

func TestEntry_Qualifiers(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"none", Entry{}, ""},
		{"side only", Entry{Sides: []Side{SideLeft, SideRight}}, "Left, Right"},
		{
			name:  "all",
			entry: Entry{Sides: []Side{SideLeft}, Lobes: []Lobe{LobeFrontal}, Sizes: []SizeBand{Size1To3mm}},
			want:  "Left; Frontal; 1-3 mm",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Qualifiers())
		})
	}
}
