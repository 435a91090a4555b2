// Package report compiles committed findings into observation and impression
// text.
package report

import (
	"strings"
	"time"

	"github.com/mrsinham/radreport/internal/selection"
)

// Compiler renders entries with a Format. The zero value uses PlainFormat.
type Compiler struct {
	Format Format
	// Now stamps compiled reports; time.Now when nil.
	Now func() time.Time
}

// NewCompiler returns a compiler for the named format.
func NewCompiler(format string) (Compiler, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return Compiler{}, err
	}
	return Compiler{Format: f}, nil
}

func (c Compiler) format() Format {
	if c.Format.Name == "" {
		return PlainFormat
	}
	return c.Format
}

// CompileObservations returns one observation line per entry, in order.
func (c Compiler) CompileObservations(entries []selection.Entry) []string {
	f := c.format()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, f.observation(e.Observation))
	}
	return lines
}

// CompileImpressions returns one bulleted impression line per entry, in order.
func (c Compiler) CompileImpressions(entries []selection.Entry) []string {
	f := c.format()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, f.impression(e.Impression))
	}
	return lines
}

// Report is a compiled snapshot. It does not follow later list changes.
type Report struct {
	Format       string
	Entries      []selection.Entry
	Observations []string
	Impressions  []string
	EntryCount   int
	Revision     int
	CompiledAt   time.Time
}

// Compile renders a list snapshot.
func (c Compiler) Compile(snap selection.Snapshot) Report {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return Report{
		Format:       c.format().Name,
		Entries:      snap.Entries,
		Observations: c.CompileObservations(snap.Entries),
		Impressions:  c.CompileImpressions(snap.Entries),
		EntryCount:   len(snap.Entries),
		Revision:     snap.Revision,
		CompiledAt:   now(),
	}
}

// CompileSession compiles the session's current list and records the
// revision on the session, so ReportStale turns false until the next change.
func (c Compiler) CompileSession(s *selection.Session) Report {
	r := c.Compile(s.Snapshot())
	s.MarkCompiled(r.Revision)
	return r
}

// ObservationText joins the observation lines for copying.
func (r Report) ObservationText() string {
	return strings.Join(r.Observations, "\n")
}

// ImpressionText joins the impression lines for copying.
func (r Report) ImpressionText() string {
	return strings.Join(r.Impressions, "\n")
}

// IsEmpty reports whether the report has no findings.
func (r Report) IsEmpty() bool { return r.EntryCount == 0 }

// Plain returns the same report rendered with PlainFormat. Exporters that
// carry their own layout use it to drop markup.
func (r Report) Plain() Report {
	if r.Format == PlainFormat.Name {
		return r
	}
	c := Compiler{Format: PlainFormat}
	p := r
	p.Format = PlainFormat.Name
	p.Observations = c.CompileObservations(r.Entries)
	p.Impressions = c.CompileImpressions(r.Entries)
	return p
}

// Text returns both sections under headings, as written to text files.
func (r Report) Text() string {
	var sb strings.Builder
	sb.WriteString("OBSERVATIONS\n")
	sb.WriteString(r.ObservationText())
	sb.WriteString("\n\nIMPRESSIONS\n")
	sb.WriteString(r.ImpressionText())
	sb.WriteString("\n")
	return sb.String()
}
