package selection

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mrsinham/radreport/internal/catalog"
)

// Session owns one wizard state and the list it commits into.
// It is not safe for concurrent use; hosts serialise calls.
type Session struct {
	cat         Catalog
	state       State
	list        List
	log         logrus.FieldLogger
	compiledRev int
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger used for commit, removal and clear events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession creates a session over cat. A nil catalog behaves as an empty one.
func NewSession(cat Catalog, opts ...Option) *Session {
	if cat == nil {
		cat = catalog.Empty()
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Session{cat: cat, log: discard, compiledRev: -1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the pending selection.
func (s *Session) State() State {
	st := s.state
	st.Sides = append([]Side(nil), st.Sides...)
	st.Lobes = append([]Lobe(nil), st.Lobes...)
	st.Sizes = append([]SizeBand(nil), st.Sizes...)
	return st
}

// Step returns the current wizard step
func (s *Session) Step() Step { return s.state.Step }

// Pending returns the definition of the pending pathology, if any.
func (s *Session) Pending() (catalog.PathologyDefinition, bool) {
	if s.state.Pathology == "" {
		return catalog.PathologyDefinition{}, false
	}
	return s.cat.Lookup(s.state.Pathology)
}

// ChoosePathology starts a selection for name.
func (s *Session) ChoosePathology(name string) {
	s.state = ChoosePathology(s.state, s.cat, name)
}

// ChooseSide records the chosen sides
func (s *Session) ChooseSide(values []Side) {
	s.state = ChooseSide(s.state, s.cat, values)
}

// ChooseLobe records the chosen lobes
func (s *Session) ChooseLobe(values []Lobe) {
	s.state = ChooseLobe(s.state, s.cat, values)
}

// ChooseMm records the chosen size bands
func (s *Session) ChooseMm(values []SizeBand) {
	s.state = ChooseMm(s.state, s.cat, values)
}

// Commit validates the pending selection and appends it to the list.
// On error nothing changes.
func (s *Session) Commit() (Entry, error) {
	def, err := Validate(s.state, s.cat)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.log.WithFields(logrus.Fields{
				"pathology": verr.Pathology,
				"missing":   verr.Missing,
			}).Debug("commit rejected")
		}
		return Entry{}, err
	}

	entry := s.list.Add(Entry{
		PathologyName: def.Name,
		Observation:   def.Observation,
		Impression:    def.Impression,
		Sides:         s.state.Sides,
		Lobes:         s.state.Lobes,
		Sizes:         s.state.Sizes,
	})
	s.state = State{}

	s.log.WithFields(logrus.Fields{
		"pathology": entry.PathologyName,
		"entry_id":  entry.ID,
		"entries":   s.list.Len(),
	}).Debug("finding committed")
	return entry, nil
}

// Cancel drops the pending selection.
func (s *Session) Cancel() {
	s.state = State{}
}

// ClearAll drops the pending selection and every committed entry.
func (s *Session) ClearAll() {
	s.state = State{}
	s.list.Clear()
	s.log.Debug("findings cleared")
}

// Remove deletes the committed entry with the given identifier.
func (s *Session) Remove(id int) bool {
	ok := s.list.Remove(id)
	if ok {
		s.log.WithFields(logrus.Fields{
			"entry_id": id,
			"entries":  s.list.Len(),
		}).Debug("finding removed")
	}
	return ok
}

// Entries returns the committed entries in report order.
func (s *Session) Entries() []Entry { return s.list.Entries() }

// Len returns the number of committed entries
func (s *Session) Len() int { return s.list.Len() }

// Revision returns the list revision
func (s *Session) Revision() int { return s.list.Revision() }

// Snapshot returns the committed entries with the list revision.
func (s *Session) Snapshot() Snapshot { return s.list.Snapshot() }

// MarkCompiled records that a report was compiled from the given revision.
func (s *Session) MarkCompiled(revision int) {
	s.compiledRev = revision
}

// ReportStale reports whether the list changed since the last compile, or
// whether nothing was compiled yet.
func (s *Session) ReportStale() bool {
	return s.compiledRev != s.list.Revision()
}

// Finding is a complete selection supplied in one go, as the command line
// and the HTTP API receive it.
type Finding struct {
	Pathology string
	Sides     []Side
	Lobes     []Lobe
	Sizes     []SizeBand
}

// ErrUnknownPathology is returned by Apply for a name missing from the catalog.
var ErrUnknownPathology = errors.New("unknown pathology")

// Apply walks f through the wizard steps and commits it. Qualifiers the
// pathology does not require are ignored. On failure the pending selection
// is dropped and the list is unchanged.
func (s *Session) Apply(f Finding) (Entry, error) {
	s.Cancel()
	s.ChoosePathology(f.Pathology)
	if s.state.Pathology == "" {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownPathology, f.Pathology)
	}

	for s.state.Step != StepReady {
		switch s.state.Step {
		case StepSide:
			s.ChooseSide(f.Sides)
		case StepLobe:
			s.ChooseLobe(f.Lobes)
		case StepMm:
			s.ChooseMm(f.Sizes)
		default:
			s.Cancel()
			return Entry{}, fmt.Errorf("unexpected wizard step %s", s.state.Step)
		}
	}

	entry, err := s.Commit()
	if err != nil {
		s.Cancel()
		return Entry{}, err
	}
	return entry, nil
}
