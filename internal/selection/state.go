// Package selection implements the finding selection wizard: a step machine
// that gathers the qualifiers a pathology requires, and the ordered list of
// committed findings.
package selection

import (
	"github.com/mrsinham/radreport/internal/catalog"
)

// Step is the wizard's current position
type Step int

const (
	StepPathology Step = iota
	StepSide
	StepLobe
	StepMm
	StepReady
)

// String returns the step name
func (s Step) String() string {
	switch s {
	case StepSide:
		return "ChooseSide"
	case StepLobe:
		return "ChooseLobe"
	case StepMm:
		return "ChooseMm"
	case StepReady:
		return "Ready"
	default:
		return "ChoosePathology"
	}
}

// Catalog is the read-only view of the reference catalog the wizard needs.
type Catalog interface {
	Lookup(name string) (catalog.PathologyDefinition, bool)
}

// State is the pending selection. The zero value is the initial state.
type State struct {
	Step      Step
	Pathology string
	Sides     []Side
	Lobes     []Lobe
	Sizes     []SizeBand
}

// IsInitial reports whether nothing is pending.
func (s State) IsInitial() bool {
	return s.Step == StepPathology && s.Pathology == "" &&
		len(s.Sides) == 0 && len(s.Lobes) == 0 && len(s.Sizes) == 0
}

// RequiredSteps returns the attribute steps def requires, in visiting order.
func RequiredSteps(def catalog.PathologyDefinition) []Step {
	var steps []Step
	if def.RequiresSide {
		steps = append(steps, StepSide)
	}
	if def.RequiresLobe {
		steps = append(steps, StepLobe)
	}
	if def.RequiresMm {
		steps = append(steps, StepMm)
	}
	return steps
}

// nextStep returns the first required step after current, or StepReady.
func nextStep(def catalog.PathologyDefinition, current Step) Step {
	for _, s := range RequiredSteps(def) {
		if s > current {
			return s
		}
	}
	return StepReady
}

// ChoosePathology starts a selection. Unknown names and calls made while a
// selection is already pending leave the state unchanged.
func ChoosePathology(s State, cat Catalog, name string) State {
	if s.Step != StepPathology {
		return s
	}
	def, ok := cat.Lookup(name)
	if !ok {
		return s
	}
	return State{
		Step:      nextStep(def, StepPathology),
		Pathology: def.Name,
	}
}

// ChooseSide stores the side set and advances.
func ChooseSide(s State, cat Catalog, values []Side) State {
	return advance(s, cat, StepSide, func(n *State) {
		n.Sides = canonical(values, AllSides())
	})
}

// ChooseLobe stores the lobe set and advances.
func ChooseLobe(s State, cat Catalog, values []Lobe) State {
	return advance(s, cat, StepLobe, func(n *State) {
		n.Lobes = canonical(values, AllLobes())
	})
}

// ChooseMm stores the size set and advances.
func ChooseMm(s State, cat Catalog, values []SizeBand) State {
	return advance(s, cat, StepMm, func(n *State) {
		n.Sizes = canonical(values, AllSizeBands())
	})
}

func advance(s State, cat Catalog, at Step, set func(*State)) State {
	if s.Step != at {
		return s
	}
	def, ok := cat.Lookup(s.Pathology)
	if !ok {
		return s
	}
	next := s
	set(&next)
	next.Step = nextStep(def, at)
	return next
}

// Validate checks the pending selection against its definition and returns
// the definition when every required attribute has been supplied.
func Validate(s State, cat Catalog) (catalog.PathologyDefinition, error) {
	if s.Pathology == "" {
		return catalog.PathologyDefinition{}, ErrNothingPending
	}
	def, ok := cat.Lookup(s.Pathology)
	if !ok {
		return catalog.PathologyDefinition{}, ErrNothingPending
	}

	var missing []Attribute
	if def.RequiresSide && len(s.Sides) == 0 {
		missing = append(missing, AttributeSide)
	}
	if def.RequiresLobe && len(s.Lobes) == 0 {
		missing = append(missing, AttributeLobe)
	}
	if def.RequiresMm && len(s.Sizes) == 0 {
		missing = append(missing, AttributeMm)
	}
	if len(missing) > 0 {
		return def, &ValidationError{Pathology: def.Name, Missing: missing}
	}
	return def, nil
}
