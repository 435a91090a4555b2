package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/radreport/internal/catalog"
)

func flag(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func row(name string, side, lobe, mm bool) catalog.Row {
	return catalog.Row{
		catalog.ColumnPathology:   name,
		catalog.ColumnObservation: fmt.Sprintf("%s observation.", name),
		catalog.ColumnImpression:  fmt.Sprintf("%s.", name),
		catalog.ColumnSide:        flag(side),
		catalog.ColumnLobe:        flag(lobe),
		catalog.ColumnMm:          flag(mm),
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	nodule := row("Nodule", true, true, true)
	nodule[catalog.ColumnObservation] = "A nodule is noted."
	nodule[catalog.ColumnImpression] = "Nodule."

	cat, err := catalog.Load([]catalog.Row{
		nodule,
		row("Normal study", false, false, false),
		row("Infarct", true, true, false),
		row("Subdural hematoma", true, false, true),
		row("Meningioma", false, false, true),
	})
	require.NoError(t, err)
	return cat
}

func TestStep_String(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{StepPathology, "ChoosePathology"},
		{StepSide, "ChooseSide"},
		{StepLobe, "ChooseLobe"},
		{StepMm, "ChooseMm"},
		{StepReady, "Ready"},
	}
	for _, tt := range tests {
		if got := tt.step.String(); got != tt.want {
			t.Errorf("Step(%d).String() = %q, want %q", tt.step, got, tt.want)
		}
	}
}

func TestChoosePathology_UnknownIsNoop(t *testing.T) {
	cat := testCatalog(t)
	s := ChoosePathology(State{}, cat, "Fracture")
	assert.True(t, s.IsInitial())
}

func TestChoosePathology_WhilePendingIsNoop(t *testing.T) {
	cat := testCatalog(t)
	s := ChoosePathology(State{}, cat, "Nodule")
	s2 := ChoosePathology(s, cat, "Normal study")
	assert.Equal(t, s, s2)
}

func TestRequiredStepsAreVisitedInOrder(t *testing.T) {
	// every combination of the three flags
	for mask := 0; mask < 8; mask++ {
		side, lobe, mm := mask&1 != 0, mask&2 != 0, mask&4 != 0
		name := fmt.Sprintf("P%d", mask)
		c, err := catalog.Load([]catalog.Row{row(name, side, lobe, mm)})
		require.NoError(t, err)

		t.Run(name, func(t *testing.T) {
			var visited []Step
			s := ChoosePathology(State{}, c, name)
			for s.Step != StepReady {
				visited = append(visited, s.Step)
				switch s.Step {
				case StepSide:
					s = ChooseSide(s, c, []Side{SideLeft})
				case StepLobe:
					s = ChooseLobe(s, c, []Lobe{LobeFrontal})
				case StepMm:
					s = ChooseMm(s, c, []SizeBand{Size1To3mm})
				default:
					t.Fatalf("unexpected step %v", s.Step)
				}
			}

			def, _ := c.Lookup(name)
			assert.Equal(t, RequiredSteps(def), visited)
			_, err := Validate(s, c)
			assert.NoError(t, err)
		})
	}
}

func TestChooseOutOfStepIsNoop(t *testing.T) {
	cat := testCatalog(t)
	s := ChoosePathology(State{}, cat, "Nodule")
	require.Equal(t, StepSide, s.Step)

	assert.Equal(t, s, ChooseLobe(s, cat, []Lobe{LobeFrontal}))
	assert.Equal(t, s, ChooseMm(s, cat, []SizeBand{SizeOver3mm}))

	initial := ChooseSide(State{}, cat, []Side{SideLeft})
	assert.True(t, initial.IsInitial())
}

func TestChooseSide_CanonicalSet(t *testing.T) {
	cat := testCatalog(t)
	s := ChoosePathology(State{}, cat, "Nodule")
	s = ChooseSide(s, cat, []Side{SideRight, SideLeft, SideRight, Side("Up")})
	assert.Equal(t, []Side{SideLeft, SideRight}, s.Sides)
	assert.Equal(t, StepLobe, s.Step)
}

func TestChooseSide_EmptySetStillAdvances(t *testing.T) {
	cat := testCatalog(t)
	s := ChoosePathology(State{}, cat, "Infarct")
	s = ChooseSide(s, cat, nil)
	assert.Equal(t, StepLobe, s.Step)

	s = ChooseLobe(s, cat, []Lobe{LobeTemporal})
	assert.Equal(t, StepReady, s.Step)

	_, err := Validate(s, cat)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []Attribute{AttributeSide}, verr.Missing)
}

func TestValidate_ReportsAllMissingInOrder(t *testing.T) {
	cat := testCatalog(t)
	s := ChoosePathology(State{}, cat, "Nodule")

	_, err := Validate(s, cat)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Nodule", verr.Pathology)
	assert.Equal(t, []Attribute{AttributeSide, AttributeLobe, AttributeMm}, verr.Missing)
	assert.True(t, verr.IsMissing(AttributeLobe))
	assert.Equal(t, "Nodule requires side, lobe, mm", verr.Error())
}

func TestValidate_NothingPending(t *testing.T) {
	_, err := Validate(State{}, testCatalog(t))
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestTransitionsDoNotAliasInput(t *testing.T) {
	cat := testCatalog(t)
	s := ChoosePathology(State{}, cat, "Nodule")
	sides := []Side{SideLeft}
	s = ChooseSide(s, cat, sides)
	sides[0] = SideRight
	assert.Equal(t, []Side{SideLeft}, s.Sides)
}
