package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/mrsinham/radreport/internal/catalog"
)

// testContext holds state for a single scenario
type testContext struct {
	cat     *catalog.Catalog
	loadErr error
	session *Session
	lastErr error
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	tc := &testContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*tc = testContext{}
		return ctx, nil
	})

	sc.Step(`^a catalog with:$`, tc.aCatalogWith)
	sc.Step(`^I choose the pathology "([^"]*)"$`, tc.iChooseThePathology)
	sc.Step(`^I choose sides "([^"]*)"$`, tc.iChooseSides)
	sc.Step(`^I choose lobes "([^"]*)"$`, tc.iChooseLobes)
	sc.Step(`^I choose sizes "([^"]*)"$`, tc.iChooseSizes)
	sc.Step(`^I commit$`, tc.iCommit)
	sc.Step(`^I have committed "([^"]*)"$`, tc.iHaveCommitted)
	sc.Step(`^I remove entry (\d+)$`, tc.iRemoveEntry)
	sc.Step(`^I clear all$`, tc.iClearAll)
	sc.Step(`^the step should be "([^"]*)"$`, tc.theStepShouldBe)
	sc.Step(`^the commit should succeed$`, tc.theCommitShouldSucceed)
	sc.Step(`^the commit should fail listing "([^"]*)"$`, tc.theCommitShouldFailListing)
	sc.Step(`^the list should have (\d+) entr(?:y|ies)$`, tc.theListShouldHave)
	sc.Step(`^entry (\d+) should remain$`, tc.entryShouldRemain)
	sc.Step(`^the wizard should be in its initial state$`, tc.theWizardShouldBeInitial)
	sc.Step(`^loading should have failed$`, tc.loadingShouldHaveFailed)
	sc.Step(`^looking up "([^"]*)" should find nothing$`, tc.lookingUpShouldFindNothing)
}

func (tc *testContext) aCatalogWith(table *godog.Table) error {
	if len(table.Rows) == 0 {
		return errors.New("catalog table has no header")
	}
	var header []string
	for _, cell := range table.Rows[0].Cells {
		header = append(header, cell.Value)
	}

	var rows []catalog.Row
	for _, r := range table.Rows[1:] {
		row := make(catalog.Row, len(header))
		for i, cell := range r.Cells {
			row[header[i]] = cell.Value
		}
		rows = append(rows, row)
	}

	tc.cat, tc.loadErr = catalog.Load(rows)
	tc.session = NewSession(tc.cat)
	return nil
}

func (tc *testContext) iChooseThePathology(name string) error {
	tc.session.ChoosePathology(name)
	return nil
}

func (tc *testContext) iChooseSides(input string) error {
	values, err := ParseSides(input)
	if err != nil {
		return err
	}
	tc.session.ChooseSide(values)
	return nil
}

func (tc *testContext) iChooseLobes(input string) error {
	values, err := ParseLobes(input)
	if err != nil {
		return err
	}
	tc.session.ChooseLobe(values)
	return nil
}

func (tc *testContext) iChooseSizes(input string) error {
	values, err := ParseSizeBands(input)
	if err != nil {
		return err
	}
	tc.session.ChooseMm(values)
	return nil
}

func (tc *testContext) iCommit() error {
	_, tc.lastErr = tc.session.Commit()
	return nil
}

func (tc *testContext) iHaveCommitted(name string) error {
	tc.session.ChoosePathology(name)
	if _, err := tc.session.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	return nil
}

func (tc *testContext) iRemoveEntry(id int) error {
	if !tc.session.Remove(id) {
		return fmt.Errorf("entry %d not found", id)
	}
	return nil
}

func (tc *testContext) iClearAll() error {
	tc.session.ClearAll()
	return nil
}

func (tc *testContext) theStepShouldBe(want string) error {
	if got := tc.session.Step().String(); got != want {
		return fmt.Errorf("step = %s, want %s", got, want)
	}
	return nil
}

func (tc *testContext) theCommitShouldSucceed() error {
	if tc.lastErr != nil {
		return fmt.Errorf("commit failed: %w", tc.lastErr)
	}
	return nil
}

func (tc *testContext) theCommitShouldFailListing(want string) error {
	var verr *ValidationError
	if !errors.As(tc.lastErr, &verr) {
		return fmt.Errorf("expected a validation error, got %v", tc.lastErr)
	}
	names := make([]string, len(verr.Missing))
	for i, a := range verr.Missing {
		names[i] = string(a)
	}
	if got := strings.Join(names, ", "); got != want {
		return fmt.Errorf("missing = %q, want %q", got, want)
	}
	return nil
}

func (tc *testContext) theListShouldHave(n int) error {
	if got := tc.session.Len(); got != n {
		return fmt.Errorf("list has %d entries, want %d", got, n)
	}
	return nil
}

func (tc *testContext) entryShouldRemain(id int) error {
	for _, e := range tc.session.Entries() {
		if e.ID == id {
			return nil
		}
	}
	return fmt.Errorf("entry %d was removed", id)
}

func (tc *testContext) theWizardShouldBeInitial() error {
	if st := tc.session.State(); !st.IsInitial() {
		return fmt.Errorf("wizard state = %+v, want initial", st)
	}
	return nil
}

func (tc *testContext) loadingShouldHaveFailed() error {
	var le *catalog.LoadError
	if !errors.As(tc.loadErr, &le) {
		return fmt.Errorf("expected a load error, got %v", tc.loadErr)
	}
	return nil
}

func (tc *testContext) lookingUpShouldFindNothing(name string) error {
	if _, ok := tc.cat.Lookup(name); ok {
		return fmt.Errorf("lookup(%q) found a definition", name)
	}
	return nil
}
