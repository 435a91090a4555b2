package wizard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/radreport/cmd/radreport/wizard/screens"
	"github.com/mrsinham/radreport/internal/catalog"
	"github.com/mrsinham/radreport/internal/export"
	"github.com/mrsinham/radreport/internal/report"
	"github.com/mrsinham/radreport/internal/selection"
)

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhaseLoading Phase = iota
	PhasePathology
	PhaseSide
	PhaseLobe
	PhaseMm
	PhaseReview
	PhaseRemove
	PhaseReport
	PhaseSave
)

// phaseForStep returns the attribute phase that collects step.
func phaseForStep(step selection.Step) Phase {
	switch step {
	case selection.StepSide:
		return PhaseSide
	case selection.StepLobe:
		return PhaseLobe
	case selection.StepMm:
		return PhaseMm
	case selection.StepReady:
		return PhaseReview
	default:
		return PhasePathology
	}
}

// CatalogLoader reads the catalog. It returns a usable, possibly empty,
// catalog even when it also returns an error.
type CatalogLoader func(ctx context.Context) (*catalog.Catalog, error)

// CatalogLoadedMsg carries the result of the catalog load.
type CatalogLoadedMsg struct {
	Catalog *catalog.Catalog
	Err     error
}

// Options configures the wizard.
type Options struct {
	// Source is shown while the catalog loads.
	Source   string
	Load     CatalogLoader
	Compiler report.Compiler
	Meta     export.Meta
	Log      logrus.FieldLogger
	// Copy defaults to the system clipboard.
	Copy screens.CopyFunc
}

// Wizard is the main orchestrator for the wizard interface.
type Wizard struct {
	opts    Options
	phase   Phase
	cat     *catalog.Catalog
	session *selection.Session

	// last compiled report, nil until the first generate
	compiled *report.Report

	// banner is the catalog load warning; it is shown on one screen only.
	banner string
	status string
	errMsg string

	loadingScreen   *screens.LoadingScreen
	pathologyScreen *screens.PathologyScreen
	attributeScreen *screens.AttributeScreen
	reviewScreen    *screens.ReviewScreen
	removeScreen    *screens.RemoveScreen
	reportScreen    *screens.ReportScreen
	saveScreen      *screens.SaveScreen

	width  int
	height int

	// savePath is the last path entered on the save screen
	savePath string

	cancelled bool
}

// NewWizard creates a wizard waiting for its catalog.
func NewWizard(opts Options) *Wizard {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Load == nil {
		opts.Load = func(context.Context) (*catalog.Catalog, error) { return catalog.Empty(), nil }
	}

	return &Wizard{
		opts:          opts,
		phase:         PhaseLoading,
		cat:           catalog.Empty(),
		session:       selection.NewSession(catalog.Empty()),
		loadingScreen: screens.NewLoadingScreen(opts.Source),
	}
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return tea.Batch(w.loadingScreen.Init(), w.loadCatalog())
}

func (w *Wizard) loadCatalog() tea.Cmd {
	load := w.opts.Load
	return func() tea.Msg {
		cat, err := load(context.Background())
		return CatalogLoadedMsg{Catalog: cat, Err: err}
	}
}

// resize replays the last window size to a freshly created screen.
func (w *Wizard) resize() tea.Cmd {
	if w.width == 0 && w.height == 0 {
		return nil
	}
	width, height := w.width, w.height
	return func() tea.Msg { return tea.WindowSizeMsg{Width: width, Height: height} }
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.cancelled = true
			return w, tea.Quit
		}
	case CatalogLoadedMsg:
		return w.onCatalogLoaded(msg)
	}

	switch w.phase {
	case PhaseLoading:
		model, cmd := w.loadingScreen.Update(msg)
		if ls, ok := model.(*screens.LoadingScreen); ok {
			w.loadingScreen = ls
		}
		return w, cmd
	case PhasePathology:
		return w.updatePathology(msg)
	case PhaseSide, PhaseLobe, PhaseMm:
		return w.updateAttribute(msg)
	case PhaseReview:
		return w.updateReview(msg)
	case PhaseRemove:
		return w.updateRemove(msg)
	case PhaseReport:
		return w.updateReport(msg)
	case PhaseSave:
		return w.updateSave(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhaseLoading:
		return w.loadingScreen.View()
	case PhasePathology:
		return w.pathologyScreen.View()
	case PhaseSide, PhaseLobe, PhaseMm:
		return w.attributeScreen.View()
	case PhaseReview:
		return w.reviewScreen.View()
	case PhaseRemove:
		return w.removeScreen.View()
	case PhaseReport:
		return w.reportScreen.View()
	case PhaseSave:
		return w.saveScreen.View()
	}
	return ""
}

// onCatalogLoaded swaps in the loaded catalog in one step. A load failure
// leaves an empty catalog and a warning banner.
func (w *Wizard) onCatalogLoaded(msg CatalogLoadedMsg) (tea.Model, tea.Cmd) {
	cat := msg.Catalog
	if cat == nil {
		cat = catalog.Empty()
	}
	w.cat = cat
	w.session = selection.NewSession(cat, selection.WithLogger(w.opts.Log))

	if msg.Err != nil {
		w.banner = fmt.Sprintf("Pathology catalog unavailable: %v", msg.Err)
		w.opts.Log.WithError(msg.Err).Warn("catalog load failed")
	} else {
		w.opts.Log.WithFields(logrus.Fields{
			"pathologies": cat.Len(),
			"dropped":     len(cat.Dropped()),
		}).Info("catalog loaded")
	}

	if cat.Len() == 0 {
		return w.transitionToReview()
	}
	return w.transitionToPathology()
}

// takeBanner returns the pending banner and forgets it.
func (w *Wizard) takeBanner() string {
	b := w.banner
	w.banner = ""
	return b
}

func (w *Wizard) transitionToPathology() (tea.Model, tea.Cmd) {
	w.phase = PhasePathology
	w.pathologyScreen = screens.NewPathologyScreen(w.cat.Names(), w.takeBanner())
	return w, tea.Batch(w.pathologyScreen.Init(), w.resize())
}

func (w *Wizard) updatePathology(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.pathologyScreen.Update(msg)
	if ps, ok := model.(*screens.PathologyScreen); ok {
		w.pathologyScreen = ps
	}

	if w.pathologyScreen.Cancelled() {
		w.session.Cancel()
		return w.transitionToReview()
	}

	if w.pathologyScreen.Done() {
		name := w.pathologyScreen.Choice()
		w.session.ChoosePathology(name)
		if w.session.Step() == selection.StepPathology {
			w.errMsg = fmt.Sprintf("Unknown pathology %q", name)
		}
		return w.advance()
	}

	return w, cmd
}

// pendingAttributes lists the qualifiers the pending pathology asks for.
func (w *Wizard) pendingAttributes() []selection.Attribute {
	def, ok := w.session.Pending()
	if !ok {
		return nil
	}
	var attrs []selection.Attribute
	for _, step := range selection.RequiredSteps(def) {
		if attr, ok := attributeForStep(step); ok {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// advance moves to the screen for the session's current step.
func (w *Wizard) advance() (tea.Model, tea.Cmd) {
	step := w.session.Step()
	attr, ok := attributeForStep(step)
	if !ok {
		return w.transitionToReview()
	}

	w.phase = phaseForStep(step)
	w.attributeScreen = screens.NewAttributeScreen(attr, w.session.State().Pathology, attributeOptions(attr), w.pendingAttributes())
	return w, tea.Batch(w.attributeScreen.Init(), w.resize())
}

func (w *Wizard) updateAttribute(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.attributeScreen.Update(msg)
	if as, ok := model.(*screens.AttributeScreen); ok {
		w.attributeScreen = as
	}

	if w.attributeScreen.Cancelled() {
		w.session.Cancel()
		return w.transitionToReview()
	}

	if w.attributeScreen.Done() {
		applyAttribute(w.session, w.attributeScreen.Attribute(), w.attributeScreen.Values())
		return w.advance()
	}

	return w, cmd
}

// reviewActions lists what the user may do from the review screen.
func (w *Wizard) reviewActions() []screens.Action {
	var actions []screens.Action
	pending := w.session.State().Pathology != ""

	if pending {
		actions = append(actions, screens.ActionCommit, screens.ActionCancel)
	} else if w.cat.Len() > 0 {
		actions = append(actions, screens.ActionAdd)
	}
	actions = append(actions, screens.ActionGenerate)
	if w.session.Len() > 0 {
		actions = append(actions, screens.ActionRemove)
	}
	if w.session.Len() > 0 || pending {
		actions = append(actions, screens.ActionClear)
	}
	return append(actions, screens.ActionQuit)
}

func (w *Wizard) transitionToReview() (tea.Model, tea.Cmd) {
	w.phase = PhaseReview
	w.reviewScreen = screens.NewReviewScreen(screens.ReviewData{
		Entries: w.session.Entries(),
		Pending: w.session.State().Pathology,
		Actions: w.reviewActions(),
		Banner:  w.takeBanner(),
		Status:  w.status,
		Err:     w.errMsg,
		Stale:   w.compiled != nil && w.session.ReportStale(),
	})
	w.status, w.errMsg = "", ""
	return w, tea.Batch(w.reviewScreen.Init(), w.resize())
}

func (w *Wizard) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.reviewScreen.Update(msg)
	if rs, ok := model.(*screens.ReviewScreen); ok {
		w.reviewScreen = rs
	}

	if w.reviewScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.reviewScreen.Done() {
		return w.runAction(w.reviewScreen.Choice())
	}

	return w, cmd
}

func (w *Wizard) runAction(action screens.Action) (tea.Model, tea.Cmd) {
	switch action {
	case screens.ActionCommit:
		entry, err := w.session.Commit()
		if err != nil {
			w.errMsg = err.Error()
		} else {
			w.status = fmt.Sprintf("Added #%d %s", entry.ID, entry.PathologyName)
		}
		return w.transitionToReview()
	case screens.ActionCancel:
		w.session.Cancel()
		return w.transitionToReview()
	case screens.ActionAdd:
		return w.transitionToPathology()
	case screens.ActionGenerate:
		return w.generate()
	case screens.ActionRemove:
		return w.transitionToRemove()
	case screens.ActionClear:
		w.session.ClearAll()
		w.status = "Report cleared"
		return w.transitionToReview()
	case screens.ActionQuit:
		return w, tea.Quit
	}
	return w.transitionToReview()
}

func (w *Wizard) transitionToRemove() (tea.Model, tea.Cmd) {
	w.phase = PhaseRemove
	w.removeScreen = screens.NewRemoveScreen(w.session.Entries())
	return w, tea.Batch(w.removeScreen.Init(), w.resize())
}

func (w *Wizard) updateRemove(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.removeScreen.Update(msg)
	if rs, ok := model.(*screens.RemoveScreen); ok {
		w.removeScreen = rs
	}

	if w.removeScreen.Cancelled() {
		return w.transitionToReview()
	}

	if w.removeScreen.Done() {
		id := w.removeScreen.Choice()
		if w.session.Remove(id) {
			w.status = fmt.Sprintf("Removed #%d", id)
		} else {
			w.errMsg = fmt.Sprintf("No finding #%d", id)
		}
		return w.transitionToReview()
	}

	return w, cmd
}

// generate compiles the current list and shows it.
func (w *Wizard) generate() (tea.Model, tea.Cmd) {
	r := w.opts.Compiler.CompileSession(w.session)
	w.compiled = &r
	w.opts.Log.WithFields(logrus.Fields{
		"entries":  r.EntryCount,
		"revision": r.Revision,
		"format":   r.Format,
	}).Info("report generated")
	return w.transitionToReport()
}

func (w *Wizard) transitionToReport() (tea.Model, tea.Cmd) {
	w.phase = PhaseReport
	w.reportScreen = screens.NewReportScreen(*w.compiled, w.opts.Copy, w.width, w.height)
	return w, w.reportScreen.Init()
}

func (w *Wizard) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.reportScreen.Update(msg)
	if rs, ok := model.(*screens.ReportScreen); ok {
		w.reportScreen = rs
	}

	switch {
	case w.reportScreen.Quit():
		return w, tea.Quit
	case w.reportScreen.SaveRequested():
		return w.transitionToSave()
	case w.reportScreen.Done():
		return w.transitionToReview()
	}

	return w, cmd
}

func (w *Wizard) transitionToSave() (tea.Model, tea.Cmd) {
	w.phase = PhaseSave
	if w.savePath == "" {
		w.savePath = "report.txt"
	}
	w.saveScreen = screens.NewSaveScreen(w.savePath)
	return w, tea.Batch(w.saveScreen.Init(), w.resize())
}

func (w *Wizard) updateSave(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.saveScreen.Update(msg)
	if ss, ok := model.(*screens.SaveScreen); ok {
		w.saveScreen = ss
	}

	if w.saveScreen.Cancelled() {
		return w.transitionToReport()
	}

	if w.saveScreen.Done() {
		return w.saveTo(w.saveScreen.Path())
	}

	return w, cmd
}

// saveTo writes the compiled report to path. A failure keeps the session and
// the compiled report and asks for a path again.
func (w *Wizard) saveTo(path string) (tea.Model, tea.Cmd) {
	w.savePath = path
	if err := saveReport(path, *w.compiled, w.opts.Meta); err != nil {
		w.opts.Log.WithError(err).WithField("path", path).Error("saving report failed")
		model, cmd := w.transitionToSave()
		w.saveScreen.WithError(err.Error())
		return model, cmd
	}
	w.opts.Log.WithField("path", path).Info("report saved")
	w.status = "Report saved to " + path
	return w.transitionToReview()
}

// Run starts the interactive report builder.
func Run(opts Options) error {
	p := tea.NewProgram(NewWizard(opts), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}
	return nil
}
