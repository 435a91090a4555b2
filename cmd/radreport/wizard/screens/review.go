package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/radreport/cmd/radreport/wizard/components"
	"github.com/mrsinham/radreport/internal/selection"
)

// Action is a choice offered on the review screen.
type Action string

const (
	ActionCommit   Action = "commit"
	ActionCancel   Action = "cancel"
	ActionAdd      Action = "add"
	ActionGenerate Action = "generate"
	ActionRemove   Action = "remove"
	ActionClear    Action = "clear"
	ActionQuit     Action = "quit"
)

// ReviewData is what the review screen shows above its menu.
type ReviewData struct {
	Entries []selection.Entry
	// Pending names the pathology waiting to be committed, if any.
	Pending string
	Actions []Action
	Banner  string
	Status  string
	Err     string
	Stale   bool
}

// ReviewScreen lists the committed findings and offers the next action.
type ReviewScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	data      ReviewData
	choice    Action
	width     int
	height    int
	done      bool
	cancelled bool
}

func actionLabel(a Action, pending string) string {
	switch a {
	case ActionCommit:
		return fmt.Sprintf("Add %s to report", pending)
	case ActionCancel:
		return fmt.Sprintf("Cancel %s", pending)
	case ActionAdd:
		return "Add a finding"
	case ActionGenerate:
		return "Generate report"
	case ActionRemove:
		return "Remove a finding"
	case ActionClear:
		return "Clear all"
	case ActionQuit:
		return "Quit"
	default:
		return string(a)
	}
}

func NewReviewScreen(data ReviewData) *ReviewScreen {
	s := &ReviewScreen{
		helpPanel: components.NewHelpPanel(),
		data:      data,
	}
	if len(data.Actions) > 0 {
		s.choice = data.Actions[0]
	}

	opts := make([]huh.Option[Action], 0, len(data.Actions))
	for _, a := range data.Actions {
		opts = append(opts, huh.NewOption(actionLabel(a, data.Pending), a))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Key("action").
				Title("What next?").
				Options(opts...).
				Value(&s.choice),
		),
	).WithShowHelp(false)

	return s
}

func (s *ReviewScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *ReviewScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.cancelled = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.helpPanel.SetSize(msg.Width/2, msg.Height/3)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// RenderEntries lists entries one per line with their qualifiers.
func RenderEntries(entries []selection.Entry) string {
	if len(entries) == 0 {
		return components.QualifierStyle.Render("  No findings yet.")
	}
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(components.EntryStyle.Render(fmt.Sprintf("  #%d %s", e.ID, e.PathologyName)))
		if q := e.Qualifiers(); q != "" {
			sb.WriteString(" ")
			sb.WriteString(components.QualifierStyle.Render("(" + q + ")"))
		}
	}
	return sb.String()
}

func (s *ReviewScreen) View() string {
	parts := []string{components.TitleStyle.Render("RADREPORT - Findings")}
	if s.data.Banner != "" {
		parts = append(parts, components.Banner(s.data.Banner, s.width), "")
	}

	parts = append(parts, RenderEntries(s.data.Entries), "")
	if s.data.Pending != "" {
		parts = append(parts, components.SubtitleStyle.Render("Pending: "+s.data.Pending))
	}
	if s.data.Stale {
		parts = append(parts, components.HintStyle.Render("Findings changed since the last report."))
	}
	if s.data.Status != "" {
		parts = append(parts, components.StatusStyle.Render(s.data.Status))
	}
	if s.data.Err != "" {
		parts = append(parts, components.ErrorStyle.Render(s.data.Err))
	}

	parts = append(parts,
		"",
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Enter: Select | Esc: Quit"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Done returns true once an action was chosen
func (s *ReviewScreen) Done() bool { return s.done }

// Cancelled returns true if the user pressed esc
func (s *ReviewScreen) Cancelled() bool { return s.cancelled }

// Choice returns the chosen action
func (s *ReviewScreen) Choice() Action { return s.choice }
