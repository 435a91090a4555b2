package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/radreport/cmd/radreport/wizard/components"
	"github.com/mrsinham/radreport/internal/selection"
)

// RemoveScreen picks one committed entry by its identifier.
type RemoveScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	choice    int
	done      bool
	cancelled bool
}

// EntryLabel is the label used to tell entries apart, duplicates included.
func EntryLabel(e selection.Entry) string {
	label := fmt.Sprintf("#%d %s", e.ID, e.PathologyName)
	if q := e.Qualifiers(); q != "" {
		label += " (" + q + ")"
	}
	return label
}

func NewRemoveScreen(entries []selection.Entry) *RemoveScreen {
	s := &RemoveScreen{helpPanel: components.NewHelpPanel()}

	opts := make([]huh.Option[int], 0, len(entries))
	for _, e := range entries {
		opts = append(opts, huh.NewOption(EntryLabel(e), e.ID))
	}
	if len(entries) > 0 {
		s.choice = entries[0].ID
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Key("remove").
				Title("Remove which finding?").
				Options(opts...).
				Value(&s.choice),
		),
	).WithShowHelp(false)

	return s
}

func (s *RemoveScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *RemoveScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.cancelled = true
			return s, nil
		}
	case tea.WindowSizeMsg:
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

func (s *RemoveScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("REMOVE FINDING"),
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Enter: Remove | Esc: Back"),
	)
}

// Done returns true once an entry was picked
func (s *RemoveScreen) Done() bool { return s.done }

// Cancelled returns true if the user backed out
func (s *RemoveScreen) Cancelled() bool { return s.cancelled }

// Choice returns the identifier of the picked entry
func (s *RemoveScreen) Choice() int { return s.choice }
