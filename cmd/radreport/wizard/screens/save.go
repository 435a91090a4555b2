package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/radreport/cmd/radreport/wizard/components"
)

// SaveScreen asks where to write the compiled report.
type SaveScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	path      string
	err       string
	done      bool
	cancelled bool
}

func NewSaveScreen(defaultPath string) *SaveScreen {
	s := &SaveScreen{
		helpPanel: components.NewHelpPanel(),
		path:      defaultPath,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("save_path").
				Title("Save report to").
				Description("The file extension selects the format").
				Value(&s.path).
				Validate(func(p string) error {
					if strings.TrimSpace(p) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return s
}

// WithError shows msg under the form, for a path that failed to save.
func (s *SaveScreen) WithError(msg string) *SaveScreen {
	s.err = msg
	return s
}

func (s *SaveScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *SaveScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (s *SaveScreen) View() string {
	parts := []string{components.TitleStyle.Render("Save Report"), s.form.View()}
	if s.err != "" {
		parts = append(parts, components.ErrorStyle.Render(s.err))
	}
	parts = append(parts,
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Enter: Save | Esc: Back"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Done returns true once a path was entered
func (s *SaveScreen) Done() bool { return s.done }

// Cancelled returns true if the user backed out
func (s *SaveScreen) Cancelled() bool { return s.cancelled }

// Err returns the save error being shown, if any
func (s *SaveScreen) Err() string { return s.err }

// Path returns the entered path, trimmed
func (s *SaveScreen) Path() string { return strings.TrimSpace(s.path) }
