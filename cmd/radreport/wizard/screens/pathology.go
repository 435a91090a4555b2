package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/radreport/cmd/radreport/wizard/components"
)

// PathologyScreen lets the user pick the finding to describe.
type PathologyScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	banner    string
	choice    string
	width     int
	height    int
	done      bool
	cancelled bool
}

// NewPathologyScreen creates the pathology picker over names, in catalog
// order. banner is shown above the form when not empty.
func NewPathologyScreen(names []string, banner string) *PathologyScreen {
	s := &PathologyScreen{
		helpPanel: components.NewHelpPanel(),
		banner:    banner,
	}
	if len(names) > 0 {
		s.choice = names[0]
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("pathology").
				Title("Pathology").
				Options(huh.NewOptions(names...)...).
				Filtering(true).
				Height(12).
				Value(&s.choice),
		),
	).WithShowHelp(false)

	return s
}

func (s *PathologyScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *PathologyScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (s *PathologyScreen) View() string {
	parts := []string{components.TitleStyle.Render("RADREPORT - Add Finding")}
	if s.banner != "" {
		parts = append(parts, components.Banner(s.banner, s.width), "")
	}
	parts = append(parts,
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("/: Filter | Enter: Select | Esc: Back"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Done returns true once a pathology was picked
func (s *PathologyScreen) Done() bool { return s.done }

// Cancelled returns true if the user backed out
func (s *PathologyScreen) Cancelled() bool { return s.cancelled }

// Choice returns the picked pathology name
func (s *PathologyScreen) Choice() string { return s.choice }
