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

var attributeTitles = map[selection.Attribute]string{
	selection.AttributeSide: "Side",
	selection.AttributeLobe: "Lobe",
	selection.AttributeMm:   "Size (mm)",
}

// AttributeScreen asks for one qualifying attribute of the pending finding.
// Values are collected as strings and converted by the caller.
type AttributeScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	attr      selection.Attribute
	pathology string
	values    []string
	width     int
	height    int
	done      bool
	cancelled bool
}

// NewAttributeScreen builds the multi-select for attr with the given options.
// steps lists every attribute the pathology requires, in asking order.
func NewAttributeScreen(attr selection.Attribute, pathology string, options []string, steps []selection.Attribute) *AttributeScreen {
	s := &AttributeScreen{
		helpPanel: components.NewHelpPanel(),
		attr:      attr,
		pathology: pathology,
	}
	s.helpPanel.SetField(string(attr))
	names := make([]string, len(steps))
	for i, a := range steps {
		names[i] = string(a)
	}
	s.helpPanel.SetProgress(names, string(attr))

	title, ok := attributeTitles[attr]
	if !ok {
		title = string(attr)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key(string(attr)).
				Title(title).
				Description(fmt.Sprintf("for %s", pathology)).
				Options(huh.NewOptions(options...)...).
				Value(&s.values),
		),
	).WithShowHelp(false)

	return s
}

func (s *AttributeScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *AttributeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (s *AttributeScreen) View() string {
	title := components.TitleStyle.Render(strings.ToUpper(s.pathology))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Space: Toggle | Enter: Next | Esc: Cancel finding"),
	)
}

// Done returns true once the values were submitted
func (s *AttributeScreen) Done() bool { return s.done }

// Cancelled returns true if the user dropped the pending finding
func (s *AttributeScreen) Cancelled() bool { return s.cancelled }

// Attribute returns the attribute this screen asks for
func (s *AttributeScreen) Attribute() selection.Attribute { return s.attr }

// Progress renders which qualifiers are collected and which remain
func (s *AttributeScreen) Progress() string { return s.helpPanel.Progress() }

// Values returns the selected option labels
func (s *AttributeScreen) Values() []string { return s.values }
