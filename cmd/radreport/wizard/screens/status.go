package screens

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/radreport/cmd/radreport/wizard/components"
)

// LoadingScreen is shown while the catalog is read.
type LoadingScreen struct {
	spinner   spinner.Model
	source    string
	cancelled bool
}

func NewLoadingScreen(source string) *LoadingScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	return &LoadingScreen{spinner: sp, source: source}
}

func (s *LoadingScreen) Init() tea.Cmd {
	return s.spinner.Tick
}

func (s *LoadingScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
		s.cancelled = true
		return s, tea.Quit
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

func (s *LoadingScreen) View() string {
	return s.spinner.View() + " Loading pathologies from " + s.source + "...\n\n" +
		components.HintStyle.Render("Ctrl+C: Quit")
}

// Cancelled returns true if the user quit while loading
func (s *LoadingScreen) Cancelled() bool { return s.cancelled }
