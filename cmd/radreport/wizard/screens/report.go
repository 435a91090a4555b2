package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/radreport/cmd/radreport/wizard/components"
	"github.com/mrsinham/radreport/internal/report"
)

// CopyFunc puts text on the clipboard.
type CopyFunc func(text string) error

var sectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("63"))

// ReportScreen shows a compiled report in a scrollable viewport.
type ReportScreen struct {
	viewport viewport.Model
	report   report.Report
	copyFn   CopyFunc
	status   string
	err      string
	done     bool
	save     bool
	quit     bool
}

func NewReportScreen(r report.Report, copyFn CopyFunc, width, height int) *ReportScreen {
	s := &ReportScreen{report: r, copyFn: copyFn}
	s.viewport = viewport.New(viewportSize(width, height))
	s.viewport.SetContent(RenderReport(r))
	return s
}

func viewportSize(width, height int) (int, int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	h := height - 8
	if h < 5 {
		h = 5
	}
	return width - 2, h
}

// RenderReport lays out both sections as they are copied.
func RenderReport(r report.Report) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("OBSERVATIONS"))
	sb.WriteString("\n")
	if len(r.Observations) == 0 {
		sb.WriteString(components.QualifierStyle.Render("No findings."))
	} else {
		sb.WriteString(r.ObservationText())
	}
	sb.WriteString("\n\n")
	sb.WriteString(sectionStyle.Render("IMPRESSIONS"))
	sb.WriteString("\n")
	if len(r.Impressions) == 0 {
		sb.WriteString(components.QualifierStyle.Render("No findings."))
	} else {
		sb.WriteString(r.ImpressionText())
	}
	return sb.String()
}

func (s *ReportScreen) Init() tea.Cmd {
	return nil
}

func (s *ReportScreen) copyText(name, text string) {
	s.status, s.err = "", ""
	if s.copyFn == nil {
		s.err = "clipboard unavailable"
		return
	}
	if err := s.copyFn(text); err != nil {
		s.err = fmt.Sprintf("Failed to copy %s: %v", name, err)
		return
	}
	s.status = fmt.Sprintf("Copied %s to clipboard", name)
}

func (s *ReportScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "o":
			s.copyText("observations", s.report.ObservationText())
			return s, nil
		case "i":
			s.copyText("impressions", s.report.ImpressionText())
			return s, nil
		case "s":
			s.save = true
			return s, nil
		case "esc", "b", "enter":
			s.done = true
			return s, nil
		case "q":
			s.quit = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.viewport.Width, s.viewport.Height = viewportSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *ReportScreen) View() string {
	title := components.TitleStyle.Render(fmt.Sprintf("REPORT - %d finding(s), %s", s.report.EntryCount, s.report.Format))

	parts := []string{title, s.viewport.View(), ""}
	if s.status != "" {
		parts = append(parts, components.StatusStyle.Render(s.status))
	}
	if s.err != "" {
		parts = append(parts, components.ErrorStyle.Render(s.err))
	}
	parts = append(parts, components.HintStyle.Render("o: Copy observations | i: Copy impressions | s: Save | Esc: Back | q: Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Done returns true when the user goes back to the findings
func (s *ReportScreen) Done() bool { return s.done }

// SaveRequested returns true when the user asked to save the report
func (s *ReportScreen) SaveRequested() bool { return s.save }

// Quit returns true when the user asked to leave the wizard
func (s *ReportScreen) Quit() bool { return s.quit }

// Status returns the last clipboard message, if any
func (s *ReportScreen) Status() string { return s.status }

// Err returns the last clipboard error, if any
func (s *ReportScreen) Err() string { return s.err }
