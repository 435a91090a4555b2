package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/radreport/cmd/radreport/wizard/help"
)

var (
	helpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	helpDetailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	stepDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stepCurrentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	stepTodoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const minPanelWidth = 24

// HelpPanel explains the focused field and, while a finding is pending,
// which of its qualifiers are collected, current and still to come.
type HelpPanel struct {
	field  string
	steps  []string
	at     int
	width  int
	height int
}

func NewHelpPanel() *HelpPanel {
	return &HelpPanel{width: 60, at: -1}
}

// SetField updates which field's help to display
func (h *HelpPanel) SetField(field string) {
	h.field = field
}

// SetProgress records the qualifier steps of the pending finding and the one
// being asked. A current step missing from steps shows every step as to come.
func (h *HelpPanel) SetProgress(steps []string, current string) {
	h.steps = steps
	h.at = -1
	for i, s := range steps {
		if s == current {
			h.at = i
		}
	}
}

// SetSize bounds the panel. A zero height leaves the text unclipped.
func (h *HelpPanel) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Progress renders the step line, e.g. "✓ side › lobe › mm".
func (h *HelpPanel) Progress() string {
	if len(h.steps) == 0 {
		return ""
	}
	parts := make([]string, len(h.steps))
	for i, s := range h.steps {
		switch {
		case h.at >= 0 && i < h.at:
			parts[i] = stepDoneStyle.Render("✓ " + s)
		case i == h.at:
			parts[i] = stepCurrentStyle.Render("▸ " + s)
		default:
			parts[i] = stepTodoStyle.Render(s)
		}
	}
	return strings.Join(parts, stepTodoStyle.Render(" › "))
}

// View renders the panel. It is empty for a field without help text and no
// pending finding.
func (h *HelpPanel) View() string {
	text, ok := help.Texts[h.field]
	progress := h.Progress()
	if !ok && progress == "" {
		return ""
	}

	var blocks []string
	if ok {
		blocks = append(blocks, helpTitleStyle.Render(text.Title), helpDescStyle.Render(text.Description))
		if text.Details != "" {
			blocks = append(blocks, helpDetailStyle.Render(text.Details))
		}
	}
	if progress != "" {
		blocks = append(blocks, progress)
	}

	width := max(h.width-4, minPanelWidth)
	body := clipLines(strings.Join(blocks, "\n\n"), h.height-2)
	return helpPanelStyle.Width(width).Render(body)
}

// clipLines keeps the first n lines of s, ending with an ellipsis when lines
// were dropped. n <= 0 keeps everything.
func clipLines(s string, n int) string {
	if n <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	lines = lines[:n]
	lines[n-1] = "…"
	return strings.Join(lines, "\n")
}
