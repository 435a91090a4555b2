package components

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginBottom(1)

	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	// WarningStyle is used for the catalog load banner.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	EntryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	QualifierStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Banner renders msg as a warning box, or nothing when msg is empty.
func Banner(msg string, width int) string {
	if msg == "" {
		return ""
	}
	style := WarningStyle
	if width > 4 {
		style = style.Width(width - 4)
	}
	return style.Render("⚠ " + msg)
}
