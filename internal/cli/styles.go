package cli

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")).Background(lipgloss.Color("57")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("247"))
	anchorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

func heading(text string) string {
	return headerStyle.Render(text)
}
