package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/finsight/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and the
// load state on the right.
func RenderStatusBar(width int, hints, state string, stateColor lipgloss.Color) string {
	t := theme.Active
	if stateColor == "" {
		stateColor = t.TextMuted
	}

	left := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" " + hints)
	right := lipgloss.NewStyle().Foreground(stateColor).Background(t.Surface).Render(state + " ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	mid := lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap))

	return left + mid + right
}
