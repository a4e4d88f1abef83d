package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/finsight/internal/tui/theme"
)

// Tab is a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune // shortcut, always the first letter of Name
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Insights", Key: 'i'},
	{Name: "Trends", Key: 't'},
	{Name: "Categories", Key: 'c'},
}

// TabVisualWidth is the rendered width of a tab, excluding the separator.
func TabVisualWidth(tab Tab, active bool) int {
	if active {
		return len(tab.Name) + 2
	}
	return len(tab.Name) + 4 // "[x]" replaces the first letter, plus padding
}

// RenderTabBar renders a single-row tab bar with the given active index.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	active := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true).Padding(0, 1)
	name := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	bracket := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = active.Render(tab.Name)
			continue
		}
		parts[i] = bg.Render(" ") +
			bracket.Render("[") + key.Render(tab.Name[:1]) + bracket.Render("]") +
			name.Render(tab.Name[1:]) + bg.Render(" ")
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(width).
		Render(strings.Join(parts, bg.Render(" ")))
}

// TabIdxByKey returns the tab index for a shortcut key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
