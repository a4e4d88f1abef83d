package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/finsight/internal/tui/theme"
)

// BudgetBar renders spending against a recommended budget as a labelled bar.
// Spending over budget pins the bar full and turns it red.
func BudgetBar(label string, spent, budget float64, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if budget > 0 {
		pct = spent / budget
	}
	color := t.ForUsage(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")
	return surface(t.TextMuted).Render(fmt.Sprintf("%-*s", labelW, label)) +
		space +
		bar.ViewAs(min(max(pct, 0), 1)) +
		space +
		surface(color).Bold(true).Render(fmt.Sprintf("%4.0f%%", pct*100))
}

// SavingsGauge renders the savings rate, a percentage of income, on a 0-50% scale.
func SavingsGauge(rate float64, width int) string {
	t := theme.Active
	color := t.Green
	switch {
	case rate < 0:
		color = t.Red
	case rate < 10:
		color = t.Orange
	case rate < 20:
		color = t.Yellow
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	return bar.ViewAs(min(max(rate/50, 0), 1)) +
		lipgloss.NewStyle().Background(t.Surface).Render(" ") +
		surface(color).Bold(true).Render(fmt.Sprintf("%.1f%%", rate))
}
