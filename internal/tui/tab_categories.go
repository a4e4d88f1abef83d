package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/finsight/internal/cli"
	"github.com/theirongolddev/finsight/internal/insights"
	"github.com/theirongolddev/finsight/internal/tui/components"
	"github.com/theirongolddev/finsight/internal/tui/theme"
)

func (a App) renderCategoriesTab(cw int) string {
	v := a.view
	var b strings.Builder

	b.WriteString(components.ContentCard("Category Predictions", a.predictionBody(cw), cw))

	if len(v.Budgets) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Budget Recommendations", budgetBody(v.Budgets, cw), cw))
	}
	if len(v.CategoryHealth) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Category Health", healthBody(v.CategoryHealth, cw), cw))
	}
	return b.String()
}

func (a App) predictionBody(cw int) string {
	t := theme.Active
	preds := a.view.Predictions
	if len(preds) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No category spending yet.")
	}

	inner := components.CardInnerWidth(cw)
	labelW := 14
	valW := 10
	badgeW := 12
	barW := max(inner-labelW-2*valW-badgeW-4, 8)

	var maxProj float64
	for _, p := range preds {
		maxProj = max(maxProj, p.Projected)
	}

	label := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	sp := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	lines := make([]string, len(preds))
	for i, p := range preds {
		lines[i] = label.Render(fmt.Sprintf("%-*s", labelW, truncStr(p.Category, labelW))) + sp +
			components.HBar(p.Projected, maxProj, barW, t.Accent) + sp +
			value.Render(fmt.Sprintf("%*s", valW, cli.FormatCurrency(p.AverageSpending))) + sp +
			value.Render(fmt.Sprintf("%*s", valW, cli.FormatCurrency(p.Projected))) + sp +
			trendBadge(p.Trend)
	}
	return strings.Join(lines, "\n")
}

func trendBadge(tr insights.Trend) string {
	t := theme.Active
	style := lipgloss.NewStyle().Background(t.Surface).Bold(true)
	switch tr {
	case insights.TrendIncreasing:
		return style.Foreground(t.Orange).Render("↑ increasing")
	case insights.TrendDecreasing:
		return style.Foreground(t.Green).Render("↓ decreasing")
	default:
		return style.Foreground(t.TextMuted).Render("→ stable")
	}
}

func budgetBody(recs []insights.BudgetRecommendation, cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)
	labelW := 14
	barW := max(inner-labelW-8, 8)
	reason := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Width(inner)

	var lines []string
	for _, r := range recs {
		lines = append(lines, components.BudgetBar(truncStr(r.Category, labelW),
			r.CurrentSpending, r.RecommendedAmount, labelW, barW))
		detail := fmt.Sprintf("%s of %s suggested", cli.FormatCurrency(r.CurrentSpending), cli.FormatCurrency(r.RecommendedAmount))
		if r.Reason != "" {
			detail += " · " + r.Reason
		}
		lines = append(lines, reason.Render(detail))
	}
	return strings.Join(lines, "\n")
}

func healthBody(items []insights.CategoryHealth, cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)
	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(inner)

	var lines []string
	for _, h := range items {
		status := lipgloss.NewStyle().Foreground(cli.HealthColor(h.Status)).Background(t.Surface).
			Render("● " + cli.Titlecase(h.Status))
		lines = append(lines, name.Render(h.Category)+lipgloss.NewStyle().Background(t.Surface).Render("  ")+status)
		if h.Recommendation != "" {
			lines = append(lines, dim.Render(h.Recommendation))
		}
	}
	return strings.Join(lines, "\n")
}
