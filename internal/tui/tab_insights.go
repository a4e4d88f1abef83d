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

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active
	v := a.view
	ie := v.IncomeExpense

	var b strings.Builder

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Income", Value: cli.FormatCurrency(ie.Income), Color: t.Green},
		{Label: "Expenses", Value: cli.FormatCurrency(ie.Expenses), Color: t.Orange},
		{Label: "Net Balance", Value: cli.FormatSignedCurrency(ie.NetBalance), Color: t.ForSign(ie.NetBalance), Note: ie.Status},
		{Label: "Savings Rate", Value: cli.FormatPercent(ie.SavingsRate), Note: "of income"},
	}, cw))
	b.WriteString("\n")

	gaugeW := max(components.CardInnerWidth(cw)-12, 10)
	b.WriteString(components.ContentCard("Savings", components.SavingsGauge(ie.SavingsRate, gaugeW), cw))
	b.WriteString("\n")

	b.WriteString(renderInsightCards(v.Insights, cw))

	if len(v.SavingsOpportunities) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Savings Opportunities",
			renderBulletBody(v.SavingsOpportunities, components.CardInnerWidth(cw)), cw))
	}

	return b.String()
}

// renderInsightCards lays the insight cards out two per row. No cards renders
// the neutral all-clear card.
func renderInsightCards(items []insights.Insight, cw int) string {
	t := theme.Active
	if len(items) == 0 {
		body := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).
			Render("✓ No issues detected. Your spending looks on track.")
		return components.AccentCard("Key Insights", body, cw, t.Green)
	}

	var rows []string
	for i := 0; i < len(items); i += 2 {
		chunk := items[i:min(i+2, len(items))]
		widths := components.LayoutRow(cw, len(chunk))
		cards := make([]string, len(chunk))
		for j, it := range chunk {
			cards[j] = insightCard(it, widths[j])
		}
		rows = append(rows, components.CardRow(cards))
	}
	return strings.Join(rows, "\n")
}

func insightCard(it insights.Insight, w int) string {
	t := theme.Active
	c := cli.ImpactColor(it.Impact)
	inner := components.CardInnerWidth(w)

	badge := lipgloss.NewStyle().Foreground(c).Background(t.Surface).Bold(true).
		Render(strings.ToUpper(string(it.Impact)))
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(inner).
		Render(it.Description)

	title := fmt.Sprintf("%s %s", cli.KindIcon(it.Kind), truncStr(it.Title, inner-2))
	return components.AccentCard(title, badge+"\n"+desc, w, c)
}

func renderBulletBody(lines []string, inner int) string {
	t := theme.Active
	dot := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render("• ")
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(max(inner-2, 1))

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = lipgloss.JoinHorizontal(lipgloss.Top, dot, text.Render(l))
	}
	return strings.Join(out, "\n")
}
