package tui

import (
	"strings"

	"github.com/theirongolddev/finsight/internal/cli"
	"github.com/theirongolddev/finsight/internal/tui/components"
	"github.com/theirongolddev/finsight/internal/tui/theme"
)

func (a App) renderTrendsTab(cw int) string {
	t := theme.Active
	v := a.view

	var b strings.Builder

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total Spending", Value: cli.FormatCurrency(v.Totals.TotalSpending)},
		{Label: "Avg Daily", Value: cli.FormatCurrency(v.Totals.AverageDailySpending)},
		{Label: "Projected Monthly", Value: cli.FormatCurrency(v.Totals.ProjectedMonthlySpending), Color: t.Accent},
	}, cw))
	b.WriteString("\n")

	// An empty trend hides the chart entirely.
	if len(v.Trend) == 0 {
		return b.String()
	}

	bars := make([]components.Bar, len(v.Trend))
	for i, p := range v.Trend {
		bars[i] = components.Bar{Label: p.Label, Value: p.Amount}
	}
	chartH := max(min(a.height-16, 14), 6)
	chart := components.BarChart(bars, t.Accent, components.CardInnerWidth(cw), chartH)
	b.WriteString(components.ContentCard("Spending Trend", chart, cw))

	return b.String()
}
