package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/finsight/internal/insights"
	"github.com/theirongolddev/finsight/internal/tui/theme"
)

// Align is a column alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Align defaults to left for the first column and right for the rest.
	Align []Align
}

// Separator is a row value that renders as a horizontal rule.
var Separator = []string{"---"}

func styleFg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Render(title))
}

// RenderSection renders a section heading.
func RenderSection(title string) string {
	return "  " + lipgloss.NewStyle().Bold(true).Foreground(theme.Active.Accent).Render(title)
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	if cols == 0 && len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		if !isSeparator(row) {
			measure(row)
		}
	}

	dim := styleFg(theme.Active.TextDim)
	head := styleFg(theme.Active.Accent).Bold(true)
	val := styleFg(theme.Active.TextPrimary)

	rule := func(left, mid, right string) string {
		parts := make([]string, cols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dim.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	line := func(row []string, style lipgloss.Style, header bool) string {
		var b strings.Builder
		b.WriteString(dim.Render("│"))
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if !header && t.alignOf(i) == AlignRight {
				cell = pad + cell
			} else {
				cell += pad
			}
			b.WriteString(style.Render(" " + cell + " "))
			b.WriteString(dim.Render("│"))
		}
		return b.String() + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(RenderSection(t.Title) + "\n")
	}
	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, head, true))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(line(row, val, false))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

func (t Table) alignOf(col int) Align {
	if col < len(t.Align) {
		return t.Align[col]
	}
	if col == 0 {
		return AlignLeft
	}
	return AlignRight
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == Separator[0]
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// RenderHorizontalBar renders one labelled bar scaled against maxValue.
func RenderHorizontalBar(label string, labelWidth int, value, maxValue float64, maxWidth int) string {
	n := 0
	if maxValue > 0 && value > 0 {
		n = int(math.Round(value / maxValue * float64(maxWidth)))
	}
	n = min(n, maxWidth)

	return fmt.Sprintf("  %-*s %s%s %s",
		labelWidth, label,
		styleFg(theme.Active.Accent).Render(strings.Repeat("█", n)),
		styleFg(theme.Active.TextDim).Render(strings.Repeat("░", maxWidth-n)),
		styleFg(theme.Active.TextPrimary).Render(FormatCompactCurrency(value)),
	)
}

// RenderTrend renders the spending trend as labelled horizontal bars.
func RenderTrend(points []insights.TrendPoint, width int) string {
	if len(points) == 0 {
		return ""
	}
	peak, labelW := 0.0, 0
	for _, p := range points {
		peak = math.Max(peak, p.Amount)
		labelW = max(labelW, len(p.Label))
	}

	var b strings.Builder
	for _, p := range points {
		b.WriteString(RenderHorizontalBar(p.Label, labelW, p.Amount, peak, width))
		b.WriteString("\n")
	}
	return b.String()
}

// ImpactColor maps an impact level to its theme color.
func ImpactColor(i insights.Impact) lipgloss.Color {
	switch i {
	case insights.ImpactHigh:
		return theme.Active.Red
	case insights.ImpactMedium:
		return theme.Active.Orange
	default:
		return theme.Active.Blue
	}
}

// KindIcon returns the marker printed before an insight title.
func KindIcon(k insights.Kind) string {
	switch k {
	case insights.KindWarning:
		return "▲"
	case insights.KindSuccess:
		return "✓"
	case insights.KindPrediction:
		return "◆"
	default:
		return "●"
	}
}

// RenderInsightList renders key insight cards as an indented list. An empty
// list renders the neutral "no issues" state.
func RenderInsightList(items []insights.Insight) string {
	if len(items) == 0 {
		return "  " + styleFg(theme.Active.Green).Render("✓ No issues detected. Your spending looks on track.") + "\n"
	}

	muted := styleFg(theme.Active.TextMuted)
	var b strings.Builder
	for _, it := range items {
		c := ImpactColor(it.Impact)
		fmt.Fprintf(&b, "  %s %s %s\n",
			styleFg(c).Render(KindIcon(it.Kind)),
			lipgloss.NewStyle().Bold(true).Foreground(theme.Active.TextPrimary).Render(it.Title),
			styleFg(c).Render("["+strings.ToUpper(string(it.Impact))+"]"),
		)
		if it.Description != "" {
			fmt.Fprintf(&b, "    %s\n", muted.Render(it.Description))
		}
	}
	return b.String()
}

// RenderBullets renders free-text lines as a bulleted list.
func RenderBullets(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "  %s %s\n", styleFg(theme.Active.Accent).Render("•"), l)
	}
	return b.String()
}

// HealthColor maps a category health status to its theme color.
func HealthColor(status string) lipgloss.Color {
	switch strings.ToLower(status) {
	case "good", "healthy", "excellent":
		return theme.Active.Green
	case "warning", "fair":
		return theme.Active.Orange
	case "critical", "poor", "over":
		return theme.Active.Red
	default:
		return theme.Active.TextMuted
	}
}
