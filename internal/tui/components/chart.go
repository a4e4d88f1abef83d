package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/finsight/internal/tui/theme"
)

// Bar is one labelled column of a BarChart.
type Bar struct {
	Label string
	Value float64
}

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// BarChart renders a vertical bar chart with a money Y axis and one label per
// bar. Bars are at most 12 columns wide and centered under their labels.
func BarChart(bars []Bar, color lipgloss.Color, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active
	height = max(height, 3)

	peak := 0.0
	for _, b := range bars {
		peak = math.Max(peak, b.Value)
	}
	if peak == 0 {
		peak = 1
	}
	step := chartTickStep(peak)
	ceiling := math.Ceil(peak/step) * step

	yLabelW := max(len(formatChartLabel(ceiling))+1, 5)
	n := len(bars)
	slotW := max((width-yLabelW-1)/n, 4)
	barW := min(slotW-2, 12)

	axis := surface(t.TextDim)
	blank := lipgloss.NewStyle().Background(t.Surface)
	fill := surface(color)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height || row == (height+1)/2 {
			label = formatChartLabel(top)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for _, bar := range bars {
			cell := " "
			switch {
			case bar.Value >= top:
				cell = "█"
			case bar.Value > bottom:
				idx := int((bar.Value - bottom) / (top - bottom) * 8)
				cell = string(eighths[min(max(idx, 1), 8)])
			}
			left := (slotW - barW) / 2
			b.WriteString(blank.Render(strings.Repeat(" ", left)))
			if cell == " " {
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			} else {
				b.WriteString(fill.Render(strings.Repeat(cell, barW)))
			}
			b.WriteString(blank.Render(strings.Repeat(" ", slotW-barW-left)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", slotW*n))))
	b.WriteString("\n")

	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	for _, bar := range bars {
		b.WriteString(surface(t.TextMuted).Render(centerIn(bar.Label, slotW)))
	}
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	for _, bar := range bars {
		b.WriteString(surface(t.TextPrimary).Bold(true).Render(centerIn("$"+formatChartLabel(bar.Value), slotW)))
	}

	return b.String()
}

// HBar renders a single horizontal bar of value against maxValue.
func HBar(value, maxValue float64, width int, color lipgloss.Color) string {
	n := 0
	if maxValue > 0 && value > 0 {
		n = min(int(math.Round(value/maxValue*float64(width))), width)
	}
	return surface(color).Render(strings.Repeat("█", n)) +
		surface(theme.Active.TextDim).Render(strings.Repeat("░", width-n))
}

func centerIn(s string, w int) string {
	if len(s) >= w {
		return s[:w]
	}
	left := (w - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-len(s)-left)
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
