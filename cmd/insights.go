package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/finsight/internal/cli"
	"github.com/theirongolddev/finsight/internal/insights"
	"github.com/theirongolddev/finsight/internal/pipeline"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Print your AI insights report",
	RunE:  runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, _ []string) error {
	progress("  Loading insights...\n")

	res := pipeline.Run(commandContext(cmd), newClient(), time.Now())
	if !res.OK() {
		if res.Failure == pipeline.FailureUnauthenticated {
			progress("  Run `finsight login` to sign in.\n")
		}
		return errors.New(res.Error())
	}

	progress("  Loaded in %.1fs\n", res.Duration.Seconds())
	renderReport(res.View)
	return nil
}

func renderReport(v insights.View) {
	ie := v.IncomeExpense

	fmt.Println()
	fmt.Println(cli.RenderTitle("AI INSIGHTS"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Overview",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Income", cli.FormatCurrency(ie.Income)},
			{"Expenses", cli.FormatCurrency(ie.Expenses)},
			{"Net Balance", cli.FormatSignedCurrency(ie.NetBalance)},
			{"Savings Rate", cli.FormatPercent(ie.SavingsRate)},
			{"---"},
			{"Total Spending", cli.FormatCurrency(v.Totals.TotalSpending)},
			{"Avg Daily", cli.FormatCurrency(v.Totals.AverageDailySpending)},
			{"Projected Monthly", cli.FormatCurrency(v.Totals.ProjectedMonthlySpending)},
		},
		Align: []cli.Align{cli.AlignLeft, cli.AlignRight},
	}))
	fmt.Println()

	fmt.Println(cli.RenderSection("Key Insights"))
	fmt.Print(cli.RenderInsightList(v.Insights))
	fmt.Println()

	if len(v.Trend) > 0 {
		fmt.Println(cli.RenderSection("Spending Trend"))
		fmt.Print(cli.RenderTrend(v.Trend, 40))
		fmt.Println()
	}

	if len(v.Predictions) > 0 {
		rows := make([][]string, len(v.Predictions))
		for i, p := range v.Predictions {
			rows[i] = []string{
				p.Category,
				cli.FormatCurrency(p.AverageSpending),
				cli.FormatCurrency(p.Projected),
				cli.Titlecase(string(p.Trend)),
			}
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Category Predictions",
			Headers: []string{"Category", "Avg", "Projected", "Trend"},
			Rows:    rows,
			Align:   []cli.Align{cli.AlignLeft, cli.AlignRight, cli.AlignRight, cli.AlignLeft},
		}))
		fmt.Println()
	}

	if len(v.SavingsOpportunities) > 0 {
		fmt.Println(cli.RenderSection("Savings Opportunities"))
		fmt.Print(cli.RenderBullets(v.SavingsOpportunities))
		fmt.Println()
	}
}
