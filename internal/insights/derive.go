package insights

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	maxAnomalyInsights = 3
	trendDays          = 30
	increasingShare    = 20.0
)

var (
	growthFactor     = decimal.RequireFromString("1.05")
	twoMonthsAgoRate = decimal.RequireFromString("0.9")
	lastMonthRate    = decimal.RequireFromString("0.95")
)

// DeriveInsights turns budget recommendations and anomalies into warning cards.
// High and medium priority recommendations come first in input order, followed by
// at most three anomalies in input order.
func DeriveInsights(p Payload) []Insight {
	out := make([]Insight, 0, len(p.BudgetRecommendations)+maxAnomalyInsights)

	for i, rec := range p.BudgetRecommendations {
		if rec.Priority != ImpactHigh && rec.Priority != ImpactMedium {
			continue
		}
		out = append(out, Insight{
			ID:          "budget-" + strconv.Itoa(i),
			Kind:        KindWarning,
			Title:       fmt.Sprintf("%s Budget Alert", rec.Category),
			Description: rec.Reason,
			Impact:      rec.Priority,
		})
	}

	for i, a := range p.Anomalies {
		if i >= maxAnomalyInsights {
			break
		}
		id := a.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		out = append(out, Insight{
			ID:          "anomaly-" + id,
			Kind:        KindWarning,
			Title:       fmt.Sprintf("Unusual %s Transaction", a.Category),
			Description: a.Reason,
			Impact:      ImpactMedium,
		})
	}

	return out
}

// SummarizeTrend builds the three-bar spending chart ending at now's month.
//
// The two earlier bars are synthetic: 90% and 95% of a 30-day month at the current
// average daily rate. The last bar is the actual period total. This is a visual
// approximation only, not a statistical projection. Payloads without spending
// patterns produce no points so the chart can be hidden.
func SummarizeTrend(p Payload, now time.Time) []TrendPoint {
	if len(p.SpendingPatterns) == 0 {
		return nil
	}

	monthly := decimal.NewFromFloat(p.Totals.AverageDailySpending).Mul(decimal.NewFromInt(trendDays))
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	return []TrendPoint{
		{Label: first.AddDate(0, -2, 0).Format("January"), Amount: monthly.Mul(twoMonthsAgoRate).InexactFloat64()},
		{Label: first.AddDate(0, -1, 0).Format("January"), Amount: monthly.Mul(lastMonthRate).InexactFloat64()},
		{Label: first.Format("January"), Amount: p.Totals.TotalSpending},
	}
}

// PredictCategories projects next-period spending per category with a flat 5%
// growth on the current average times transaction count.
func PredictCategories(p Payload) []Prediction {
	out := make([]Prediction, 0, len(p.SpendingPatterns))
	for _, sp := range p.SpendingPatterns {
		projected := decimal.NewFromFloat(sp.AverageAmount).
			Mul(decimal.NewFromInt(int64(sp.TransactionCount))).
			Mul(growthFactor)

		trend := TrendStable
		if sp.Percentage > increasingShare {
			trend = TrendIncreasing
		}

		out = append(out, Prediction{
			Category:        sp.Category,
			AverageSpending: sp.AverageAmount,
			Projected:       projected.InexactFloat64(),
			Trend:           trend,
		})
	}
	return out
}

// BuildView derives every display collection for p.
func BuildView(p Payload, now time.Time) View {
	return View{
		Insights:             DeriveInsights(p),
		Trend:                SummarizeTrend(p, now),
		Predictions:          PredictCategories(p),
		IncomeExpense:        p.IncomeExpense,
		Totals:               p.Totals,
		CategoryHealth:       append([]CategoryHealth(nil), p.CategoryHealth...),
		Budgets:              append([]BudgetRecommendation(nil), p.BudgetRecommendations...),
		SavingsOpportunities: append([]string(nil), p.SavingsOpportunities...),
	}
}
