// Package insights holds the analytics payload served by the insights service and
// the display records derived from it.
package insights

// Kind classifies an insight card.
type Kind string

const (
	KindWarning    Kind = "warning"
	KindSuccess    Kind = "success"
	KindPrediction Kind = "prediction"
	KindInfo       Kind = "info"
)

// Impact is the severity shown on an insight card.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Trend classifies a category's expected direction.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	// TrendDecreasing is never produced by PredictCategories.
	TrendDecreasing Trend = "decreasing"
)

// Payload is the analytics document computed by the external insights service.
// Every value in it is treated as opaque and already computed.
type Payload struct {
	IncomeExpense         IncomeExpense          `json:"income_expense"`
	SpendingPatterns      []SpendingPattern      `json:"spending_patterns"`
	CategoryHealth        []CategoryHealth       `json:"category_health"`
	BudgetRecommendations []BudgetRecommendation `json:"budget_recommendations"`
	Anomalies             []Anomaly              `json:"anomalies"`
	Totals                Totals                 `json:"totals"`
	SavingsOpportunities  []string               `json:"savings_opportunities"`
}

// IncomeExpense summarises the period's cash flow.
type IncomeExpense struct {
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	NetBalance  float64 `json:"net_balance"`
	SavingsRate float64 `json:"savings_rate"` // percent of income
	Status      string  `json:"status"`
}

// SpendingPattern is the per-category spending summary.
type SpendingPattern struct {
	Category         string  `json:"category"`
	Amount           float64 `json:"amount"`
	TransactionCount int     `json:"transaction_count"`
	AverageAmount    float64 `json:"average_amount"`
	Percentage       float64 `json:"percentage"`
}

// CategoryHealth is the service's assessment of one category.
type CategoryHealth struct {
	Category       string  `json:"category"`
	Status         string  `json:"status"`
	Reason         string  `json:"reason"`
	Spending       float64 `json:"spending"`
	Recommendation string  `json:"recommendation"`
}

// BudgetRecommendation suggests a budget for a category.
type BudgetRecommendation struct {
	Category          string  `json:"category"`
	RecommendedAmount float64 `json:"recommended_amount"`
	CurrentSpending   float64 `json:"current_spending"`
	Reason            string  `json:"reason"`
	Priority          Impact  `json:"priority"`
}

// Anomaly is a transaction the service flagged as statistically unusual.
type Anomaly struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Score    float64 `json:"score"`
	Reason   string  `json:"reason"`
}

// Totals holds aggregate spending figures for the period.
type Totals struct {
	TotalSpending            float64 `json:"total_spending"`
	AverageDailySpending     float64 `json:"average_daily_spending"`
	ProjectedMonthlySpending float64 `json:"projected_monthly_spending"`
}

// Insight is a key-insight card.
type Insight struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      Impact `json:"impact"`
}

// Prediction is a per-category spending projection.
type Prediction struct {
	Category        string  `json:"category"`
	AverageSpending float64 `json:"average_spending"`
	Projected       float64 `json:"projected"`
	Trend           Trend   `json:"trend"`
}

// TrendPoint is one bar of the spending trend chart.
type TrendPoint struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// View is everything the renderers need for one payload.
type View struct {
	Insights             []Insight
	Trend                []TrendPoint
	Predictions          []Prediction
	IncomeExpense        IncomeExpense
	Totals               Totals
	CategoryHealth       []CategoryHealth
	Budgets              []BudgetRecommendation
	SavingsOpportunities []string
}

// HasIssues reports whether any key insight was derived.
func (v View) HasIssues() bool {
	return len(v.Insights) > 0
}
