package insights

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDeriveInsights_Empty(t *testing.T) {
	got := DeriveInsights(Payload{})
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestDeriveInsights_FiltersLowPriority(t *testing.T) {
	p := Payload{
		BudgetRecommendations: []BudgetRecommendation{
			{Category: "Dining", Reason: "over by 40%", Priority: ImpactHigh},
			{Category: "Books", Reason: "fine", Priority: ImpactLow},
			{Category: "Travel", Reason: "trending up", Priority: ImpactMedium},
		},
		Anomalies: []Anomaly{
			{ID: "tx9", Category: "Shopping", Reason: "3x usual"},
		},
	}

	got := DeriveInsights(p)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	wantTitles := []string{"Dining Budget Alert", "Travel Budget Alert", "Unusual Shopping Transaction"}
	for i, w := range wantTitles {
		if got[i].Title != w {
			t.Errorf("got[%d].Title = %q, want %q", i, got[i].Title, w)
		}
		if got[i].Kind != KindWarning {
			t.Errorf("got[%d].Kind = %q, want warning", i, got[i].Kind)
		}
	}
	if got[0].Impact != ImpactHigh || got[1].Impact != ImpactMedium {
		t.Errorf("impacts = %q,%q, want high,medium", got[0].Impact, got[1].Impact)
	}
	if got[0].Description != "over by 40%" {
		t.Errorf("Description = %q", got[0].Description)
	}
	if got[2].Impact != ImpactMedium {
		t.Errorf("anomaly impact = %q, want medium", got[2].Impact)
	}
	if got[2].ID != "anomaly-tx9" {
		t.Errorf("anomaly ID = %q, want anomaly-tx9", got[2].ID)
	}
}

func TestDeriveInsights_CapsAnomalies(t *testing.T) {
	var p Payload
	for _, c := range []string{"A", "B", "C", "D", "E"} {
		p.Anomalies = append(p.Anomalies, Anomaly{Category: c, Reason: "odd " + c})
	}

	got := DeriveInsights(p)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, c := range []string{"A", "B", "C"} {
		if want := "Unusual " + c + " Transaction"; got[i].Title != want {
			t.Errorf("got[%d].Title = %q, want %q", i, got[i].Title, want)
		}
	}
	if got[0].ID != "anomaly-0" {
		t.Errorf("fallback ID = %q, want anomaly-0", got[0].ID)
	}
}

func TestSummarizeTrend(t *testing.T) {
	p := Payload{
		SpendingPatterns: []SpendingPattern{{Category: "Food"}},
		Totals:           Totals{TotalSpending: 3500, AverageDailySpending: 100},
	}
	now := time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC)

	got := SummarizeTrend(p, now)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	want := []TrendPoint{
		{Label: "January", Amount: 2700},
		{Label: "February", Amount: 2850},
		{Label: "March", Amount: 3500},
	}
	for i := range want {
		if got[i].Label != want[i].Label || !approx(got[i].Amount, want[i].Amount) {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSummarizeTrend_YearBoundary(t *testing.T) {
	p := Payload{SpendingPatterns: []SpendingPattern{{Category: "Food"}}}
	got := SummarizeTrend(p, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC))

	labels := []string{got[0].Label, got[1].Label, got[2].Label}
	if !reflect.DeepEqual(labels, []string{"November", "December", "January"}) {
		t.Fatalf("labels = %v", labels)
	}
}

func TestSummarizeTrend_NoPatterns(t *testing.T) {
	p := Payload{Totals: Totals{TotalSpending: 3500, AverageDailySpending: 100}}
	if got := SummarizeTrend(p, time.Now()); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestPredictCategories(t *testing.T) {
	p := Payload{SpendingPatterns: []SpendingPattern{
		{Category: "Groceries", AverageAmount: 50, TransactionCount: 10, Percentage: 25},
		{Category: "Transport", AverageAmount: 50, TransactionCount: 10, Percentage: 15},
		{Category: "Edge", AverageAmount: 10, TransactionCount: 1, Percentage: 20},
	}}

	got := PredictCategories(p)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	if !approx(got[0].Projected, 525) {
		t.Errorf("Projected = %v, want 525", got[0].Projected)
	}
	if got[0].AverageSpending != 50 {
		t.Errorf("AverageSpending = %v, want 50", got[0].AverageSpending)
	}
	if got[0].Trend != TrendIncreasing {
		t.Errorf("Trend = %q, want increasing", got[0].Trend)
	}
	if got[1].Trend != TrendStable {
		t.Errorf("Trend = %q, want stable", got[1].Trend)
	}
	// exactly 20% is not "exceeds"
	if got[2].Trend != TrendStable {
		t.Errorf("Trend at 20%% = %q, want stable", got[2].Trend)
	}
	if got[1].Category != "Transport" {
		t.Errorf("order changed: %q", got[1].Category)
	}
}

func TestBuildView_DoesNotMutatePayload(t *testing.T) {
	p := Payload{
		SpendingPatterns:      []SpendingPattern{{Category: "Food", AverageAmount: 12.5, TransactionCount: 4, Percentage: 30}},
		BudgetRecommendations: []BudgetRecommendation{{Category: "Food", Priority: ImpactHigh, Reason: "r"}},
		CategoryHealth:        []CategoryHealth{{Category: "Food", Status: "warning"}},
		SavingsOpportunities:  []string{"Cook at home"},
		Totals:                Totals{TotalSpending: 50, AverageDailySpending: 2},
	}
	before := clonePayload(p)
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	v1 := BuildView(p, now)
	v2 := BuildView(p, now)

	if !reflect.DeepEqual(p, before) {
		t.Fatal("BuildView mutated its input")
	}
	if !reflect.DeepEqual(v1, v2) {
		t.Fatal("BuildView is not deterministic")
	}
	if !v1.HasIssues() {
		t.Fatal("expected HasIssues")
	}

	v1.SavingsOpportunities[0] = "changed"
	if p.SavingsOpportunities[0] != "Cook at home" {
		t.Fatal("view shares backing array with payload")
	}
}

func clonePayload(p Payload) Payload {
	c := p
	c.SpendingPatterns = append([]SpendingPattern(nil), p.SpendingPatterns...)
	c.BudgetRecommendations = append([]BudgetRecommendation(nil), p.BudgetRecommendations...)
	c.CategoryHealth = append([]CategoryHealth(nil), p.CategoryHealth...)
	c.SavingsOpportunities = append([]string(nil), p.SavingsOpportunities...)
	return c
}
