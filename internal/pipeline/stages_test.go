package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/finsight/internal/api"
	"github.com/theirongolddev/finsight/internal/insights"
)

type fakeFetcher struct {
	user       api.User
	userErr    error
	payload    *insights.Payload
	payloadErr error

	calls       []string
	requestedID string
}

func (f *fakeFetcher) FetchCurrentUser(context.Context) (api.User, error) {
	f.calls = append(f.calls, "user")
	return f.user, f.userErr
}

func (f *fakeFetcher) FetchInsights(_ context.Context, userID string) (*insights.Payload, error) {
	f.calls = append(f.calls, "insights")
	f.requestedID = userID
	return f.payload, f.payloadErr
}

var testNow = time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)

func samplePayload() *insights.Payload {
	return &insights.Payload{
		SpendingPatterns: []insights.SpendingPattern{
			{Category: "Groceries", AverageAmount: 50, TransactionCount: 10, Percentage: 25},
		},
		BudgetRecommendations: []insights.BudgetRecommendation{
			{Category: "Dining", Priority: insights.ImpactHigh, Reason: "over budget"},
		},
		Totals: insights.Totals{TotalSpending: 3500, AverageDailySpending: 100},
	}
}

func TestRun_Success(t *testing.T) {
	f := &fakeFetcher{user: api.User{ID: "u-1"}, payload: samplePayload()}

	res := Run(context.Background(), f, testNow)
	if !res.OK() {
		t.Fatalf("unexpected failure %v: %v", res.Failure, res.Err)
	}
	if res.User != "u-1" || f.requestedID != "u-1" {
		t.Errorf("user = %q, requested = %q, want u-1", res.User, f.requestedID)
	}
	if got := fmt.Sprint(f.calls); got != "[user insights]" {
		t.Errorf("calls = %s, want [user insights]", got)
	}
	if len(res.View.Insights) != 1 || len(res.View.Trend) != 3 || len(res.View.Predictions) != 1 {
		t.Errorf("view sizes = %d/%d/%d, want 1/3/1",
			len(res.View.Insights), len(res.View.Trend), len(res.View.Predictions))
	}
	if res.Error() != "" {
		t.Errorf("Error() = %q, want empty", res.Error())
	}
}

func TestRun_UserFailureSkipsInsights(t *testing.T) {
	f := &fakeFetcher{userErr: fmt.Errorf("%w: 401", api.ErrUnauthorized), payload: samplePayload()}

	res := Run(context.Background(), f, testNow)
	if res.Failure != FailureUnauthenticated {
		t.Fatalf("Failure = %v, want unauthenticated", res.Failure)
	}
	if len(f.calls) != 1 {
		t.Fatalf("calls = %v, insights must not be fetched", f.calls)
	}
	if res.Error() != "Please sign in to view your insights" {
		t.Errorf("Error() = %q", res.Error())
	}
	if len(res.View.Insights) != 0 || len(res.View.Trend) != 0 {
		t.Error("failed pass must not carry a partial view")
	}
}

func TestRun_EmptyUserID(t *testing.T) {
	f := &fakeFetcher{user: api.User{}}

	res := Run(context.Background(), f, testNow)
	if res.Failure != FailureUnauthenticated {
		t.Fatalf("Failure = %v, want unauthenticated", res.Failure)
	}
	if !errors.Is(res.Err, api.ErrUnauthorized) {
		t.Errorf("Err = %v, want ErrUnauthorized", res.Err)
	}
	if len(f.calls) != 1 {
		t.Fatalf("calls = %v", f.calls)
	}
}

func TestRun_InsightsFailure(t *testing.T) {
	cases := []struct {
		name    string
		payload *insights.Payload
		err     error
	}{
		{"status", nil, fmt.Errorf("%w: %w", api.ErrUnavailable, &api.StatusError{Code: 500})},
		{"transport", nil, errors.New("connection refused")},
		{"nil payload", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeFetcher{user: api.User{ID: "u-1"}, payload: tc.payload, payloadErr: tc.err}

			res := Run(context.Background(), f, testNow)
			if res.Failure != FailureUnavailable {
				t.Fatalf("Failure = %v, want unavailable", res.Failure)
			}
			if res.Error() != "The insights service is unavailable right now" {
				t.Errorf("Error() = %q", res.Error())
			}
			if len(f.calls) != 2 {
				t.Errorf("calls = %v, want exactly one attempt per stage", f.calls)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want FailureKind
	}{
		{nil, FailureNone},
		{api.ErrUnauthorized, FailureUnauthenticated},
		{fmt.Errorf("wrapped: %w", api.ErrUnavailable), FailureUnavailable},
		{errors.New("other"), FailureUnavailable},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func BenchmarkRun(b *testing.B) {
	f := &fakeFetcher{user: api.User{ID: "u-1"}, payload: samplePayload()}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.calls = f.calls[:0]
		if res := Run(ctx, f, testNow); !res.OK() {
			b.Fatal(res.Err)
		}
	}
}
