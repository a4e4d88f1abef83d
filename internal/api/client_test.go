package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{AuthURL: srv.URL, InsightsURL: srv.URL + "/", Token: token})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{})
	assert.Equal(t, DefaultInsightsURL, c.InsightsURL())
	assert.Equal(t, DefaultAuthURL, c.authURL)
	assert.Equal(t, defaultTimeout, c.timeout)
}

func TestFetchCurrentUser(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"user":{"id":"u-42","email":"a@b.c"}}`))
	})
	c := newTestClient(t, mux, "tok")

	u, err := c.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-42", u.ID)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestFetchCurrentUser_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"unauthorized": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"missing id": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"user":{}}`))
		},
		"bad json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, h, "")
			_, err := c.FetchCurrentUser(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnauthorized)
			assert.NotErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestFetchInsights(t *testing.T) {
	var gotPath string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totals":            map[string]float64{"total_spending": 3500, "average_daily_spending": 100},
			"spending_patterns": []map[string]any{{"category": "Food", "average_amount": 50, "transaction_count": 10, "percentage": 25}},
		})
	})
	c := newTestClient(t, h, "")

	p, err := c.FetchInsights(context.Background(), "user/1")
	require.NoError(t, err)
	assert.Equal(t, "/insights/user%2F1", gotPath)
	assert.Equal(t, 3500.0, p.Totals.TotalSpending)
	require.Len(t, p.SpendingPatterns, 1)
	assert.Equal(t, 10, p.SpendingPatterns[0].TransactionCount)
}

func TestFetchInsights_Failures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}), "")
		_, err := c.FetchInsights(context.Background(), "u")
		require.ErrorIs(t, err, ErrUnavailable)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusBadGateway, se.Code)
	})

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewClient(Options{InsightsURL: srv.URL, Timeout: time.Second})
		_, err := c.FetchInsights(context.Background(), "u")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestLogin(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token":"jwt-abc"}`))
	})
	c := newTestClient(t, h, "")

	tok, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", tok)

	_, err = c.Login(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
