// Package pipeline runs the two-stage insights load: resolve the current user,
// then fetch and derive that user's insights.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/finsight/internal/api"
	"github.com/theirongolddev/finsight/internal/insights"
)

// UserID is the output of the first stage and the only input to the second.
type UserID string

// Fetcher is the transport the pipeline drives. *api.Client satisfies it.
type Fetcher interface {
	FetchCurrentUser(ctx context.Context) (api.User, error)
	FetchInsights(ctx context.Context, userID string) (*insights.Payload, error)
}

// FailureKind classifies a terminal pipeline failure.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureUnauthenticated
	FailureUnavailable
)

// Message returns the static text shown for the failure.
func (k FailureKind) Message() string {
	switch k {
	case FailureUnauthenticated:
		return "Please sign in to view your insights"
	case FailureUnavailable:
		return "The insights service is unavailable right now"
	default:
		return ""
	}
}

func (k FailureKind) String() string {
	switch k {
	case FailureUnauthenticated:
		return "unauthenticated"
	case FailureUnavailable:
		return "unavailable"
	default:
		return "none"
	}
}

// Result is the outcome of one pass. Exactly one of View or Failure is meaningful.
type Result struct {
	User     UserID
	View     insights.View
	Failure  FailureKind
	Err      error
	Duration time.Duration
}

// OK reports whether the pass produced a view.
func (r Result) OK() bool {
	return r.Failure == FailureNone
}

// Error returns the failure's display message, or "" for a successful pass.
func (r Result) Error() string {
	return r.Failure.Message()
}

// ResolveUser runs stage one.
func ResolveUser(ctx context.Context, f Fetcher) (UserID, error) {
	u, err := f.FetchCurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if u.ID == "" {
		return "", fmt.Errorf("%w: empty user id", api.ErrUnauthorized)
	}
	return UserID(u.ID), nil
}

// LoadInsights runs stage two for an already resolved user.
func LoadInsights(ctx context.Context, f Fetcher, id UserID) (*insights.Payload, error) {
	p, err := f.FetchInsights(ctx, string(id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: empty payload", api.ErrUnavailable)
	}
	return p, nil
}

// Run executes both stages strictly in order and derives the view.
// A failed stage ends the pass; nothing is retried.
func Run(ctx context.Context, f Fetcher, now time.Time) Result {
	start := time.Now()

	id, err := ResolveUser(ctx, f)
	if err != nil {
		logrus.WithError(err).Debug("resolve user failed")
		return Result{Failure: FailureUnauthenticated, Err: err, Duration: time.Since(start)}
	}
	logrus.WithFields(logrus.Fields{"user": id, "elapsed": time.Since(start)}).Debug("user resolved")

	p, err := LoadInsights(ctx, f, id)
	if err != nil {
		logrus.WithError(err).WithField("user", id).Debug("load insights failed")
		return Result{User: id, Failure: Classify(err), Err: err, Duration: time.Since(start)}
	}
	logrus.WithFields(logrus.Fields{"user": id, "elapsed": time.Since(start)}).Debug("insights loaded")

	return Result{User: id, View: insights.BuildView(*p, now), Duration: time.Since(start)}
}

// Classify maps a stage-two error onto a failure kind. Anything that is not an
// auth failure counts as the service being unavailable.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, api.ErrUnauthorized):
		return FailureUnauthenticated
	default:
		return FailureUnavailable
	}
}
