// Package seed inserts the fixed local test account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/finsight/internal/auth"
	"github.com/theirongolddev/finsight/internal/store"
)

// The test account.
const (
	Email    = "test@example.com"
	Password = "password123"
	Name     = "Test User"
)

// ErrPersistence wraps every failure to read or write the user store.
var ErrPersistence = errors.New("seed: persistence failure")

// UserStore is the part of the store the seeder needs.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (store.User, error)
	CreateUser(ctx context.Context, u store.User) (store.User, error)
}

// Outcome reports what a run did.
type Outcome int

const (
	Created Outcome = iota
	AlreadyExists
)

// Seeder creates the test account if it is missing.
type Seeder struct {
	Store UserStore
	Out   io.Writer
	Log   logrus.FieldLogger

	hash func(string) (string, error)
}

// New returns a Seeder writing progress to out.
func New(s UserStore, out io.Writer) *Seeder {
	return &Seeder{Store: s, Out: out, Log: logrus.StandardLogger(), hash: auth.HashPassword}
}

// Run performs one existence check and at most one insert.
func (s *Seeder) Run(ctx context.Context) (Outcome, error) {
	log := s.Log.WithField("email", Email)

	existing, err := s.Store.FindUserByEmail(ctx, Email)
	switch {
	case err == nil:
		log.WithField("user", existing.ID).Debug("test user present")
		fmt.Fprintf(s.Out, "  Test user %s already exists\n", Email)
		return AlreadyExists, nil
	case !errors.Is(err, store.ErrNotFound):
		return 0, s.fail("looking up test user", err)
	}

	hash, err := s.hash(Password)
	if err != nil {
		return 0, s.fail("hashing password", err)
	}

	u, err := s.Store.CreateUser(ctx, store.User{Email: Email, Name: Name, PasswordHash: hash})
	if err != nil {
		return 0, s.fail("creating test user", err)
	}

	log.WithField("user", u.ID).Info("test user created")
	fmt.Fprintf(s.Out, "  Created test user %s (password: %s)\n", Email, Password)
	return Created, nil
}

func (s *Seeder) fail(step string, err error) error {
	wrapped := fmt.Errorf("%w: %s: %w", ErrPersistence, step, err)
	fmt.Fprintf(s.Out, "  Error seeding test user: %v\n", wrapped)
	return wrapped
}
