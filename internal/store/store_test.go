package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDialectFor(t *testing.T) {
	tests := map[string]Dialect{
		"postgres://u:p@localhost/db":   Postgres,
		"postgresql://u:p@localhost/db": Postgres,
		"/tmp/finsight.db":              SQLite,
		"finsight.db":                   SQLite,
	}
	for dsn, want := range tests {
		if got := DialectFor(dsn); got != want {
			t.Errorf("DialectFor(%q) = %s, want %s", dsn, got, want)
		}
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: Postgres}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &Store{dialect: SQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite rebind = %q", got)
	}
}

func TestCreateAndFindUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.FindUserByEmail(ctx, "a@b.c"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindUserByEmail on empty store: err = %v, want ErrNotFound", err)
	}

	created, err := s.CreateUser(ctx, User{Email: "a@b.c", Name: "A", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("CreateUser did not assign id/time: %+v", created)
	}

	byEmail, err := s.FindUserByEmail(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if byEmail.ID != created.ID || byEmail.Name != "A" || byEmail.PasswordHash != "hash" {
		t.Errorf("byEmail = %+v", byEmail)
	}
	if !byEmail.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", byEmail.CreatedAt, created.CreatedAt)
	}

	byID, err := s.FindUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindUserByID: %v", err)
	}
	if byID.Email != "a@b.c" {
		t.Errorf("byID.Email = %q", byID.Email)
	}

	n, err := s.CountUsers(ctx)
	if err != nil || n != 1 {
		t.Fatalf("CountUsers = %d, %v; want 1", n, err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, User{Email: "dup@x.y", Name: "1", PasswordHash: "h"}); err != nil {
		t.Fatal(err)
	}
	_, err := s.CreateUser(ctx, User{Email: "dup@x.y", Name: "2", PasswordHash: "h"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		_ = s.Close()
	}
}
