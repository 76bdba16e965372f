package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`CREATE TABLE games (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		doc TEXT NOT NULL,
		version INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT
	)`); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestSQLRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(openTestDB(t))

	st := testState("g1")
	if err := s.Create(ctx, st); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != 1 || len(got.Players) != 1 || got.Players[0].Name != "alice" {
		t.Errorf("got version=%d players=%d", got.Version, len(got.Players))
	}

	got.TurnNumber = 3
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	again, _ := s.Get(ctx, "g1")
	if again.TurnNumber != 3 || again.Version != 2 {
		t.Errorf("reread turn=%d version=%d, want 3 and 2", again.TurnNumber, again.Version)
	}
}

func TestSQLStaleUpdateRejected(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(openTestDB(t))
	if err := s.Create(ctx, testState("g1")); err != nil {
		t.Fatal(err)
	}

	a, _ := s.Get(ctx, "g1")
	b, _ := s.Get(ctx, "g1")
	if err := s.Update(ctx, a); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := s.Update(ctx, b); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("second update err = %v, want ErrVersionConflict", err)
	}
}

func TestSQLMissingGame(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(openTestDB(t))

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get err = %v, want ErrNotFound", err)
	}
	st := testState("nope")
	st.Version = 1
	if err := s.Update(ctx, st); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update err = %v, want ErrNotFound", err)
	}
}
