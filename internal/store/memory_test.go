package store

import (
	"context"
	"errors"
	"testing"

	"github.com/calderwb/mosaic/apps/go-server/internal/game"
)

func testState(id string) *game.State {
	return &game.State{
		ID:     id,
		Status: game.StatusInProgress,
		Players: []game.Player{
			{ID: "p1", Name: "alice", Type: game.PlayerHuman, Hand: []game.Tile{{Shape: game.ShapeStar, Color: game.ColorRed}}},
		},
	}
}

func TestMemoryCreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	st := testState("g1")
	if err := m.Create(ctx, st); err != nil {
		t.Fatalf("create: %v", err)
	}
	if st.Version != 1 {
		t.Errorf("version after create = %d, want 1", st.Version)
	}

	got, err := m.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "g1" || got.Version != 1 {
		t.Errorf("got id=%q version=%d", got.ID, got.Version)
	}

	got.TurnNumber = 5
	if err := m.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("version after update = %d, want 2", got.Version)
	}

	again, _ := m.Get(ctx, "g1")
	if again.TurnNumber != 5 || again.Version != 2 {
		t.Errorf("reread turn=%d version=%d, want 5 and 2", again.TurnNumber, again.Version)
	}
}

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemoryStore()
	if _, err := m.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.Create(ctx, testState("g1")); err != nil {
		t.Fatal(err)
	}
	if err := m.Create(ctx, testState("g1")); err == nil {
		t.Fatal("duplicate create succeeded, want error")
	}
}

func TestMemoryStaleUpdateRejected(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.Create(ctx, testState("g1")); err != nil {
		t.Fatal(err)
	}

	// Two readers load version 1; the second writer must lose.
	a, _ := m.Get(ctx, "g1")
	b, _ := m.Get(ctx, "g1")
	if err := m.Update(ctx, a); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := m.Update(ctx, b); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("second update err = %v, want ErrVersionConflict", err)
	}
}

func TestMemoryIsolatesStoredCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	st := testState("g1")
	if err := m.Create(ctx, st); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy must not touch the stored document.
	st.Players[0].Score = 99
	got, _ := m.Get(ctx, "g1")
	if got.Players[0].Score != 0 {
		t.Errorf("stored score = %d, want 0", got.Players[0].Score)
	}
}
