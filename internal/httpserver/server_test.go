package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/calderwb/mosaic/apps/go-server/internal/game"
	"github.com/calderwb/mosaic/apps/go-server/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	schema := `
	CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL,
		games_played INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		best_score INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE game_records (
		game_id TEXT PRIMARY KEY,
		user_id TEXT,
		anonymous_id TEXT,
		player_name TEXT NOT NULL,
		score INTEGER NOT NULL,
		won INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		finished_at TEXT NOT NULL DEFAULT (datetime('now'))
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	engine := game.New(rand.New(rand.NewSource(1)))
	return New(engine, store.NewMemoryStore(), db)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func createGame(t *testing.T, srv *Server, numAI int) *game.State {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/game/create", map[string]any{
		"player_name":    "alice",
		"num_ai_players": numAI,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create game: status %d, body %s", w.Code, w.Body.String())
	}
	var st game.State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return &st
}

func TestCreateAndGetGame(t *testing.T) {
	srv := newTestServer(t)
	st := createGame(t, srv, 1)

	if st.Status != game.StatusInProgress || len(st.Players) != 2 {
		t.Fatalf("created state = %q with %d players", st.Status, len(st.Players))
	}
	if st.TileCount() != game.PoolSize {
		t.Errorf("total tiles = %d, want %d", st.TileCount(), game.PoolSize)
	}

	w := doJSON(t, srv, http.MethodGet, "/game/"+st.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get game: status %d", w.Code)
	}
	var got game.State
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != st.ID || got.Version != 1 {
		t.Errorf("got id=%q version=%d", got.ID, got.Version)
	}
}

func TestCreateGameRejectsNegativeAI(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/game/create", map[string]any{
		"player_name":    "alice",
		"num_ai_players": -2,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetMissingGame(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/game/does-not-exist", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "game_not_found") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestActionPassAdvancesTurn(t *testing.T) {
	srv := newTestServer(t)
	st := createGame(t, srv, 1)

	w := doJSON(t, srv, http.MethodPost, "/game/action", map[string]any{
		"game_id": st.ID,
		"action":  map[string]any{"action_type": "pass", "player_id": st.Players[0].ID},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("action: status %d, body %s", w.Code, w.Body.String())
	}
	var next game.State
	if err := json.Unmarshal(w.Body.Bytes(), &next); err != nil {
		t.Fatal(err)
	}
	if next.CurrentPlayerIndex != 1 || next.TurnNumber != 1 || next.ConsecutivePasses != 1 {
		t.Errorf("index=%d turn=%d passes=%d", next.CurrentPlayerIndex, next.TurnNumber, next.ConsecutivePasses)
	}
	if next.Version != 2 {
		t.Errorf("version = %d, want 2 after one action", next.Version)
	}
}

func TestActionOutOfTurnRejected(t *testing.T) {
	srv := newTestServer(t)
	st := createGame(t, srv, 1)

	w := doJSON(t, srv, http.MethodPost, "/game/action", map[string]any{
		"game_id": st.ID,
		"action":  map[string]any{"action_type": "pass", "player_id": st.Players[1].ID},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "out_of_turn") {
		t.Errorf("body = %s", w.Body.String())
	}

	// State must be untouched.
	after := doJSON(t, srv, http.MethodGet, "/game/"+st.ID, nil)
	var got game.State
	if err := json.Unmarshal(after.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.TurnNumber != 0 || got.Version != 1 {
		t.Errorf("turn=%d version=%d, want 0 and 1", got.TurnNumber, got.Version)
	}
}

func TestPassOutFinishRecordsGame(t *testing.T) {
	srv := newTestServer(t)
	st := createGame(t, srv, 1)

	// Both players pass: the game finishes and a record row lands.
	for i := 0; i < 2; i++ {
		w := doJSON(t, srv, http.MethodPost, "/game/action", map[string]any{
			"game_id": st.ID,
			"action":  map[string]any{"action_type": "pass", "player_id": st.Players[i].ID},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("pass %d: status %d, body %s", i, w.Code, w.Body.String())
		}
	}

	after := doJSON(t, srv, http.MethodGet, "/game/"+st.ID, nil)
	var got game.State
	if err := json.Unmarshal(after.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != game.StatusFinished {
		t.Fatalf("status = %q, want finished", got.Status)
	}

	var count int
	if err := srv.db.QueryRow(`SELECT COUNT(1) FROM game_records WHERE game_id=?`, st.ID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("game_records rows = %d, want 1", count)
	}
}

func TestTileCatalogEndpoint(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/tiles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var c game.CatalogInfo
	if err := json.Unmarshal(w.Body.Bytes(), &c); err != nil {
		t.Fatal(err)
	}
	if len(c.Shapes) != 6 || len(c.Colors) != 6 || c.TilesPerType != 30 {
		t.Errorf("catalog = %+v", c)
	}
}

func TestSignupAndMe(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/auth/signup", map[string]any{
		"username": "alice_1",
		"password": "supersecret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup: status %d, body %s", w.Code, w.Body.String())
	}

	var token string
	for _, c := range w.Result().Cookies() {
		if c.Name == "mosaic_token" {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatal("no auth cookie set on signup")
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "alice_1") {
		t.Errorf("me body = %s", rec.Body.String())
	}
}
