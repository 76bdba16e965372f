// internal/httpserver/routes_game.go
//
// Game endpoints: create a game, fetch its state, submit an action,
// and the static tile catalog.
//
// The service layer here is deliberately thin: load the GameState from
// the store, hand it to the engine, write the result back. The store's
// version token turns a lost-update race into a 409 the client can
// retry against fresh state.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/calderwb/mosaic/apps/go-server/internal/game"
	"github.com/calderwb/mosaic/apps/go-server/internal/leaderboard"
	"github.com/calderwb/mosaic/apps/go-server/internal/store"
)

// createGameReq is the payload for POST /game/create.
type createGameReq struct {
	PlayerName   string `json:"player_name"`
	NumAiPlayers int    `json:"num_ai_players"`
}

// handleCreateGame builds a fresh game and persists it. The full state
// (hands and draw pile included) is returned, matching the upstream
// wire format.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	s.engineMu.Lock()
	st, err := s.engine.NewGame(req.PlayerName, req.NumAiPlayers)
	s.engineMu.Unlock()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	if err := s.games.Create(r.Context(), st); err != nil {
		log.Error().Err(err).Str("gameId", st.ID).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	log.Info().Str("gameId", st.ID).Int("players", len(st.Players)).Msg("game created")
	_ = json.NewEncoder(w).Encode(st)
}

// handleGetGame returns the current state of one game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	st, err := s.games.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("gameId", id).Msg("load game")
		http.Error(w, `{"error":"load_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

// actionReq is the payload for POST /game/action.
type actionReq struct {
	GameID string      `json:"game_id"`
	Action game.Action `json:"action"`
}

// handleAction loads the game, applies one action through the engine,
// and writes the result back. A version conflict means another action
// landed first; the client gets 409 and should refetch.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.GameID == "" {
		http.Error(w, `{"error":"game_id_required"}`, http.StatusBadRequest)
		return
	}

	st, err := s.games.Get(r.Context(), req.GameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("gameId", req.GameID).Msg("load game")
		http.Error(w, `{"error":"load_failed"}`, http.StatusInternalServerError)
		return
	}

	s.engineMu.Lock()
	next, err := s.engine.Apply(st, req.Action)
	s.engineMu.Unlock()
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if err := s.games.Update(r.Context(), next); err != nil {
		switch {
		case errors.Is(err, store.ErrVersionConflict):
			http.Error(w, `{"error":"version_conflict"}`, http.StatusConflict)
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		default:
			log.Error().Err(err).Str("gameId", next.ID).Msg("save game")
			http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		}
		return
	}

	if next.Status == game.StatusFinished {
		s.recordFinishedGame(w, r, next)
	}

	_ = json.NewEncoder(w).Encode(next)
}

// writeEngineError maps engine error kinds to HTTP responses. Every
// kind is a client error; nothing here is a server fault.
func writeEngineError(w http.ResponseWriter, err error) {
	var pe *game.PlacementError
	switch {
	case errors.Is(err, game.ErrNotInProgress):
		http.Error(w, `{"error":"game_not_in_progress"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrOutOfTurn):
		http.Error(w, `{"error":"out_of_turn"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrMissingPlacement):
		http.Error(w, `{"error":"missing_action_payload"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrTileNotInHand):
		http.Error(w, `{"error":"tile_not_in_hand"}`, http.StatusBadRequest)
	case errors.As(err, &pe):
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":      "invalid_placement",
			"tile_index": pe.Index,
		})
	default:
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	}
}

// recordFinishedGame persists a history row for the human player and
// bumps the owner's stats. Best effort: a failed write never fails the
// action response.
func (s *Server) recordFinishedGame(w http.ResponseWriter, r *http.Request, st *game.State) {
	var human *game.Player
	for i := range st.Players {
		if st.Players[i].Type == game.PlayerHuman {
			human = &st.Players[i]
			break
		}
	}
	if human == nil {
		return
	}

	rec := leaderboard.Record{
		GameID:     st.ID,
		PlayerName: human.Name,
		Score:      human.Score,
		Won:        st.WinnerID == human.ID,
		Turns:      st.TurnNumber,
	}
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me != nil {
		rec.UserID = me.ID
	} else {
		rec.AnonymousID = s.ensureAnonID(w, r)
	}

	if err := s.records.Insert(r.Context(), rec); err != nil {
		log.Warn().Err(err).Str("gameId", st.ID).Msg("insert game record")
	}
	if me != nil {
		if err := s.bumpStats(me.ID, rec.Won, rec.Score); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
}

// handleTileCatalog returns the static tile type catalog.
func (s *Server) handleTileCatalog(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(game.Catalog())
}

// handleLeaderboard returns the top finished-game scores.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.records.Top(r.Context(), 20)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"top": rows})
}
