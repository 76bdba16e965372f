package leaderboard

import (
	"context"
	"database/sql"
)

// Record is one finished game from the owner's point of view.
type Record struct {
	GameID      string `json:"gameId"`
	UserID      string `json:"userId,omitempty"`
	AnonymousID string `json:"-"`
	PlayerName  string `json:"playerName"`
	Score       int    `json:"score"`
	Won         bool   `json:"won"`
	Turns       int    `json:"turns"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records a finished game. Re-recording the same game id is a
// no-op (the action endpoint can be retried).
func (s *Store) Insert(ctx context.Context, r Record) error {
	var userID, anonID any
	if r.UserID != "" {
		userID = r.UserID
	}
	if r.AnonymousID != "" {
		anonID = r.AnonymousID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO game_records (game_id, user_id, anonymous_id, player_name, score, won, turns)
		 VALUES (?,?,?,?,?,?,?)`,
		r.GameID, userID, anonID, r.PlayerName, r.Score, boolInt(r.Won), r.Turns,
	)
	return err
}

// ClaimAnonymous transfers guest records to a user account after auth.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE game_records SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`,
		userID, anonID,
	)
	return err
}

type Row struct {
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	FinishedAt string `json:"finishedAt"`
}

// Top returns the highest-scoring finished games.
func (s *Store) Top(ctx context.Context, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_name, score, finished_at
		 FROM game_records
		 ORDER BY score DESC, finished_at ASC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.PlayerName, &r.Score, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type HistoryRow struct {
	GameID     string `json:"gameId"`
	Score      int    `json:"score"`
	Won        bool   `json:"won"`
	Turns      int    `json:"turns"`
	FinishedAt string `json:"finishedAt"`
}

// ForUser returns a user's recent finished games, newest first.
func (s *Store) ForUser(ctx context.Context, userID string, limit int) ([]HistoryRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, score, won, turns, finished_at
		 FROM game_records
		 WHERE user_id=?
		 ORDER BY finished_at DESC
		 LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []HistoryRow{}
	for rows.Next() {
		var r HistoryRow
		var won int
		if err := rows.Scan(&r.GameID, &r.Score, &won, &r.Turns, &r.FinishedAt); err != nil {
			return nil, err
		}
		r.Won = won != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
