// internal/store/sqlite.go
//
// SQL-backed Store. Each game is one row: the full GameState as a JSON
// document plus a version column for the compare-and-swap update. The
// status column is duplicated out of the document so finished games
// can be queried without unmarshaling.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/calderwb/mosaic/apps/go-server/internal/game"
)

// SQL is a Store over a database/sql handle (SQLite in production).
type SQL struct {
	db *sql.DB
}

// NewSQLStore wraps an open database handle. The handle's lifecycle
// belongs to the caller (opened at startup, closed at shutdown).
func NewSQLStore(db *sql.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Create(ctx context.Context, st *game.State) error {
	st.Version = 1
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", st.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (id, status, doc, version, created_at) VALUES (?,?,?,?,?)`,
		st.ID, string(st.Status), string(doc), st.Version, st.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", st.ID, err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, id string) (*game.State, error) {
	var doc string
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT doc, version FROM games WHERE id=?`, id,
	).Scan(&doc, &version)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select game %s: %w", id, err)
	}
	var st game.State
	if err := json.Unmarshal([]byte(doc), &st); err != nil {
		return nil, fmt.Errorf("unmarshal game %s: %w", id, err)
	}
	st.Version = version
	return &st, nil
}

func (s *SQL) Update(ctx context.Context, st *game.State) error {
	// Marshal with the post-write version so the document column and
	// the version column always agree.
	next := *st
	next.Version = st.Version + 1
	doc, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", st.ID, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET doc=?, status=?, version=version+1, updated_at=? WHERE id=? AND version=?`,
		string(doc), string(st.Status), time.Now().UTC().Format(time.RFC3339), st.ID, st.Version,
	)
	if err != nil {
		return fmt.Errorf("update game %s: %w", st.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is gone or someone else won the race.
		var exists int
		if scanErr := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM games WHERE id=?`, st.ID,
		).Scan(&exists); scanErr == sql.ErrNoRows {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	st.Version++
	return nil
}
