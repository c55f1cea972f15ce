// File: store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"kabaddi-scoreboard/models"
	"kabaddi-scoreboard/store/migrations"
)

// SQLiteStore keeps competitions, matches and score events in relational tables.
// Score events are append-only rows keyed by (match_id, seq).
type SQLiteStore struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// OpenSQLite opens the database at path and applies embedded migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer; transactions never interleave
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ---------------------- competitions ----------------------

func (s *SQLiteStore) CreateCompetition(ctx context.Context, c *models.Competition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO competitions (id, name, place, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Place, c.Date, toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert competition: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return getCompetition(ctx, s.db, id)
}

func (s *SQLiteStore) ListCompetitions(ctx context.Context, limit int) ([]models.Competition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := `SELECT id, name, place, date, created_at, updated_at
	          FROM competitions ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	items := []models.Competition{}
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range items {
		ids, err := matchIDs(ctx, s.db, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Matches = ids
	}
	return items, nil
}

func (s *SQLiteStore) CountCompetitions(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM competitions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count competitions: %w", err)
	}
	return n, nil
}

// ---------------------- matches ----------------------

func (s *SQLiteStore) CreateMatch(ctx context.Context, m *models.Match) (*models.Competition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var c *models.Competition
	err := runTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		c, err = getCompetition(ctx, tx, m.CompetitionID)
		if err != nil {
			return err
		}
		if c.HasMatch(m.ID) {
			return ErrAlreadyExists
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO matches (id, competition_id, position, team_a_name, team_b_name,
			   team_a_score, team_b_score, is_active, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.CompetitionID, len(c.Matches), m.TeamAName, m.TeamBName,
			m.Scores.TeamA, m.Scores.TeamB, m.IsActive, toMillis(m.CreatedAt), toMillis(m.UpdatedAt),
		)
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		if err := insertEvents(ctx, tx, m.ID, 0, m.Scores.History); err != nil {
			return err
		}

		c.AttachMatch(m.ID, m.CreatedAt)
		_, err = tx.ExecContext(ctx, `UPDATE competitions SET updated_at = ? WHERE id = ?`,
			toMillis(c.UpdatedAt), c.ID)
		if err != nil {
			return fmt.Errorf("touch competition: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStore) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return getMatch(ctx, s.db, id)
}

func (s *SQLiteStore) GetMatches(ctx context.Context, ids []string) ([]models.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := make([]models.Match, 0, len(ids))
	for _, id := range ids {
		m, err := getMatch(ctx, s.db, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, nil
}

func (s *SQLiteStore) UpdateMatch(ctx context.Context, id string, fn MatchMutator) (*models.Match, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var m *models.Match
	written := false

	err := runTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		m, err = getMatch(ctx, tx, id)
		if err != nil {
			return err
		}
		before := len(m.Scores.History)

		changed, err := fn(m)
		if err != nil || !changed {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE matches SET team_a_score = ?, team_b_score = ?, is_active = ?, updated_at = ?
			 WHERE id = ?`,
			m.Scores.TeamA, m.Scores.TeamB, m.IsActive, toMillis(m.UpdatedAt), id,
		)
		if err != nil {
			return fmt.Errorf("update match: %w", err)
		}
		if len(m.Scores.History) < before {
			return fmt.Errorf("score history of match %s shrank", id)
		}
		if err := insertEvents(ctx, tx, id, before, m.Scores.History[before:]); err != nil {
			return err
		}
		written = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return m, written, nil
}

// ---------------------- helpers ----------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompetition(row rowScanner) (*models.Competition, error) {
	var (
		c                  models.Competition
		created, updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Place, &c.Date, &created, &updatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

func getCompetition(ctx context.Context, q queryer, id string) (*models.Competition, error) {
	c, err := scanCompetition(q.QueryRowContext(ctx,
		`SELECT id, name, place, date, created_at, updated_at FROM competitions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get competition: %w", err)
	}
	c.Matches, err = matchIDs(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func matchIDs(ctx context.Context, q queryer, competitionID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id FROM matches WHERE competition_id = ? ORDER BY position`, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list match ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func getMatch(ctx context.Context, q queryer, id string) (*models.Match, error) {
	var (
		m                  models.Match
		created, updatedAt int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, competition_id, team_a_name, team_b_name, team_a_score, team_b_score,
		        is_active, created_at, updated_at
		 FROM matches WHERE id = ?`, id,
	).Scan(&m.ID, &m.CompetitionID, &m.TeamAName, &m.TeamBName, &m.Scores.TeamA, &m.Scores.TeamB,
		&m.IsActive, &created, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	m.CreatedAt = fromMillis(created)
	m.UpdatedAt = fromMillis(updatedAt)

	rows, err := q.QueryContext(ctx,
		`SELECT team, points, created_at FROM score_events WHERE match_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("list score events: %w", err)
	}
	defer rows.Close()

	m.Scores.History = []models.ScoreEvent{}
	for rows.Next() {
		var (
			e  models.ScoreEvent
			at int64
		)
		if err := rows.Scan(&e.Team, &e.Points, &at); err != nil {
			return nil, err
		}
		e.Timestamp = fromMillis(at)
		m.Scores.History = append(m.Scores.History, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, matchID string, firstSeq int, events []models.ScoreEvent) error {
	for i, e := range events {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO score_events (match_id, seq, team, points, created_at) VALUES (?, ?, ?, ?, ?)`,
			matchID, firstSeq+i, string(e.Team), e.Points, toMillis(e.Timestamp),
		)
		if err != nil {
			return fmt.Errorf("insert score event: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

var _ Store = (*SQLiteStore)(nil)
