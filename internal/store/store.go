// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/texuddy/texuddy/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Fixed-width UTC timestamps keep text ordering chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			exercise_id TEXT NOT NULL,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			words INTEGER NOT NULL,
			chars INTEGER NOT NULL,
			elapsed_seconds INTEGER NOT NULL,
			points INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS skipped (
			exercise_id TEXT PRIMARY KEY,
			skipped_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_exercise ON sessions(exercise_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session. A missing ID is generated.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats) (int64, error) {
	if stats.ID == "" {
		stats.ID = uuid.NewString()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (uuid, exercise_id, title, category, difficulty, started_at, ended_at, words, chars, elapsed_seconds, points)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.ID,
		stats.ExerciseID,
		stats.Title,
		stats.Category,
		string(stats.Difficulty),
		stats.StartedAt.UTC().Format(timeLayout),
		stats.EndedAt.UTC().Format(timeLayout),
		stats.Words,
		stats.Chars,
		stats.ElapsedSeconds,
		stats.Points,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CompletedExerciseIDs returns the distinct exercises with at least one session.
func (s *Store) CompletedExerciseIDs(ctx context.Context) (map[string]struct{}, error) {
	return s.idSet(ctx, `SELECT DISTINCT exercise_id FROM sessions`)
}

// SkippedExerciseIDs returns the exercises the learner skipped.
func (s *Store) SkippedExerciseIDs(ctx context.Context) (map[string]struct{}, error) {
	return s.idSet(ctx, `SELECT exercise_id FROM skipped`)
}

// SkipExercise marks an exercise as skipped.
func (s *Store) SkipExercise(ctx context.Context, exerciseID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skipped (exercise_id, skipped_at) VALUES (?, ?)
		 ON CONFLICT(exercise_id) DO UPDATE SET skipped_at = excluded.skipped_at`,
		exerciseID, at.UTC().Format(timeLayout))
	return err
}

// UnskipExercise removes an exercise from the skipped list.
func (s *Store) UnskipExercise(ctx context.Context, exerciseID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM skipped WHERE exercise_id = ?`, exerciseID)
	return err
}

func (s *Store) idSet(ctx context.Context, query string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	ids := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, cfg.Category)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, exercise_id, title, category, ended_at, words, elapsed_seconds, points
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &agg.ExerciseID, &agg.Title, &agg.Category, &endedAt, &agg.Words, &agg.ElapsedSeconds, &agg.Points); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListCategoryAggregates sums sessions per category for the given session ids.
func (s *Store) ListCategoryAggregates(ctx context.Context, sessionIDs []int64) ([]model.CategoryAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT category, COUNT(*), SUM(words), SUM(elapsed_seconds), SUM(points)
		FROM sessions
		WHERE id IN (%s)
		GROUP BY category`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CategoryAggregate
	for rows.Next() {
		var agg model.CategoryAggregate
		if err := rows.Scan(&agg.Category, &agg.Sessions, &agg.Words, &agg.ElapsedSeconds, &agg.Points); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns the raw value for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put stores the raw value for key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Format(timeLayout))
	return err
}
