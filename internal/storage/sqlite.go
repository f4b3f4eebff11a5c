// Package storage provides SQLite-based persistence for level progress.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for progress persistence.
type Store struct {
	db *sql.DB
}

// LevelResult is one finished round: a win or an abandoned/deadlocked run.
type LevelResult struct {
	ID           int64
	Level        int
	Seed         uint32
	Won          bool
	Moves        int
	HammersUsed  int
	ShufflesUsed int
	Duration     int // seconds
	PieceCount   int
	Difficulty   float64 // generator difficulty score of the board
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			hammers_used INTEGER NOT NULL DEFAULT 0,
			shuffles_used INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			piece_count INTEGER NOT NULL DEFAULT 0,
			difficulty REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_progress_level ON progress(level);
		CREATE INDEX IF NOT EXISTS idx_progress_won ON progress(won, level DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished round and returns the inserted ID.
func (s *Store) SaveResult(r LevelResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO progress
		 (level, seed, won, moves, hammers_used, shuffles_used, duration_secs, piece_count, difficulty)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Level, r.Seed, r.Won, r.Moves, r.HammersUsed, r.ShufflesUsed,
		r.Duration, r.PieceCount, r.Difficulty,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// HighestWon returns the highest level ever cleared, 0 when none.
func (s *Store) HighestWon() (int, error) {
	var level sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(level) FROM progress WHERE won = 1").Scan(&level)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query highest level: %w", err)
	}
	if !level.Valid {
		return 0, nil
	}
	return int(level.Int64), nil
}

// LevelBest returns the winning run with the fewest moves for a level, or
// nil when the level was never cleared.
func (s *Store) LevelBest(level int) (*LevelResult, error) {
	row := s.db.QueryRow(
		`SELECT id, level, seed, won, moves, hammers_used, shuffles_used,
		        duration_secs, piece_count, difficulty, created_at
		 FROM progress
		 WHERE level = ? AND won = 1
		 ORDER BY moves ASC, duration_secs ASC
		 LIMIT 1`,
		level,
	)
	r, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level best: %w", err)
	}
	return r, nil
}

// RecentResults returns the most recent rounds, newest first.
func (s *Store) RecentResults(limit int) ([]LevelResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, level, seed, won, moves, hammers_used, shuffles_used,
		        duration_secs, piece_count, difficulty, created_at
		 FROM progress
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []LevelResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// ClearProgress deletes every recorded round.
func (s *Store) ClearProgress() error {
	if _, err := s.db.Exec("DELETE FROM progress"); err != nil {
		return fmt.Errorf("storage: cannot clear progress: %w", err)
	}
	return nil
}

// ProgressStats contains aggregated statistics over all rounds.
type ProgressStats struct {
	Rounds      int
	Wins        int
	LevelsWon   int // distinct levels cleared
	HighestWon  int
	TotalMoves  int64
	HammersUsed int
	LastPlayed  time.Time
}

// Stats retrieves aggregated progress statistics.
func (s *Store) Stats() (*ProgressStats, error) {
	stats := &ProgressStats{}
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(won), 0),
		        COUNT(DISTINCT CASE WHEN won = 1 THEN level END),
		        COALESCE(MAX(CASE WHEN won = 1 THEN level END), 0),
		        COALESCE(SUM(moves), 0),
		        COALESCE(SUM(hammers_used), 0)
		 FROM progress`,
	).Scan(&stats.Rounds, &stats.Wins, &stats.LevelsWon, &stats.HighestWon,
		&stats.TotalMoves, &stats.HammersUsed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		"SELECT created_at FROM progress ORDER BY id DESC LIMIT 1",
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}
	return stats, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*LevelResult, error) {
	var r LevelResult
	var createdAt any
	if err := row.Scan(&r.ID, &r.Level, &r.Seed, &r.Won, &r.Moves,
		&r.HammersUsed, &r.ShufflesUsed, &r.Duration, &r.PieceCount,
		&r.Difficulty, &createdAt); err != nil {
		return nil, err
	}
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// parseTime handles both time.Time and the driver's string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
