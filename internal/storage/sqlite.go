// Package storage provides an in-memory SQLite attempt log.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Nothing is written to disk: the log lives as long as the process.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Outcome values stored with each attempt.
const (
	OutcomeSuccess = "success"
	OutcomeCrash   = "crash"
)

// Verification states of an attempt.
const (
	VerifyNone     = ""
	VerifyAccepted = "accepted"
	VerifyRejected = "rejected"
)

// Store manages the in-memory SQLite database holding attempts.
type Store struct {
	db *sql.DB
}

// Attempt is a single finished landing attempt.
type Attempt struct {
	ID              int64
	GameID          string
	Pilot           string
	Level           int
	Outcome         string
	VerticalSpeed   float64
	HorizontalSpeed float64
	Altitude        float64
	Fuel            float64
	Verified        string
	Reason          string
	CreatedAt       time.Time
}

// PilotEntry is one row of the leaderboard.
type PilotEntry struct {
	Pilot     string
	BestLevel int
	Landings  int
	Attempts  int
}

// GameStats contains aggregated statistics for a game mode.
type GameStats struct {
	GameID        string
	Attempts      int
	Landings      int
	Crashes       int
	BestLevel     int
	AvgImpact     float64 // mean |vertical speed| at touchdown
	LastAttemptAt time.Time
}

// OpenMemory creates an empty in-memory database and runs migrations.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database; pin a single one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			pilot TEXT NOT NULL,
			level INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			vertical_speed REAL NOT NULL,
			horizontal_speed REAL NOT NULL,
			altitude REAL NOT NULL,
			fuel REAL NOT NULL,
			verified TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_game_id ON attempts(game_id);
		CREATE INDEX IF NOT EXISTS idx_attempts_best ON attempts(game_id, outcome, level DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection. The log is discarded.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordAttempt stores a finished attempt.
// Returns the ID of the inserted record.
func (s *Store) RecordAttempt(a Attempt) (int64, error) {
	if a.Outcome != OutcomeSuccess && a.Outcome != OutcomeCrash {
		return 0, fmt.Errorf("storage: invalid outcome %q", a.Outcome)
	}

	result, err := s.db.Exec(
		`INSERT INTO attempts
		 (game_id, pilot, level, outcome, vertical_speed, horizontal_speed, altitude, fuel, verified, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.GameID, a.Pilot, a.Level, a.Outcome, a.VerticalSpeed, a.HorizontalSpeed,
		a.Altitude, a.Fuel, a.Verified, a.Reason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// MarkVerified records the validator's verdict for an attempt.
func (s *Store) MarkVerified(id int64, accepted bool, reason string) error {
	status := VerifyRejected
	if accepted {
		status = VerifyAccepted
	}

	res, err := s.db.Exec(
		"UPDATE attempts SET verified = ?, reason = ? WHERE id = ?",
		status, reason, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot mark attempt %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: attempt %d not found", id)
	}
	return nil
}

// RecentAttempts retrieves the latest attempts for a game mode, newest first.
func (s *Store) RecentAttempts(gameID string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, pilot, level, outcome, vertical_speed, horizontal_speed,
		        altitude, fuel, verified, reason, created_at
		 FROM attempts
		 WHERE game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var createdAt any
		if err := rows.Scan(&a.ID, &a.GameID, &a.Pilot, &a.Level, &a.Outcome,
			&a.VerticalSpeed, &a.HorizontalSpeed, &a.Altitude, &a.Fuel,
			&a.Verified, &a.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		a.CreatedAt = parseTime(createdAt)
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return attempts, nil
}

// BestLevel returns the highest level landed in a game mode, or 0 if none.
func (s *Store) BestLevel(gameID string) (int, error) {
	var best int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(level), 0) FROM attempts WHERE game_id = ? AND outcome = ?`,
		gameID, OutcomeSuccess,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get best level: %w", err)
	}
	return best, nil
}

// Leaderboard ranks pilots by best landed level, then by landing count.
// Pilots without a landing are listed with best level 0.
func (s *Store) Leaderboard(gameID string, limit int) ([]PilotEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT pilot,
		        COALESCE(MAX(CASE WHEN outcome = ? THEN level END), 0) AS best,
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END) AS landings,
		        COUNT(*)
		 FROM attempts
		 WHERE game_id = ?
		 GROUP BY pilot
		 ORDER BY best DESC, landings DESC, pilot ASC
		 LIMIT ?`,
		OutcomeSuccess, OutcomeSuccess, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []PilotEntry
	for rows.Next() {
		var e PilotEntry
		if err := rows.Scan(&e.Pilot, &e.BestLevel, &e.Landings, &e.Attempts); err != nil {
			return nil, fmt.Errorf("storage: cannot scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// GetGameStats retrieves aggregated statistics for a specific game mode.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(CASE WHEN outcome = ? THEN level END), 0),
		        COALESCE(AVG(ABS(vertical_speed)), 0)
		 FROM attempts WHERE game_id = ?`,
		OutcomeSuccess, OutcomeCrash, OutcomeSuccess, gameID,
	).Scan(&stats.Attempts, &stats.Landings, &stats.Crashes, &stats.BestLevel, &stats.AvgImpact)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	// Get last attempt time
	var last any
	err = s.db.QueryRow(
		`SELECT created_at FROM attempts WHERE game_id = ? ORDER BY id DESC LIMIT 1`,
		gameID,
	).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last attempt: %w", err)
	}
	if err == nil {
		stats.LastAttemptAt = parseTime(last)
	}

	return stats, nil
}

// ClearAttempts removes every attempt of a game mode.
func (s *Store) ClearAttempts(gameID string) error {
	_, err := s.db.Exec("DELETE FROM attempts WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear attempts: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetime values from the driver.
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
