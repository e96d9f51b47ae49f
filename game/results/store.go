package results

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
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/wricardo/mcp-training/deepsea/game/service"
)

// timeFormat sorts lexically in chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// ErrEmptyPath is returned by Open when no database path is given.
var ErrEmptyPath = errors.New("results: empty db path")

// Store is a SQLite ledger of finished episodes.
type Store struct {
	db *sql.DB
}

// Episode is one stored episode with its seats.
type Episode struct {
	ID         string               `json:"id"`
	SessionID  string               `json:"session_id"`
	ConfigName string               `json:"config_name"`
	Seed       int64                `json:"seed"`
	Steps      int                  `json:"steps"`
	FinishedAt time.Time            `json:"finished_at"`
	Seats      []service.SeatResult `json:"seats"`
	Winners    []int                `json:"winners"`
}

// StrategySummary aggregates every seat played by one strategy.
type StrategySummary struct {
	Strategy string  `json:"strategy"`
	Seats    int     `json:"seats"`
	Wins     int     `json:"wins"`
	AvgScore float64 `json:"avg_score"`
	MaxScore int     `json:"max_score"`
	Zeroes   int     `json:"zeroes"`
}

// WinRate is the share of seats that ended among the leaders.
func (s StrategySummary) WinRate() float64 {
	if s.Seats == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Seats)
}

// Open opens (or creates) the ledger at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS episodes (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			config_name TEXT NOT NULL,
			seed INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS seats (
			episode_id TEXT NOT NULL,
			seat INTEGER NOT NULL,
			name TEXT NOT NULL,
			strategy TEXT NOT NULL,
			score INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (episode_id, seat),
			FOREIGN KEY (episode_id) REFERENCES episodes(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_config ON episodes(config_name, finished_at);`,
		`CREATE INDEX IF NOT EXISTS idx_seats_strategy ON seats(strategy);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordEpisode stores a finished episode under a fresh id.
func (s *Store) RecordEpisode(ctx context.Context, result *service.EpisodeResult) error {
	if result == nil {
		return errors.New("results: nil episode")
	}

	id := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO episodes (id, session_id, config_name, seed, steps, finished_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, result.SessionID, result.ConfigName, result.Seed, result.Steps,
		result.FinishedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}

	winners := make(map[int]bool, len(result.Winners))
	for _, w := range result.Winners {
		winners[w] = true
	}

	for _, seat := range result.Seats {
		won := 0
		if winners[seat.Seat] {
			won = 1
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO seats (episode_id, seat, name, strategy, score, won) VALUES (?, ?, ?, ?, ?, ?)`,
			id, seat.Seat, seat.Name, seat.Strategy, seat.Score, won)
		if err != nil {
			return fmt.Errorf("insert seat %d: %w", seat.Seat, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{"episode": id, "config": result.ConfigName, "seed": result.Seed}).Debug("episode recorded")
	return nil
}

// Count returns the number of stored episodes, optionally for one config.
func (s *Store) Count(ctx context.Context, configName string) (int, error) {
	query := `SELECT COUNT(*) FROM episodes`
	var args []any
	if configName != "" {
		query += ` WHERE config_name = ?`
		args = append(args, configName)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Recent returns up to limit episodes, newest first.
func (s *Store) Recent(ctx context.Context, configName string, limit int) ([]*Episode, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, session_id, config_name, seed, steps, finished_at FROM episodes`
	var args []any
	if configName != "" {
		query += ` WHERE config_name = ?`
		args = append(args, configName)
	}
	query += ` ORDER BY finished_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var episodes []*Episode
	for rows.Next() {
		var ep Episode
		var finished string
		if err := rows.Scan(&ep.ID, &ep.SessionID, &ep.ConfigName, &ep.Seed, &ep.Steps, &finished); err != nil {
			rows.Close()
			return nil, err
		}
		ep.FinishedAt, _ = time.Parse(timeFormat, finished)
		episodes = append(episodes, &ep)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, ep := range episodes {
		if err := s.loadSeats(ctx, ep); err != nil {
			return nil, err
		}
	}
	return episodes, nil
}

func (s *Store) loadSeats(ctx context.Context, ep *Episode) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seat, name, strategy, score, won FROM seats WHERE episode_id = ? ORDER BY seat`, ep.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var seat service.SeatResult
		var won int
		if err := rows.Scan(&seat.Seat, &seat.Name, &seat.Strategy, &seat.Score, &won); err != nil {
			return err
		}
		ep.Seats = append(ep.Seats, seat)
		if won == 1 {
			ep.Winners = append(ep.Winners, seat.Seat)
		}
	}
	return rows.Err()
}

// Summary aggregates scores per strategy, best average first. An empty
// configName covers every config.
func (s *Store) Summary(ctx context.Context, configName string) ([]StrategySummary, error) {
	var b strings.Builder
	b.WriteString(`SELECT s.strategy, COUNT(*), SUM(s.won), AVG(s.score), MAX(s.score),
		SUM(CASE WHEN s.score = 0 THEN 1 ELSE 0 END)
		FROM seats s JOIN episodes e ON e.id = s.episode_id`)
	var args []any
	if configName != "" {
		b.WriteString(` WHERE e.config_name = ?`)
		args = append(args, configName)
	}
	b.WriteString(` GROUP BY s.strategy ORDER BY AVG(s.score) DESC, s.strategy`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StrategySummary
	for rows.Next() {
		var sum StrategySummary
		if err := rows.Scan(&sum.Strategy, &sum.Seats, &sum.Wins, &sum.AvgScore, &sum.MaxScore, &sum.Zeroes); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Prune deletes episodes finished before cutoff and returns how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	ts := cutoff.UTC().Format(timeFormat)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seats WHERE episode_id IN (SELECT id FROM episodes WHERE finished_at < ?)`, ts); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM episodes WHERE finished_at < ?`, ts)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
