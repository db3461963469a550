package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitch-engine/models"
)

// DB is the part of *pgxpool.Pool the store needs
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// PoolConfig holds connection settings for NewPool
type PoolConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Workers  int
}

// NewPool connects to PostgreSQL and verifies the connection
func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)

	dbConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	// Connection pool settings
	dbConfig.MaxConns = int32(workers * 2)
	dbConfig.MinConns = int32(workers / 2)
	dbConfig.MaxConnLifetime = time.Hour
	dbConfig.MaxConnIdleTime = time.Minute * 30

	db, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// PostgresStore persists runs and reduced pitch states
type PostgresStore struct {
	db DB
}

// NewPostgresStore wraps a pool (or anything that looks like one)
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var pitchColumns = []string{"run_id", "game_id", "seq", "inning", "half", "at_bat_num", "payload"}

const schema = `
	CREATE TABLE IF NOT EXISTS reduction_runs (
		id UUID PRIMARY KEY,
		status TEXT NOT NULL,
		total_games INTEGER NOT NULL,
		completed_games INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		completed_at TIMESTAMP WITH TIME ZONE
	);
	CREATE TABLE IF NOT EXISTS pitch_states (
		run_id UUID REFERENCES reduction_runs(id),
		game_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		inning INTEGER NOT NULL,
		half TEXT NOT NULL,
		at_bat_num INTEGER NOT NULL,
		payload JSONB NOT NULL,
		PRIMARY KEY (game_id, seq)
	)
`

// Migrate creates the tables if they do not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// CreateRun inserts a new run
func (s *PostgresStore) CreateRun(ctx context.Context, run Run) error {
	query := `
		INSERT INTO reduction_runs (id, status, total_games, completed_games, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(ctx, query, run.ID, run.Status, run.TotalGames, run.CompletedGames, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// UpdateRunStatus sets the run status, stamping completed_at for terminal states
func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID, status string) error {
	query := `
		UPDATE reduction_runs
		SET status = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $2 IN ('completed', 'error') THEN NOW() ELSE completed_at END
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query, runID, status)
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRunProgress records the number of games finished so far
func (s *PostgresStore) UpdateRunProgress(ctx context.Context, runID string, completed int) error {
	query := `
		UPDATE reduction_runs
		SET completed_games = $2, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := s.db.Exec(ctx, query, runID, completed); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return nil
}

// GetRun loads a run by id
func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	query := `
		SELECT id::text, status, total_games, completed_games, created_at, completed_at
		FROM reduction_runs
		WHERE id = $1
	`

	var run Run
	err := s.db.QueryRow(ctx, query, runID).Scan(
		&run.ID,
		&run.Status,
		&run.TotalGames,
		&run.CompletedGames,
		&run.CreatedAt,
		&run.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	return &run, nil
}

// SavePitches replaces the stored pitch states of a game
func (s *PostgresStore) SavePitches(ctx context.Context, runID, gameID string, pitches []models.PitchState) error {
	rows := make([][]interface{}, 0, len(pitches))
	for i, p := range pitches {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal pitch %d: %w", i, err)
		}
		rows = append(rows, []interface{}{runID, gameID, i, p.Inning, p.Half, p.AtBatNum, payload})
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op once committed
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Printf("Failed to roll back pitches for %s: %v", gameID, err)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM pitch_states WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("failed to clear pitches: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"pitch_states"}, pitchColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to store pitches: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit pitches: %w", err)
	}
	return nil
}

// LoadPitches returns a game's pitch states in order
func (s *PostgresStore) LoadPitches(ctx context.Context, gameID string) ([]models.PitchState, error) {
	rows, err := s.db.Query(ctx, `SELECT payload FROM pitch_states WHERE game_id = $1 ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pitches: %w", err)
	}
	defer rows.Close()

	var pitches []models.PitchState
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan pitch: %w", err)
		}

		var p models.PitchState
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to parse pitch: %w", err)
		}
		pitches = append(pitches, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pitches: %w", err)
	}

	if len(pitches) == 0 {
		return nil, ErrNotFound
	}
	return pitches, nil
}
