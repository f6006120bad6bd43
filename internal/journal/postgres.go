package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig controls the Postgres connection pool used for run rows.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type querier interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Close()
}

// Postgres persists extraction runs in the extraction_runs table.
type Postgres struct {
	pool querier
}

// NewPostgres creates a Postgres-backed Repository using the provided config.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("journal.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgresWithPool constructs a repository from an existing pool (primarily for testing).
func NewPostgresWithPool(pool querier) (*Postgres, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (p *Postgres) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Close()
}

// Begin inserts the run in the running state.
func (p *Postgres) Begin(ctx context.Context, run Run) error {
	if p == nil || p.pool == nil {
		return fmt.Errorf("journal is not configured")
	}
	if run.ID == uuid.Nil {
		return fmt.Errorf("run id is required")
	}
	query := `
INSERT INTO extraction_runs (
	id,
	session_id,
	filename,
	formats,
	started_at,
	status
) VALUES (
	$1,$2,$3,$4,$5,$6
)`
	args := []any{
		run.ID,
		run.SessionID,
		run.Filename,
		run.Formats,
		run.StartedAt,
		string(RunRunning),
	}
	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Complete marks the run finished with the provided status and error message.
func (p *Postgres) Complete(ctx context.Context, id uuid.UUID, finishedAt time.Time, status RunStatus, errMsg *string) error {
	if p == nil || p.pool == nil {
		return fmt.Errorf("journal is not configured")
	}
	query := `
UPDATE extraction_runs
SET finished_at = $2,
    status = $3,
    error_message = $4
WHERE id = $1`
	tag, err := p.pool.Exec(ctx, query, id, finishedAt, string(status), errMsg)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads a single run or returns ErrNotFound.
func (p *Postgres) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	if p == nil || p.pool == nil {
		return Run{}, fmt.Errorf("journal is not configured")
	}
	query := `
SELECT id, session_id, filename, formats, started_at, finished_at, status, error_message
FROM extraction_runs
WHERE id = $1`
	var (
		run    Run
		status string
	)
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.SessionID,
		&run.Filename,
		&run.Formats,
		&run.StartedAt,
		&run.FinishedAt,
		&status,
		&run.ErrorMessage,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Run{}, ErrNotFound
		}
		return Run{}, fmt.Errorf("select run: %w", err)
	}
	run.Status = RunStatus(status)
	return run, nil
}

// List returns runs newest first, optionally filtered by status.
func (p *Postgres) List(ctx context.Context, status *RunStatus, limit, offset int) ([]Run, error) {
	if p == nil || p.pool == nil {
		return nil, fmt.Errorf("journal is not configured")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT id, session_id, filename, formats, started_at, finished_at, status, error_message
FROM extraction_runs
WHERE ($1::text IS NULL OR status = $1)
ORDER BY started_at DESC
LIMIT $2 OFFSET $3`
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}
	rows, err := p.pool.Query(ctx, query, statusArg, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run       Run
			rowStatus string
		)
		if err := rows.Scan(
			&run.ID,
			&run.SessionID,
			&run.Filename,
			&run.Formats,
			&run.StartedAt,
			&run.FinishedAt,
			&rowStatus,
			&run.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Status = RunStatus(rowStatus)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
