package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/openfroyo/farmplan/pkg/jobs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteTable implements jobs.TableStore on a single SQLite "jobs" table.
type SQLiteTable struct {
	db   *sql.DB
	path string
}

var _ jobs.TableStore = (*SQLiteTable)(nil)

// NewSQLiteTable creates a new table store instance. Call Init and
// Migrate before use.
func NewSQLiteTable(cfg Config) (*SQLiteTable, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	return &SQLiteTable{path: cfg.Path}, nil
}

// Init opens the database connection and enables WAL mode.
func (s *SQLiteTable) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteTable) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteTable) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (s *SQLiteTable) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}

// Insert implements jobs.TableStore.
func (s *SQLiteTable) Insert(ctx context.Context, row jobs.Row) error {
	query := `
		INSERT INTO jobs (
			job_id, status, progress, phase, submitted_at, started_at,
			completed_at, last_heartbeat, cancel_flag, expires_at,
			idem_key, request_ref, result_ref, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		row.JobID,
		string(row.Status),
		row.Progress,
		row.Phase,
		row.SubmittedAt,
		row.StartedAt,
		row.CompletedAt,
		row.LastHeartbeat,
		boolToInt(row.CancelFlag),
		row.ExpiresAt,
		row.IdemKey,
		row.RequestRef,
		row.ResultRef,
		row.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job row: %w", err)
	}
	return nil
}

// Get implements jobs.TableStore.
func (s *SQLiteTable) Get(ctx context.Context, jobID string) (*jobs.Row, error) {
	query := `
		SELECT job_id, status, progress, phase, submitted_at, started_at,
		       completed_at, last_heartbeat, cancel_flag, expires_at,
		       idem_key, request_ref, result_ref, error_message
		FROM jobs
		WHERE job_id = ?
	`
	return s.scanRow(s.db.QueryRowContext(ctx, query, jobID))
}

// FindByIdemKey implements jobs.TableStore.
func (s *SQLiteTable) FindByIdemKey(ctx context.Context, idemKey string) (*jobs.Row, error) {
	if idemKey == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}
	query := `
		SELECT job_id, status, progress, phase, submitted_at, started_at,
		       completed_at, last_heartbeat, cancel_flag, expires_at,
		       idem_key, request_ref, result_ref, error_message
		FROM jobs
		WHERE idem_key = ?
	`
	return s.scanRow(s.db.QueryRowContext(ctx, query, idemKey))
}

func (s *SQLiteTable) scanRow(r *sql.Row) (*jobs.Row, error) {
	var (
		row    jobs.Row
		status string
		cancel int
	)
	err := r.Scan(
		&row.JobID,
		&status,
		&row.Progress,
		&row.Phase,
		&row.SubmittedAt,
		&row.StartedAt,
		&row.CompletedAt,
		&row.LastHeartbeat,
		&cancel,
		&row.ExpiresAt,
		&row.IdemKey,
		&row.RequestRef,
		&row.ResultRef,
		&row.ErrorMessage,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job row: %w", err)
	}
	row.Status = jobs.Status(status)
	row.CancelFlag = cancel != 0
	return &row, nil
}

// TransitionToRunning implements jobs.TableStore: moves a queued row to
// running, stamping started_at and last_heartbeat. Returns an error
// without changing the row if it is not queued (for example, it was
// already canceled out from under the queue).
func (s *SQLiteTable) TransitionToRunning(ctx context.Context, jobID string) error {
	now := time.Now()
	query := `
		UPDATE jobs
		SET status = ?, started_at = ?, last_heartbeat = ?
		WHERE job_id = ? AND status = ?
	`
	result, err := s.db.ExecContext(ctx, query, string(jobs.StatusRunning), now, now, jobID, string(jobs.StatusQueued))
	if err != nil {
		return fmt.Errorf("failed to transition job to running: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job %s is not queued", jobID)
	}
	return nil
}

// UpdateProgress implements jobs.TableStore: conditionally writes
// progress/phase/heartbeat, returning jobs.ErrCanceled instead if
// cancel_flag has been set by a concurrent Cancel call.
func (s *SQLiteTable) UpdateProgress(ctx context.Context, jobID string, progress float64, phase string) error {
	row, err := s.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if row.CancelFlag {
		return jobs.ErrCanceled
	}

	query := `
		UPDATE jobs
		SET progress = ?, phase = ?, last_heartbeat = ?
		WHERE job_id = ? AND cancel_flag = 0
	`
	result, err := s.db.ExecContext(ctx, query, progress, phase, time.Now(), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return jobs.ErrCanceled
	}
	return nil
}

// Complete implements jobs.TableStore.
func (s *SQLiteTable) Complete(ctx context.Context, jobID string, status jobs.Status, resultRef, errMsg string) error {
	query := `
		UPDATE jobs
		SET status = ?, completed_at = ?, result_ref = ?, error_message = ?
		WHERE job_id = ?
	`
	_, err := s.db.ExecContext(ctx, query, string(status), time.Now(), resultRef, errMsg, jobID)
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	return nil
}

// RequestCancel implements jobs.TableStore: a queued row transitions
// directly to canceled; a running row only has cancel_flag set, to be
// observed by the worker on its next progress update.
func (s *SQLiteTable) RequestCancel(ctx context.Context, jobID string) (jobs.Status, error) {
	row, err := s.Get(ctx, jobID)
	if err != nil {
		return "", err
	}

	switch row.Status {
	case jobs.StatusQueued:
		if err := s.Complete(ctx, jobID, jobs.StatusCanceled, "", ""); err != nil {
			return "", err
		}
		return jobs.StatusCanceled, nil
	case jobs.StatusRunning:
		if _, err := s.db.ExecContext(ctx, `UPDATE jobs SET cancel_flag = 1 WHERE job_id = ?`, jobID); err != nil {
			return "", fmt.Errorf("failed to set cancel flag: %w", err)
		}
		return jobs.StatusRunning, nil
	default:
		return row.Status, nil
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
