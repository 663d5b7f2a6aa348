package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/widget-assist/internal/domain"
	"github.com/ashureev/widget-assist/internal/shared"
	_ "modernc.org/sqlite"
)

const (
	insertMaxRetries = 3
	insertBaseDelay  = 50 * time.Millisecond

	defaultBusyTimeout = 5 * time.Second
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	return openSQLite(dbPath, defaultBusyTimeout)
}

// openSQLite opens the store with the given SQLite busy timeout.
func openSQLite(dbPath string, busyTimeout time.Duration) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(%d)",
		dbPath, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		widget_name TEXT NOT NULL,
		channel TEXT NOT NULL,
		value TEXT NOT NULL,
		message TEXT NOT NULL,
		ai_generated INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_widget_created ON submissions(widget_name, created_at);
	CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveSubmission inserts a submission, retrying with exponential backoff
// while SQLite reports the database busy or locked.
func (s *SQLiteStore) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	if sub == nil || sub.ID == "" {
		return errors.New("submission id is required")
	}

	var err error
	for i := 0; i < insertMaxRetries; i++ {
		err = s.insertSubmission(ctx, sub)
		if err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) || i == insertMaxRetries-1 {
			break
		}

		delay := insertBaseDelay * time.Duration(1<<i) // 50ms, 100ms
		slog.Debug("SaveSubmission hit SQLITE_BUSY, retrying",
			"submission_id", sub.ID,
			"attempt", i+1,
			"delay", delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("save submission %s: %w", sub.ID, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("save submission %s: %w", sub.ID, err)
}

func (s *SQLiteStore) insertSubmission(ctx context.Context, sub *domain.Submission) error {
	query := `
	INSERT INTO submissions (id, widget_name, channel, value, message, ai_generated, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		sub.ID, sub.WidgetName, sub.Channel, sub.Value,
		sub.Message, sub.AIGenerated, sub.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a submission by ID.
func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	query := `
		SELECT id, widget_name, channel, value, message, ai_generated, created_at
		FROM submissions WHERE id = ?`

	sub, err := scanSubmission(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan submission row: %w", err)
	}
	return sub, nil
}

// ListSubmissions returns the newest submissions first.
func (s *SQLiteStore) ListSubmissions(ctx context.Context, widget string, limit int) ([]*domain.Submission, error) {
	query := `
		SELECT id, widget_name, channel, value, message, ai_generated, created_at
		FROM submissions`
	args := []interface{}{}

	if widget != "" {
		query += ` WHERE widget_name = ?`
		args = append(args, widget)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, ClampLimit(limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close submission rows", "error", closeErr)
		}
	}()

	subs := []*domain.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission row: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return subs, nil
}

// DeleteSubmissionsBefore removes submissions older than cutoff.
func (s *SQLiteStore) DeleteSubmissionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM submissions WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete submissions: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var sub domain.Submission
	var createdAt int64

	if err := row.Scan(
		&sub.ID, &sub.WidgetName, &sub.Channel, &sub.Value,
		&sub.Message, &sub.AIGenerated, &createdAt,
	); err != nil {
		return nil, err
	}

	sub.CreatedAt = time.UnixMilli(createdAt)
	return &sub, nil
}
