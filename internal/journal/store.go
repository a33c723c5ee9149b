package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"modernize/internal/config"
)

// ErrDisabled is returned by Open when no journal path is configured.
var ErrDisabled = errors.New("journal disabled")

// Status is the outcome of a submission attempt.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusRejected  Status = "rejected"
)

// Entry is one journaled submission.
type Entry struct {
	ID          int64     `json:"id"`
	RequestID   string    `json:"request_id"`
	JobRef      string    `json:"job_ref,omitempty"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	PathCount   int       `json:"path_count"`
	RuleCount   int       `json:"rule_count"`
	BucketCount int       `json:"bucket_count"`
	Status      Status    `json:"status"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Store persists journal entries in SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
	return lastErr
}

// Open connects to the journal configured in cfg.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil || strings.TrimSpace(cfg.Paths.JournalPath) == "" {
		return nil, ErrDisabled
	}
	return OpenPath(cfg.Paths.JournalPath)
}

// OpenPath initializes or connects to the journal database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: flock.New(dbPath + ".lock")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const entryColumns = `id, request_id, job_ref, name, job_type, path_count, rule_count, bucket_count, status, message, submitted_at`

// Record inserts entry and returns it with ID and timestamp assigned.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now()
	}
	entry.SubmittedAt = entry.SubmittedAt.UTC().Truncate(time.Second)
	if entry.Status == "" {
		entry.Status = StatusScheduled
	}

	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx,
			`INSERT INTO jobs (request_id, job_ref, name, job_type, path_count, rule_count, bucket_count, status, message, submitted_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.RequestID, entry.JobRef, entry.Name, entry.Type,
			entry.PathCount, entry.RuleCount, entry.BucketCount,
			string(entry.Status), entry.Message, entry.SubmittedAt.Format(time.RFC3339),
		)
		return execErr
	})
	if err != nil {
		return Entry{}, fmt.Errorf("record job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("record job id: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// List returns the most recent entries first. A non-positive limit returns
// every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM jobs ORDER BY submitted_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return entries, nil
}

// Get returns the entry with id, or nil when none exists.
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM jobs WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return entry, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		entry     Entry
		status    string
		submitted string
	)
	if err := row.Scan(
		&entry.ID, &entry.RequestID, &entry.JobRef, &entry.Name, &entry.Type,
		&entry.PathCount, &entry.RuleCount, &entry.BucketCount,
		&status, &entry.Message, &submitted,
	); err != nil {
		return nil, err
	}
	entry.Status = Status(status)
	if ts, err := time.Parse(time.RFC3339, submitted); err == nil {
		entry.SubmittedAt = ts
	}
	return &entry, nil
}
