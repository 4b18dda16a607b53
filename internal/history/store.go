package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"reelcheck/internal/availability"
	"reelcheck/internal/engine"
	"reelcheck/internal/sqlitex"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
// Users delete the history database after schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store records the outcome of each check run in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sqlitex.OpenReadWrite(ctx, path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s or run with --no-history)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordRun stores every record of one run in a single transaction.
func (s *Store) RecordRun(ctx context.Context, runID string, startedAt time.Time, records []engine.Record) error {
	return sqlitex.RetryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, started_at, finished_at, titles) VALUES (?, ?, ?, ?)`,
			runID, startedAt.UnixNano(), time.Now().UnixNano(), len(records),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
			(run_id, seq, title, theater_date, digital_date, status, digital_source, source_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare result insert: %w", err)
		}
		defer stmt.Close()
		for i, rec := range records {
			if _, err := stmt.ExecContext(ctx,
				runID, i, rec.Title,
				nullString(rec.TheaterDate.String()),
				nullString(rec.DigitalDate.String()),
				rec.Status.String(),
				string(rec.DigitalSource),
				nullString(rec.SourceURL),
			); err != nil {
				return fmt.Errorf("insert result %q: %w", rec.Title, err)
			}
		}
		return tx.Commit()
	})
}

// LastStatuses returns the most recently recorded status of every title.
func (s *Store) LastStatuses(ctx context.Context) (map[string]availability.Status, error) {
	out := make(map[string]availability.Status)
	err := sqlitex.RetryOnBusy(ctx, func() error {
		clear(out)
		rows, err := s.db.QueryContext(ctx, `SELECT r.title, r.status
			FROM results r JOIN runs ON runs.id = r.run_id
			ORDER BY runs.started_at ASC, r.seq ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var title, statusText string
			if err := rows.Scan(&title, &statusText); err != nil {
				return err
			}
			status, err := availability.ParseStatus(statusText)
			if err != nil {
				continue
			}
			out[title] = status
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query last statuses: %w", err)
	}
	return out, nil
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
