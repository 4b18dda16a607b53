package sqlitex_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"reelcheck/internal/sqlitex"
)

func TestIsBusy(t *testing.T) {
	if !sqlitex.IsBusy(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Fatal("expected busy message to be detected")
	}
	if sqlitex.IsBusy(errors.New("no such table: foo")) {
		t.Fatal("unrelated error reported as busy")
	}
	if sqlitex.IsBusy(nil) {
		t.Fatal("nil error reported as busy")
	}
}

func TestRetryOnBusy(t *testing.T) {
	attempts := 0
	err := sqlitex.RetryOnBusy(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RetryOnBusy returned error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}

	attempts = 0
	permanent := errors.New("constraint failed")
	if err := sqlitex.RetryOnBusy(context.Background(), func() error {
		attempts++
		return permanent
	}); !errors.Is(err, permanent) || attempts != 1 {
		t.Fatalf("non-busy errors must not retry: err=%v attempts=%d", err, attempts)
	}
}

func TestRetryOnBusyHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sqlitex.RetryOnBusy(ctx, func() error { return errors.New("SQLITE_BUSY") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestOpenReadOnlyRejectsWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ro.db")
	rw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := rw.Exec(`CREATE TABLE t (v TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	_ = rw.Close()

	ro, err := sqlitex.OpenReadOnly(ctx, path)
	if err != nil {
		t.Fatalf("OpenReadOnly: %v", err)
	}
	defer ro.Close()
	if _, err := ro.Exec(`INSERT INTO t (v) VALUES ('x')`); err == nil {
		t.Fatal("expected write to fail on read-only connection")
	}
	var count int
	if err := ro.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&count); err != nil {
		t.Fatalf("read from read-only connection: %v", err)
	}
}

func TestOpenReadWriteUsesWAL(t *testing.T) {
	db, err := sqlitex.OpenReadWrite(context.Background(), filepath.Join(t.TempDir(), "rw.db"))
	if err != nil {
		t.Fatalf("OpenReadWrite: %v", err)
	}
	defer db.Close()
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("read journal mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("expected wal journal mode, got %q", mode)
	}
}
