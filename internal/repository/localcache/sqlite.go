package localcache

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

	"creationrights/internal/domain"
	catalogRepo "creationrights/internal/domain/repositories/catalog"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// SQLiteCache is a durable key-value cache in a single SQLite file. An
// advisory lock next to the file keeps a second process on the same device
// from interleaving whole-collection writes.
type SQLiteCache struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

var _ catalogRepo.LocalCache = (*SQLiteCache)(nil)

// OpenSQLite opens (creating if needed) the cache at path and takes its lock.
// A lock held by another process is reported as a CacheError.
func OpenSQLite(ctx context.Context, path string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &domain.CacheError{Op: "open", Err: fmt.Errorf("create cache dir: %w", err)}
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, &domain.CacheError{Op: "lock", Err: fmt.Errorf("acquire cache lock: %w", err)}
	}
	if !ok {
		return nil, &domain.CacheError{Op: "lock", Err: fmt.Errorf("cache %s is in use by another process", path)}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, &domain.CacheError{Op: "open", Err: fmt.Errorf("open sqlite db: %w", err)}
	}
	// One connection keeps the WAL pragmas and the lock semantics simple.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, &domain.CacheError{Op: "open", Err: fmt.Errorf("apply pragma %q: %w", pragma, execErr)}
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, &domain.CacheError{Op: "open", Err: fmt.Errorf("create kv table: %w", err)}
	}

	return &SQLiteCache{db: db, path: path, lock: lock}, nil
}

// Path returns the database file location.
func (c *SQLiteCache) Path() string {
	return c.path
}

// Get returns the value stored under key, or domain.ErrNotFound.
func (c *SQLiteCache) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := retryOnBusy(ctx, func() error {
		return c.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("cache key %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return "", &domain.CacheError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

// Set overwrites the value stored under key.
func (c *SQLiteCache) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := retryOnBusy(ctx, func() error {
		_, execErr := c.db.ExecContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
             ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now,
		)
		return execErr
	})
	if err != nil {
		return &domain.CacheError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (c *SQLiteCache) Remove(ctx context.Context, key string) error {
	err := retryOnBusy(ctx, func() error {
		_, execErr := c.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
		return execErr
	})
	if err != nil {
		return &domain.CacheError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

// Close closes the database and releases the file lock.
func (c *SQLiteCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	dbErr := c.db.Close()
	lockErr := c.lock.Unlock()
	return errors.Join(dbErr, lockErr)
}

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
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
