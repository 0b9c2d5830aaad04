// Package cache is a local SQLite-backed store of exported model bytes,
// keyed by build parameters and kernel identity. Exports are deterministic
// for a given kernel build, so a hit can be returned without touching the
// kernel at all.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is a single-writer cache of export results.
type Store struct {
	db *sql.DB
}

// Entry is one cached export.
type Entry struct {
	Key           string
	Bytes         []byte
	BuildID       string
	KernelName    string
	KernelVersion string
	CreatedAt     time.Time
}

// Open creates or opens the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" {
		return nil, errors.New("missing cache path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS exports (
	key            TEXT PRIMARY KEY,
	bytes          BLOB NOT NULL,
	build_id       TEXT NOT NULL,
	kernel_name    TEXT NOT NULL,
	kernel_version TEXT NOT NULL,
	created_at_ms  INTEGER NOT NULL
);
`)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached bytes for key, if present.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT bytes FROM exports WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put stores export bytes under key, replacing any previous entry.
// Each stored entry gets a fresh build id for audit purposes.
func (s *Store) Put(ctx context.Context, key string, data []byte, kernelName, kernelVersion string) error {
	if len(data) == 0 {
		return errors.New("refusing to cache empty export")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO exports (key, bytes, build_id, kernel_name, kernel_version, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	bytes = excluded.bytes,
	build_id = excluded.build_id,
	kernel_name = excluded.kernel_name,
	kernel_version = excluded.kernel_version,
	created_at_ms = excluded.created_at_ms
`, key, data, uuid.NewString(), kernelName, kernelVersion, time.Now().UnixMilli())
	return err
}

// Lookup returns full entry metadata for key, if present.
func (s *Store) Lookup(ctx context.Context, key string) (*Entry, bool, error) {
	var (
		e  Entry
		ms int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT key, bytes, build_id, kernel_name, kernel_version, created_at_ms
FROM exports WHERE key = ?`, key).
		Scan(&e.Key, &e.Bytes, &e.BuildID, &e.KernelName, &e.KernelVersion, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	e.CreatedAt = time.UnixMilli(ms)
	return &e, true, nil
}

// Prune removes entries older than the cutoff and returns how many were
// deleted.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM exports WHERE created_at_ms < ?`, olderThan.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
