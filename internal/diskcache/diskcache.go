// Package diskcache provides a disk-backed get/put/clear cache table,
// used by internal/casblob to persist fetched archive bytes across
// invocations. It supports both the pure-Go modernc.org/sqlite driver
// (default) and, built with -tags cgo_sqlite, the CGO mattn/go-sqlite3
// driver, mirroring the build-mode split the teacher's core/sqlite
// package uses to pick a driver.
package diskcache

import (
	"database/sql"
	"fmt"
	"time"
)

// DriverType returns a string identifying the underlying SQLite
// implementation: "cgo" or "purego".
func DriverType() string {
	return driverType
}

// Store is a disk-backed key/value cache with an associated version key
// per entry, so a caller can detect when the upstream content a key
// refers to has moved on without needing to refetch to find out.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a disk cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open disk cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping disk cache: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key         TEXT PRIMARY KEY,
	version_key TEXT NOT NULL,
	data        BLOB NOT NULL,
	updated_at  INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create disk cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the bytes stored under key, along with their version key.
// ok is false if the key is absent.
func (s *Store) Get(key string) (data []byte, versionKey string, ok bool, err error) {
	row := s.db.QueryRow(`SELECT version_key, data FROM cache_entries WHERE key = ?`, key)
	if err := row.Scan(&versionKey, &data); err != nil {
		if err == sql.ErrNoRows {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("disk cache get %q: %w", key, err)
	}
	return data, versionKey, true, nil
}

// Put stores data under key with the given version key. A second Put for
// the same key always wins over a previous one (last write wins, §5).
func (s *Store) Put(key, versionKey string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO cache_entries (key, version_key, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET version_key = excluded.version_key, data = excluded.data, updated_at = excluded.updated_at`,
		key, versionKey, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("disk cache put %q: %w", key, err)
	}
	return nil
}

// Clear removes every entry from the cache.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("disk cache clear: %w", err)
	}
	return nil
}
