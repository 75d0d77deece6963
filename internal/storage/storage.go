// Package storage persists user preferences in a small sqlite key-value
// table. Persistence is best-effort throughout: every failure degrades to
// "use default / no-op" so preferences simply do not survive a restart.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const prefix = "markethub:"

// Store is a synchronous JSON key-value store. A nil *Store is valid and
// no-ops every operation, which is how persistence failure at startup is
// absorbed.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func Open(path string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS preferences (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Get unmarshals the stored value for key into out and reports whether a
// value was found. The caller's pre-populated out acts as the default.
func (s *Store) Get(key string, out any) bool {
	if s == nil {
		return false
	}
	var raw string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, prefix+key).Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			s.log.Warn("preference read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Warn("preference decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key. Failures are logged and absorbed.
func (s *Store) Set(key string, value any) {
	if s == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("preference encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	_, err = s.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		prefix+key, string(raw))
	if err != nil {
		s.log.Warn("preference write failed", zap.String("key", key), zap.Error(err))
	}
}

// Remove deletes key. Failures are logged and absorbed.
func (s *Store) Remove(key string) {
	if s == nil {
		return
	}
	if _, err := s.db.Exec(`DELETE FROM preferences WHERE key = ?`, prefix+key); err != nil {
		s.log.Warn("preference delete failed", zap.String("key", key), zap.Error(err))
	}
}
