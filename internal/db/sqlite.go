package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSlot is a key/value slot store backed by a SQLite file.
// The database is opened lazily on first use.
type SQLiteSlot struct {
	path     string
	conn     *sql.DB
	initOnce sync.Once
	initErr  error
}

// NewSQLiteSlot returns a slot store for dbPath without touching the filesystem
func NewSQLiteSlot(dbPath string) *SQLiteSlot {
	return &SQLiteSlot{path: dbPath}
}

// Path returns the database file path
func (s *SQLiteSlot) Path() string {
	return s.path
}

func (s *SQLiteSlot) init() error {
	s.initOnce.Do(func() {
		// Ensure the directory exists
		dir := filepath.Dir(s.path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				s.initErr = fmt.Errorf("failed to create database directory: %w", err)
				return
			}
		}

		conn, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
		if err != nil {
			s.initErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		// Initialize schema
		if _, err := conn.Exec(createSlotsTable); err != nil {
			conn.Close()
			s.initErr = fmt.Errorf("failed to create slots schema: %w", err)
			return
		}

		s.conn = conn
	})
	return s.initErr
}

// Load returns the value stored under key, or nil if the key has never been saved
func (s *SQLiteSlot) Load(key string) ([]byte, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	var value string
	err := s.conn.QueryRow(selectSlot, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", key, err)
	}
	return []byte(value), nil
}

// Save replaces the value stored under key
func (s *SQLiteSlot) Save(key string, data []byte) error {
	if err := s.init(); err != nil {
		return err
	}

	if _, err := s.conn.Exec(upsertSlot, key, string(data)); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last saved
func (s *SQLiteSlot) UpdatedAt(key string) (time.Time, bool, error) {
	if err := s.init(); err != nil {
		return time.Time{}, false, err
	}

	var updatedAt string
	err := s.conn.QueryRow(selectSlotUpdatedAt, key).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read slot timestamp: %w", err)
	}

	t, err := parseTimestamp(updatedAt)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Close closes the database connection if it was opened
func (s *SQLiteSlot) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// parseTimestamp parses SQLite timestamp formats
func parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}
