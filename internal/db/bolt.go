package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var slotsBucket = []byte("slots")

// BoltSlot is a key/value slot store backed by a bbolt file.
// The file is opened lazily on first use; bbolt holds an exclusive lock on it
// while open, so only one process can use the history at a time.
type BoltSlot struct {
	path     string
	db       *bolt.DB
	initOnce sync.Once
	initErr  error
}

// NewBoltSlot returns a slot store for path without touching the filesystem
func NewBoltSlot(path string) *BoltSlot {
	return &BoltSlot{path: path}
}

// Path returns the database file path
func (s *BoltSlot) Path() string {
	return s.path
}

func (s *BoltSlot) init() error {
	s.initOnce.Do(func() {
		dir := filepath.Dir(s.path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				s.initErr = fmt.Errorf("failed to create database directory: %w", err)
				return
			}
		}

		db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: 2 * time.Second})
		if err != nil {
			s.initErr = fmt.Errorf("failed to open bolt database: %w", err)
			return
		}

		err = db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(slotsBucket)
			return err
		})
		if err != nil {
			db.Close()
			s.initErr = fmt.Errorf("failed to create slots bucket: %w", err)
			return
		}

		s.db = db
	})
	return s.initErr
}

// Load returns the value stored under key, or nil if the key has never been saved
func (s *BoltSlot) Load(key string) ([]byte, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(slotsBucket).Get([]byte(key))
		if v != nil {
			// Values are only valid for the life of the transaction
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", key, err)
	}
	return out, nil
}

// Save replaces the value stored under key
func (s *BoltSlot) Save(key string, data []byte) error {
	if err := s.init(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(slotsBucket).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", key, err)
	}
	return nil
}

// Close closes the database if it was opened
func (s *BoltSlot) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
