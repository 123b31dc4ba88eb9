package db

import (
	"fmt"
	"strings"
)

// Supported slot backends
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// SlotStore is a durable key/value slot store
type SlotStore interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Path() string
	Close() error
}

// NewSlotStore returns the slot store for backend at path. Nothing is opened until
// the first Load or Save.
func NewSlotStore(backend, path string) (SlotStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return NewSQLiteSlot(path), nil
	case BackendBolt:
		return NewBoltSlot(path), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s or %s)", backend, BackendSQLite, BackendBolt)
	}
}
