/*
Package history persists searches and their result snapshots.

The whole history is one JSON document stored under a single key of a Slot.
Every append is a full read-modify-write of that document, serialized by the
Store's mutex so two concurrent appends can never write the same URL twice.
Unreadable or corrupt documents read as an empty history.
*/
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/gitsome-search/internal/models"
	"github.com/tidwall/gjson"
)

const (
	// Key is the slot key holding the serialized history
	Key = "searchHistory"

	// SchemaVersion is the envelope version written by this package
	SchemaVersion = 1
)

var (
	// ErrUnsupportedVersion is returned by Append when the stored history was written
	// by a newer schema; the data is left untouched.
	ErrUnsupportedVersion = errors.New("unsupported history schema version")

	// ErrInvalidRecord is returned by Append for records without a query or URL
	ErrInvalidRecord = errors.New("history record requires a query and url")
)

// envelope is the on-disk shape of the history document
type envelope struct {
	Version int                   `json:"version"`
	Records []models.SearchRecord `json:"records"`
}

// Store is the search history over a Slot
type Store struct {
	slot       Slot
	key        string
	maxRecords int
	logger     *log.Logger
	mu         sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithKey stores the history under a key other than Key
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithMaxRecords keeps at most n records, dropping the oldest first. n <= 0 means unbounded.
func WithMaxRecords(n int) Option {
	return func(s *Store) {
		s.maxRecords = n
	}
}

// WithLogger enables logging of skipped appends and unreadable documents
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store over slot
func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot: slot,
		key:  Key,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll returns every record, oldest first. Missing or corrupt data yields an empty slice.
func (s *Store) LoadAll() []models.SearchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("History unavailable, using empty history", "error", err)
		}
		return []models.SearchRecord{}
	}
	return records
}

// Len returns the number of stored records
func (s *Store) Len() int {
	return len(s.LoadAll())
}

// FindByURL returns the record whose canonical URL equals url
func (s *Store) FindByURL(url string) (models.SearchRecord, bool) {
	for _, r := range s.LoadAll() {
		if r.URL == url {
			return r, true
		}
	}
	return models.SearchRecord{}, false
}

// FindByQueryAndFilters returns the first record whose query and all three filter
// fields match exactly. Sort is not considered.
func (s *Store) FindByQueryAndFilters(query string, filters models.Filters) (models.SearchRecord, bool) {
	for _, r := range s.LoadAll() {
		if r.Query == query && r.Filters == filters {
			return r, true
		}
	}
	return models.SearchRecord{}, false
}

// Append adds record unless a record with the same URL already exists, in which
// case it does nothing and returns nil.
func (s *Store) Append(record models.SearchRecord) error {
	if record.Query == "" || record.URL == "" {
		return ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}

	for _, r := range records {
		if r.URL == record.URL {
			if s.logger != nil {
				s.logger.Debug("Skipping duplicate history entry", "url", record.URL)
			}
			return nil
		}
	}

	records = append(records, record)
	if s.maxRecords > 0 && len(records) > s.maxRecords {
		records = records[len(records)-s.maxRecords:]
	}

	data, err := json.Marshal(envelope{Version: SchemaVersion, Records: records})
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.slot.Save(s.key, data); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Saved search", "query", record.Query, "url", record.URL, "results", len(record.Results))
	}
	return nil
}

// read loads and decodes the slot. Corrupt documents decode as empty with no error;
// only slot failures and newer schema versions are reported.
func (s *Store) read() ([]models.SearchRecord, error) {
	data, err := s.slot.Load(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	records, err := decodeHistory(data)
	if errors.Is(err, ErrUnsupportedVersion) {
		return nil, err
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Ignoring unreadable history", "error", err)
		}
		return []models.SearchRecord{}, nil
	}
	return records, nil
}

// decodeHistory accepts the versioned envelope and the legacy bare array.
// Array elements that are not valid records are skipped.
func decodeHistory(data []byte) ([]models.SearchRecord, error) {
	records := []models.SearchRecord{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return records, nil
	}
	if !gjson.ValidBytes(data) {
		return records, errors.New("history is not valid JSON")
	}

	doc := gjson.ParseBytes(data)
	var list gjson.Result
	switch {
	case doc.IsArray():
		list = doc
	case doc.IsObject():
		if v := doc.Get("version").Int(); v > SchemaVersion {
			return records, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
		}
		list = doc.Get("records")
	default:
		return records, fmt.Errorf("unexpected history document type %s", doc.Type)
	}

	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		var r models.SearchRecord
		if err := json.Unmarshal([]byte(item.Raw), &r); err != nil {
			return true
		}
		if r.Query == "" || r.URL == "" {
			return true
		}
		records = append(records, r)
		return true
	})

	return records, nil
}
