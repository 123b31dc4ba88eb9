package history

import "sync"

// Slot is a durable string-keyed storage medium holding one serialized value per key.
type Slot interface {
	// Load returns the stored bytes for key, or nil with no error when the key is absent.
	Load(key string) ([]byte, error)

	// Save replaces the value stored under key in a single atomic write.
	Save(key string, data []byte) error
}

// MemorySlot is an in-process Slot, used by tests and as a fallback when no
// durable store can be opened.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemorySlot creates an empty MemorySlot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Load(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemorySlot) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(data))
	copy(v, data)
	m.values[key] = v
	return nil
}
