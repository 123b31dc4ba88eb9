package db

// Schema for key/value slots. Each slot holds one serialized document
// (the search history lives under the "searchHistory" key).
const createSlotsTable = `
CREATE TABLE IF NOT EXISTS kv_slots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);
`

const selectSlot = `
SELECT value FROM kv_slots WHERE key = ?
`

// Single statement so a reader never sees a partially written document
const upsertSlot = `
INSERT INTO kv_slots (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

const selectSlotUpdatedAt = `
SELECT updated_at FROM kv_slots WHERE key = ?
`
