package kvcache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with the same revision semantics as the
// JetStream bucket. Used when no NATS server is configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	seq     uint64
	now     func() time.Time
}

type memEntry struct {
	data     []byte
	revision uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

// SetClock replaces the clock used for expiry.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	e, err := m.GetEntry(ctx, key)
	return e.Present, err
}

func (m *MemoryStore) Get(ctx context.Context, key string, out any) (bool, error) {
	e, err := m.GetEntry(ctx, key)
	if err != nil || !e.Present {
		return false, err
	}
	if err := e.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryStore) Upsert(_ context.Context, key string, v any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := encode(v, ttl, m.now())
	if err != nil {
		return err
	}
	m.put(key, data)
	return nil
}

func (m *MemoryStore) GetEntry(_ context.Context, key string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return Entry{Key: key}, nil
	}
	return decode(key, e.data, e.revision, m.now())
}

func (m *MemoryStore) Create(_ context.Context, key string, v any, ttl time.Duration) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; ok {
		return 0, ErrConflict
	}
	data, err := encode(v, ttl, m.now())
	if err != nil {
		return 0, err
	}
	return m.put(key, data), nil
}

func (m *MemoryStore) Update(_ context.Context, key string, v any, ttl time.Duration, revision uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || e.revision != revision {
		return 0, ErrConflict
	}
	data, err := encode(v, ttl, m.now())
	if err != nil {
		return 0, err
	}
	return m.put(key, data), nil
}

func (m *MemoryStore) put(key string, data []byte) uint64 {
	m.seq++
	m.entries[key] = memEntry{data: data, revision: m.seq}
	return m.seq
}
