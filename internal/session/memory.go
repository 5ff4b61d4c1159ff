package session

import (
	"context"
	"sync"
	"time"
)

// Memory keeps sessions in process memory. It is the default store.
type Memory struct {
	mu       sync.Mutex
	sessions map[string][]byte
	updated  map[string]time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string][]byte),
		updated:  make(map[string]time.Time),
	}
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Kind returns "memory".
func (m *Memory) Kind() string { return KindMemory }

// Get returns a copy of the stored session.
func (m *Memory) Get(ctx context.Context, id string) (*State, error) {
	m.mu.Lock()
	data, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(data)
}

// Save stores a copy of s.
func (m *Memory) Save(ctx context.Context, s *State) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = data
	m.updated[s.ID] = s.UpdatedAt
	return nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.updated, id)
	return nil
}

// Purge removes sessions last updated before the cutoff.
func (m *Memory) Purge(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.updated {
		if t.Before(before) {
			delete(m.sessions, id)
			delete(m.updated, id)
			n++
		}
	}
	return n, nil
}
