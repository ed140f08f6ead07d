// Package session keeps calculator sessions for hosts that serve many
// clients at once.
package session

import (
	"context"
	"sync"

	"scicalc/internal/calculator"
)

// Store is the interface for session persistence.
type Store interface {
	// Load returns the saved state. ok is false if id is unknown.
	Load(ctx context.Context, id string) (s calculator.State, ok bool, err error)
	// Save stores the state, overwriting if it exists.
	Save(ctx context.Context, id string, s calculator.State) error
	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// Close releases resources.
	Close() error
}

// Open returns a SQLite store at path, or a memory store when path is empty.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemory(), nil
	}
	s, err := NewSQLite(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Memory is an in-memory store.
type Memory struct {
	mu     sync.RWMutex
	states map[string]calculator.State
}

func NewMemory() *Memory {
	return &Memory{states: make(map[string]calculator.State)}
}

func (m *Memory) Load(_ context.Context, id string) (calculator.State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	return s, ok, nil
}

func (m *Memory) Save(_ context.Context, id string, s calculator.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = s
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error {
	return nil
}
