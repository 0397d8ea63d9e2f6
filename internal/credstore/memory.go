package credstore

import (
	"context"
	"sync"
)

// Memory is a process-local Store. It does not survive restarts and is meant for
// tests and throwaway sessions.
type Memory struct {
	mu   sync.RWMutex
	pair Pair
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Save(_ context.Context, p Pair) error {
	if !p.Complete() {
		return ErrIncomplete
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = p
	return nil
}

func (m *Memory) Load(_ context.Context) (Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.pair.Complete() {
		return Pair{}, ErrNotFound
	}
	return m.pair, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = Pair{}
	return nil
}
