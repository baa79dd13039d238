package tokenstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It is the default for clients that do not
// need the session to survive a restart.
type Memory struct {
	mu      sync.RWMutex
	pair    TokenPair
	present bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, pair TokenPair) error {
	if pair.Empty() || pair.partial() {
		return ErrPartialPair
	}
	m.mu.Lock()
	m.pair = pair
	m.present = true
	m.mu.Unlock()
	return nil
}

// Load implements Store.
func (m *Memory) Load(_ context.Context) (TokenPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return TokenPair{}, ErrNotFound
	}
	return m.pair, nil
}

// Clear implements Store.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.pair = TokenPair{}
	m.present = false
	m.mu.Unlock()
	return nil
}
