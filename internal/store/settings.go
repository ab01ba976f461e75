package store

import (
	"context"
	"sync"
)

// MemorySettings is a Settings kept in process memory.
type MemorySettings struct {
	mu     sync.Mutex
	values map[string]int
}

// NewMemorySettings returns an empty MemorySettings.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{values: make(map[string]int)}
}

func (m *MemorySettings) GetInt(_ context.Context, userID, key string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[userID+"\x00"+key]
	return v, ok, nil
}

func (m *MemorySettings) SetInt(_ context.Context, userID, key string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[userID+"\x00"+key] = value
	return nil
}
