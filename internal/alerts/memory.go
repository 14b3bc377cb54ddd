package alerts

import (
	"context"
	"sync"
)

// MemoryStore keeps alerts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts []Alert
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add implements Store.
func (s *MemoryStore) Add(ctx context.Context, alert Alert) error {
	if err := alert.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return nil
}

// List implements Store. The returned slice is a copy.
func (s *MemoryStore) List(ctx context.Context) ([]Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
