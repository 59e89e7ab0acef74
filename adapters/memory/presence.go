package memory

import (
	"context"
	"sync"
)

// PresenceStore keeps listener availability in process memory. Used in
// development and tests; production uses the redis-backed store.
type PresenceStore struct {
	mu     sync.RWMutex
	online map[string]bool
}

// NewPresenceStore creates an empty presence store
func NewPresenceStore() *PresenceStore {
	return &PresenceStore{
		online: make(map[string]bool),
	}
}

// SetOnline implements repositories.PresenceStore
func (s *PresenceStore) SetOnline(ctx context.Context, listenerID string, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[listenerID] = online
	return nil
}

// IsOnline implements repositories.PresenceStore
func (s *PresenceStore) IsOnline(ctx context.Context, listenerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online[listenerID], nil
}
