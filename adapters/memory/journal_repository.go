package memory

import (
	"context"
	"sync"

	"github.com/healspace/server/domain/entities"
)

// JournalRepository keeps journal entries in process memory, newest first
type JournalRepository struct {
	mu      sync.RWMutex
	entries map[string][]*entities.JournalEntry
}

// NewJournalRepository creates an empty journal repository
func NewJournalRepository() *JournalRepository {
	return &JournalRepository{
		entries: make(map[string][]*entities.JournalEntry),
	}
}

// Append implements repositories.JournalRepository
func (r *JournalRepository) Append(ctx context.Context, entry *entities.JournalEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Prepend so listing is newest first without re-sorting on read
	r.entries[entry.SeekerID] = append([]*entities.JournalEntry{entry}, r.entries[entry.SeekerID]...)
	return nil
}

// ListBySeeker implements repositories.JournalRepository
func (r *JournalRepository) ListBySeeker(ctx context.Context, seekerID string, limit int) ([]*entities.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.entries[seekerID]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	result := make([]*entities.JournalEntry, len(entries))
	copy(result, entries)
	return result, nil
}
