package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/healspace/server/domain/entities"
)

// SessionArchive keeps closed sessions in process memory
type SessionArchive struct {
	mu       sync.RWMutex
	sessions []*entities.Session
}

// NewSessionArchive creates an empty session archive
func NewSessionArchive() *SessionArchive {
	return &SessionArchive{}
}

// Archive implements repositories.SessionArchive
func (a *SessionArchive) Archive(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if !session.Closed() {
		return fmt.Errorf("refusing to archive session %s in state %s", session.ID, session.State)
	}
	snapshot := *session
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions = append(a.sessions, &snapshot)
	return nil
}

// ListByListener implements repositories.SessionArchive
func (a *SessionArchive) ListByListener(ctx context.Context, listenerID string, limit int) ([]*entities.Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var result []*entities.Session
	// Newest first
	for i := len(a.sessions) - 1; i >= 0; i-- {
		if a.sessions[i].ListenerID != listenerID {
			continue
		}
		result = append(result, a.sessions[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// CountByListenerSince implements repositories.SessionArchive
func (a *SessionArchive) CountByListenerSince(ctx context.Context, listenerID string, since time.Time) (int64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var count int64
	for _, s := range a.sessions {
		if s.ListenerID == listenerID && !s.StartTime.Before(since) {
			count++
		}
	}
	return count, nil
}
