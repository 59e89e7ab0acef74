package repositories

import (
	"context"
	"time"

	"github.com/healspace/server/domain/entities"
)

// SessionArchive persists closed sessions for listener history and
// dashboard aggregates. Live sessions never touch the archive.
type SessionArchive interface {
	Archive(ctx context.Context, session *entities.Session) error
	ListByListener(ctx context.Context, listenerID string, limit int) ([]*entities.Session, error)
	CountByListenerSince(ctx context.Context, listenerID string, since time.Time) (int64, error)
}

// JournalRepository persists a seeker's private diary entries
type JournalRepository interface {
	Append(ctx context.Context, entry *entities.JournalEntry) error
	ListBySeeker(ctx context.Context, seekerID string, limit int) ([]*entities.JournalEntry, error)
}
