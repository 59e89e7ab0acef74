package repositories

import (
	"context"

	"github.com/healspace/server/domain/entities"
)

// ListenerDirectory exposes read-only lookup over the listener profiles.
// Results preserve directory order; the directory never re-sorts.
type ListenerDirectory interface {
	// FindByTopicOnline returns every profile that is online and covers
	// the topic, in directory order.
	FindByTopicOnline(ctx context.Context, topic string) ([]*entities.ListenerProfile, error)
	// All returns every profile regardless of status, for fallback use.
	All(ctx context.Context) ([]*entities.ListenerProfile, error)
	// GetByID returns a single profile.
	GetByID(ctx context.Context, id string) (*entities.ListenerProfile, error)
}

// PresenceStore tracks listener availability. The listener's own toggle is
// the only writer; the matching core only reads.
type PresenceStore interface {
	SetOnline(ctx context.Context, listenerID string, online bool) error
	IsOnline(ctx context.Context, listenerID string) (bool, error)
}
