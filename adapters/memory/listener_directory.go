package memory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/healspace/server/domain/entities"
	"github.com/healspace/server/domain/repositories"
)

// ListenerDirectory is an in-memory, read-only listener directory. Online
// status is overlaid from the presence store on every read so that a
// listener's availability toggle is visible without mutating the profiles
// themselves.
type ListenerDirectory struct {
	profiles []*entities.ListenerProfile
	presence repositories.PresenceStore
	logger   *zap.Logger
}

// NewListenerDirectory creates a directory over a fixed set of profiles.
// The initial IsOnline value of each profile seeds the presence store.
func NewListenerDirectory(
	ctx context.Context,
	profiles []*entities.ListenerProfile,
	presence repositories.PresenceStore,
	logger *zap.Logger,
) (*ListenerDirectory, error) {
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid listener profile %s: %w", p.ID, err)
		}
		if err := presence.SetOnline(ctx, p.ID, p.IsOnline); err != nil {
			return nil, fmt.Errorf("failed to seed presence for %s: %w", p.ID, err)
		}
	}
	return &ListenerDirectory{
		profiles: profiles,
		presence: presence,
		logger:   logger,
	}, nil
}

// FindByTopicOnline implements repositories.ListenerDirectory
func (d *ListenerDirectory) FindByTopicOnline(ctx context.Context, topic string) ([]*entities.ListenerProfile, error) {
	var result []*entities.ListenerProfile
	for _, p := range d.profiles {
		if !p.SupportsTopic(topic) {
			continue
		}
		snapshot, err := d.withPresence(ctx, p)
		if err != nil {
			return nil, err
		}
		if snapshot.IsOnline {
			result = append(result, snapshot)
		}
	}
	return result, nil
}

// All implements repositories.ListenerDirectory
func (d *ListenerDirectory) All(ctx context.Context) ([]*entities.ListenerProfile, error) {
	result := make([]*entities.ListenerProfile, 0, len(d.profiles))
	for _, p := range d.profiles {
		snapshot, err := d.withPresence(ctx, p)
		if err != nil {
			return nil, err
		}
		result = append(result, snapshot)
	}
	return result, nil
}

// GetByID implements repositories.ListenerDirectory
func (d *ListenerDirectory) GetByID(ctx context.Context, id string) (*entities.ListenerProfile, error) {
	for _, p := range d.profiles {
		if p.ID == id {
			return d.withPresence(ctx, p)
		}
	}
	return nil, fmt.Errorf("listener %s: %w", id, entities.ErrNotFound)
}

// withPresence returns a copy of the profile with IsOnline read from the
// presence store. Callers get copies so directory profiles stay immutable.
func (d *ListenerDirectory) withPresence(ctx context.Context, p *entities.ListenerProfile) (*entities.ListenerProfile, error) {
	online, err := d.presence.IsOnline(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("presence lookup for %s: %w", p.ID, err)
	}
	snapshot := *p
	snapshot.IsOnline = online
	return &snapshot, nil
}
