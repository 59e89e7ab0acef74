package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/healspace/server/domain/entities"
	"github.com/healspace/server/domain/repositories"
)

// earningsPerCall is the flat display rate credited per archived call.
// Real payment processing is out of scope; this only feeds the dashboard.
const earningsPerCall = 450.0

// ListenerDashboard aggregates a listener's recent activity
type ListenerDashboard struct {
	ListenerID    string              `json:"listener_id"`
	Online        bool                `json:"online"`
	CallsToday    int64               `json:"calls_today"`
	TotalCalls    int64               `json:"total_calls"`
	TotalEarnings float64             `json:"total_earnings"`
	AverageRating float64             `json:"average_rating"`
	Recent        []*entities.Session `json:"recent"`
}

// ListenerService covers the listener-facing side: availability toggling,
// directory browsing, and the earnings/history dashboard.
type ListenerService struct {
	directory repositories.ListenerDirectory
	presence  repositories.PresenceStore
	archive   repositories.SessionArchive
	logger    *zap.Logger
}

// NewListenerService creates a listener service
func NewListenerService(
	directory repositories.ListenerDirectory,
	presence repositories.PresenceStore,
	archive repositories.SessionArchive,
	logger *zap.Logger,
) *ListenerService {
	return &ListenerService{
		directory: directory,
		presence:  presence,
		archive:   archive,
		logger:    logger,
	}
}

// SetAvailability is the listener's own online/offline toggle, the only
// writer of presence in the system.
func (s *ListenerService) SetAvailability(ctx context.Context, listenerID string, online bool) error {
	if _, err := s.directory.GetByID(ctx, listenerID); err != nil {
		return err
	}
	if err := s.presence.SetOnline(ctx, listenerID, online); err != nil {
		return err
	}
	s.logger.Info("Listener availability changed",
		zap.String("listenerID", listenerID),
		zap.Bool("online", online))
	return nil
}

// Browse returns listeners for a topic (online only), or the whole
// directory when topic is empty.
func (s *ListenerService) Browse(ctx context.Context, topic string) ([]*entities.ListenerProfile, error) {
	if topic == "" {
		return s.directory.All(ctx)
	}
	return s.directory.FindByTopicOnline(ctx, topic)
}

// Dashboard builds the listener's activity summary from the session
// archive.
func (s *ListenerService) Dashboard(ctx context.Context, listenerID string) (*ListenerDashboard, error) {
	profile, err := s.directory.GetByID(ctx, listenerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	callsToday, err := s.archive.CountByListenerSince(ctx, listenerID, startOfDay)
	if err != nil {
		return nil, err
	}
	totalCalls, err := s.archive.CountByListenerSince(ctx, listenerID, time.Time{})
	if err != nil {
		return nil, err
	}
	recent, err := s.archive.ListByListener(ctx, listenerID, 20)
	if err != nil {
		return nil, err
	}

	var ratingSum, ratingCount int
	for _, session := range recent {
		if session.Rating > 0 {
			ratingSum += session.Rating
			ratingCount++
		}
	}
	average := profile.Rating
	if ratingCount > 0 {
		average = float64(ratingSum) / float64(ratingCount)
	}

	return &ListenerDashboard{
		ListenerID:    listenerID,
		Online:        profile.IsOnline,
		CallsToday:    callsToday,
		TotalCalls:    totalCalls,
		TotalEarnings: earningsPerCall * float64(totalCalls),
		AverageRating: average,
		Recent:        recent,
	}, nil
}
