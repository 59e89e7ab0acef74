package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/healspace/server/domain/entities"
	"github.com/healspace/server/domain/repositories"
)

// JournalResult is the outcome of saving a journal entry. CrisisAlert
// tells the caller to surface an immediate crisis-resource prompt.
// ClassificationUnavailable distinguishes a failed classification from a
// genuinely low-risk one; callers deciding to treat failure more
// cautiously can key off it without any change here.
type JournalResult struct {
	Entry                     *entities.JournalEntry   `json:"entry"`
	Classification            *entities.Classification `json:"classification,omitempty"`
	CrisisAlert               bool                     `json:"crisis_alert"`
	ClassificationUnavailable bool                     `json:"classification_unavailable"`
}

// JournalService owns a seeker's private diary and runs each saved entry
// through sentiment classification. Journaling never blocks on the
// classifier failing; the flow degrades to an unclassified entry.
type JournalService struct {
	repo       repositories.JournalRepository
	classifier repositories.SentimentClassifier
	logger     *zap.Logger
}

// NewJournalService creates a journal service
func NewJournalService(
	repo repositories.JournalRepository,
	classifier repositories.SentimentClassifier,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		repo:       repo,
		classifier: classifier,
		logger:     logger,
	}
}

// AddEntry appends an immutable entry to the seeker's journal and
// classifies its content. The entry is persisted even when classification
// is unavailable.
func (s *JournalService) AddEntry(ctx context.Context, seekerID, content string, mood entities.Mood) (*JournalResult, error) {
	entry := entities.NewJournalEntry(seekerID, content, mood)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, err
	}

	classification := s.classifier.Classify(ctx, content)
	result := &JournalResult{
		Entry:          entry,
		Classification: classification,
	}
	if classification == nil {
		result.ClassificationUnavailable = true
		s.logger.Warn("Journal entry saved without classification",
			zap.String("entryID", entry.ID))
		return result, nil
	}

	if classification.HighRisk() {
		result.CrisisAlert = true
		s.logger.Warn("High-risk journal entry detected",
			zap.String("entryID", entry.ID),
			zap.String("riskLevel", string(classification.RiskLevel)))
	}
	return result, nil
}

// Entries lists the seeker's journal, newest first
func (s *JournalService) Entries(ctx context.Context, seekerID string, limit int) ([]*entities.JournalEntry, error) {
	return s.repo.ListBySeeker(ctx, seekerID, limit)
}
