package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JournalEntry is a private diary note written by a seeker. Entries are
// append-only: never mutated after creation, only appended or discarded
// before save.
type JournalEntry struct {
	ID        string    `json:"id" bson:"_id"`
	SeekerID  string    `json:"seeker_id" bson:"seeker_id"`
	Content   string    `json:"content" bson:"content"`
	Mood      Mood      `json:"mood" bson:"mood"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// NewJournalEntry creates a journal entry for a seeker
func NewJournalEntry(seekerID, content string, mood Mood) *JournalEntry {
	return &JournalEntry{
		ID:        uuid.NewString(),
		SeekerID:  seekerID,
		Content:   content,
		Mood:      mood,
		Timestamp: time.Now(),
	}
}

// Validate validates the entry data
func (e *JournalEntry) Validate() error {
	if e.SeekerID == "" {
		return errors.New("seeker id is required")
	}
	if e.Content == "" {
		return errors.New("content is required")
	}
	if !e.Mood.Valid() {
		return ErrInvalidRequest
	}
	return nil
}

// RiskLevel is the coarse crisis severity derived from free-text sentiment
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Classification is the structured result of sentiment analysis over a
// journal entry's content.
type Classification struct {
	Sentiment                   string    `json:"sentiment"`
	Intensity                   int       `json:"intensity"`
	RiskLevel                   RiskLevel `json:"riskLevel"`
	SuggestedTags               []string  `json:"suggestedTags"`
	RequiresImmediateCrisisLink bool      `json:"requiresImmediateCrisisLink"`
}

// HighRisk reports whether the classification demands an immediate,
// blocking crisis-resource prompt.
func (c *Classification) HighRisk() bool {
	return c.RiskLevel == RiskLevelHigh || c.RequiresImmediateCrisisLink
}
