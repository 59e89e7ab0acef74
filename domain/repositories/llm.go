package repositories

import (
	"context"

	"github.com/healspace/server/domain/entities"
)

// SentimentClassifier sends free-text journal content to an external
// classifier. Classify never returns an error to the caller: on any failure
// of the underlying call (timeout, malformed response, vendor error) it
// returns nil. A nil result means "classification unavailable", which is
// not the same thing as low risk.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) *entities.Classification
}

// IcebreakerGenerator produces short opening prompts a listener can use to
// start the conversation. Generate always returns exactly three prompts:
// on any failure it falls back to a fixed set with zero external
// dependency, never an empty slice and never an error.
type IcebreakerGenerator interface {
	Generate(ctx context.Context, mood entities.Mood, topics []string) []string
}
