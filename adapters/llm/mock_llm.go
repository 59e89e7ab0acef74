package llm

import (
	"context"

	"github.com/healspace/server/domain/entities"
)

// MockSentimentClassifier is a stand-in classifier for development and
// tests. With Fail set it behaves like an unreachable vendor.
type MockSentimentClassifier struct {
	Result *entities.Classification
	Fail   bool
	Calls  int
}

// NewMockSentimentClassifier returns a classifier that reports a calm,
// low-risk state for every message.
func NewMockSentimentClassifier() *MockSentimentClassifier {
	return &MockSentimentClassifier{
		Result: &entities.Classification{
			Sentiment:     "neutral",
			Intensity:     3,
			RiskLevel:     entities.RiskLevelLow,
			SuggestedTags: []string{"General Baat-cheet"},
		},
	}
}

// Classify implements repositories.SentimentClassifier
func (m *MockSentimentClassifier) Classify(ctx context.Context, text string) *entities.Classification {
	m.Calls++
	if m.Fail {
		return nil
	}
	return m.Result
}

// MockIcebreakerGenerator is a stand-in generator for development and
// tests. With Fail set it exercises the fallback path.
type MockIcebreakerGenerator struct {
	Prompts []string
	Fail    bool
	Calls   int
}

// NewMockIcebreakerGenerator returns a generator with canned prompts
func NewMockIcebreakerGenerator() *MockIcebreakerGenerator {
	return &MockIcebreakerGenerator{
		Prompts: []string{
			"Aaj ka din kaisa raha aapka?",
			"Work stress zyada ho raha hai kya?",
			"Kuch share karna chahenge?",
		},
	}
}

// Generate implements repositories.IcebreakerGenerator
func (m *MockIcebreakerGenerator) Generate(ctx context.Context, mood entities.Mood, topics []string) []string {
	m.Calls++
	if m.Fail || len(m.Prompts) < 3 {
		return FallbackIcebreakers()
	}
	return m.Prompts[:3]
}
