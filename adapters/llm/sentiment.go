package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/healspace/server/domain/entities"
)

// GeminiSentimentClassifier classifies journal text through the Gemini API
// with a structured JSON response schema. Classify returns nil on any
// failure; it never surfaces an error to the journaling flow.
type GeminiSentimentClassifier struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

// NewGeminiSentimentClassifier creates a Gemini-backed classifier
func NewGeminiSentimentClassifier(client *genai.Client, logger *zap.Logger) *GeminiSentimentClassifier {
	return &GeminiSentimentClassifier{
		client: client,
		logger: logger,
		model:  defaultModel,
	}
}

var classificationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sentiment": {Type: genai.TypeString},
		"intensity": {Type: genai.TypeInteger, Description: "1-10"},
		"riskLevel": {Type: genai.TypeString, Description: "low, medium, high"},
		"suggestedTags": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"requiresImmediateCrisisLink": {Type: genai.TypeBoolean},
	},
	Required: []string{"sentiment", "riskLevel", "requiresImmediateCrisisLink"},
}

// Classify implements repositories.SentimentClassifier
func (g *GeminiSentimentClassifier) Classify(ctx context.Context, text string) *entities.Classification {
	prompt := fmt.Sprintf(`Analyze the sentiment and emotional state of this user message for a compassion platform in India.
The text might be in English, Hindi, or Hinglish. Determine if there is any crisis risk.
Message: %q`, text)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   classificationSchema,
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeoutSeconds*time.Second)
	defer cancel()

	response, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, config)
	if err != nil {
		g.logger.Warn("Sentiment classification failed", zap.Error(err))
		return nil
	}

	output := extractText(response)
	if output == "" {
		g.logger.Warn("Sentiment classification returned no content")
		return nil
	}

	var classification entities.Classification
	if err := json.Unmarshal([]byte(output), &classification); err != nil {
		g.logger.Warn("Sentiment classification returned malformed JSON", zap.Error(err))
		return nil
	}

	switch classification.RiskLevel {
	case entities.RiskLevelLow, entities.RiskLevelMedium, entities.RiskLevelHigh:
	default:
		g.logger.Warn("Sentiment classification returned unknown risk level",
			zap.String("riskLevel", string(classification.RiskLevel)))
		return nil
	}

	return &classification
}
