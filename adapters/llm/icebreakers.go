package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/healspace/server/domain/entities"
)

// fallbackIcebreakers is always available with zero external dependency.
// Exactly three prompts, matching the generator's success contract.
var fallbackIcebreakers = []string{
	"Aaj aap kaisa feel kar rahe hain?",
	"Kya chal raha hai dimaag mein?",
	"Main yahan hoon aapki baat sunne ke liye.",
}

// FallbackIcebreakers returns a copy of the static fallback prompts
func FallbackIcebreakers() []string {
	out := make([]string, len(fallbackIcebreakers))
	copy(out, fallbackIcebreakers)
	return out
}

// GeminiIcebreakerGenerator produces conversation openers through the
// Gemini API. Generate never fails: any error yields the static fallback.
type GeminiIcebreakerGenerator struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

// NewGeminiIcebreakerGenerator creates a Gemini-backed generator
func NewGeminiIcebreakerGenerator(client *genai.Client, logger *zap.Logger) *GeminiIcebreakerGenerator {
	return &GeminiIcebreakerGenerator{
		client: client,
		logger: logger,
		model:  defaultModel,
	}
}

var icebreakerSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

// Generate implements repositories.IcebreakerGenerator
func (g *GeminiIcebreakerGenerator) Generate(ctx context.Context, mood entities.Mood, topics []string) []string {
	prompt := fmt.Sprintf(`A user in India is feeling %s and looking for support with topics like %s.
Generate 3 compassionate opening questions in a mix of Hindi and English (Hinglish) that a listener could use to start the conversation anonymously.
Example: "Aaj ka din kaisa raha aapka?" or "Work stress zyada ho raha hai kya?"`,
		mood, strings.Join(topics, ", "))

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   icebreakerSchema,
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeoutSeconds*time.Second)
	defer cancel()

	response, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, config)
	if err != nil {
		g.logger.Warn("Icebreaker generation failed, using fallback", zap.Error(err))
		return FallbackIcebreakers()
	}

	output := extractText(response)
	if output == "" {
		g.logger.Warn("Icebreaker generation returned no content, using fallback")
		return FallbackIcebreakers()
	}

	var prompts []string
	if err := json.Unmarshal([]byte(output), &prompts); err != nil {
		g.logger.Warn("Icebreaker generation returned malformed JSON, using fallback", zap.Error(err))
		return FallbackIcebreakers()
	}
	if len(prompts) < 3 {
		g.logger.Warn("Icebreaker generation returned too few prompts, using fallback",
			zap.Int("count", len(prompts)))
		return FallbackIcebreakers()
	}

	return prompts[:3]
}
