package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

const (
	defaultModel          = "gemini-2.0-flash"
	defaultTimeoutSeconds = 10
)

// NewGeminiClient creates a Gemini API client from the environment
func NewGeminiClient(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// extractText concatenates the text parts of the first candidate
func extractText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}
