package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"NewsRater/internal/config"
	"NewsRater/internal/ports"
	"NewsRater/internal/prompts"
)

const (
	scoreMaxOutputTokens   = 2000
	summaryMaxOutputTokens = 150
	summaryTemperature     = 0.3
)

// GeminiClient implements ports.TextOracle and ports.Summarizer on top of
// the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	registry    *prompts.Registry
}

var _ ports.TextOracle = (*GeminiClient)(nil)
var _ ports.Summarizer = (*GeminiClient)(nil)

// NewGeminiClient builds a client from configuration. The registry supplies
// the summarization prompt template.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, registry *prompts.Registry) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(cfg.ScoreTemperature),
		registry:    registry,
	}, nil
}

// Model reports the configured model name for rating provenance.
func (c *GeminiClient) Model() string {
	return c.model
}

// Query sends a scoring prompt and returns the raw model text. A low
// temperature keeps numeric answers stable across dimensions.
func (c *GeminiClient) Query(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		MaxOutputTokens: scoreMaxOutputTokens,
	})
}

// Summarize asks the model for a short neutral summary of the article text.
func (c *GeminiClient) Summarize(ctx context.Context, articleText string) (string, error) {
	prompt := c.registry.BuildSummaryPrompt(articleText)

	summary, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(summaryTemperature)),
		MaxOutputTokens: summaryMaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	return summary, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}

	return text, nil
}
