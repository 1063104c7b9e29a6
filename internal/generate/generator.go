// internal/generate/generator.go
package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/logging"
)

// TextGenerator produces a completion for a prompt pair. Implemented
// by OpenAIGenerator in production and by stubs in tests.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIGenerator calls an OpenAI-compatible chat endpoint (vLLM or
// the OpenAI API).
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	retries     int
	retryDelay  time.Duration
}

// NewOpenAIGenerator builds a generator for the endpoint, sampling at
// the given temperature.
func NewOpenAIGenerator(cfg appconfig.Endpoint, temperature float64) *OpenAIGenerator {
	apiKey := cfg.APIKey
	if apiKey == "" || apiKey == "EMPTY" {
		apiKey = "not-required"
	}
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout()}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
		retries:     cfg.Retries(),
		retryDelay:  cfg.RetryDelay(),
	}
}

// Generate sends the prompts and returns the trimmed completion.
// Retries back off linearly before giving up.
func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	var lastErr error
	for attempt := 0; attempt < g.retries; attempt++ {
		logging.LogModelCall("request", "llm", g.model, fmt.Sprintf("attempt %d, prompt %d chars", attempt+1, len(userPrompt)))

		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       g.model,
			Messages:    messages,
			Temperature: g.temperature,
			MaxTokens:   g.maxTokens,
		})
		if err != nil {
			lastErr = err
			if attempt < g.retries-1 {
				select {
				case <-time.After(g.retryDelay * time.Duration(attempt+1)):
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}
			continue
		}

		content := ""
		if len(resp.Choices) > 0 {
			content = resp.Choices[0].Message.Content
		}
		logging.LogModelCall("response", "llm", g.model, fmt.Sprintf("%d chars", len(content)))
		return strings.TrimSpace(content), nil
	}
	return "", fmt.Errorf("llm call failed after %d attempts: %w", g.retries, lastErr)
}
