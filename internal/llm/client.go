package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"storybook-rag/internal/config"
)

// Client wraps the remote text-completion service behind an
// OpenAI-compatible chat endpoint (Mistral's API in production).
type Client struct {
	llm         llms.Model
	temperature float64
	maxTokens   int
}

func NewClient(cfg *config.LLMConfig) (*Client, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.APIKey(), "Bearer ")),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init completion llm: %w", err)
	}
	return &Client{
		llm:         model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete sends one prompt and returns the completion text. Cancellation
// of ctx aborts the remote call.
func (c *Client) Complete(ctx context.Context, prompt string, stop ...string) (string, error) {
	log.Debug().Int("prompt_chars", len(prompt)).Msg("calling completion model")

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	opts := []llms.CallOption{
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	}
	if len(stop) > 0 {
		opts = append(opts, llms.WithStopWords(stop))
	}

	res, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return res.Choices[0].Content, nil
}
