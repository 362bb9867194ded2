// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-intel/pkg/types"
)

// OpenAICompleter sends prompts to the OpenAI chat completions API.
type OpenAICompleter struct {
	client      openai.Client
	model       string
	temperature float64
	limiter     *rate.Limiter
}

// NewOpenAICompleter builds a completer from cfg. httpClient may be nil.
// The SDK's own retries are disabled.
func NewOpenAICompleter(cfg types.OracleConfig, httpClient *http.Client) *OpenAICompleter {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAICompleter{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		limiter:     newLimiter(cfg.RequestsPerSecond),
	}
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return "", err
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

// newLimiter returns nil (no throttling) when rps is not positive.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	if err := l.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
	}
	return nil
}
