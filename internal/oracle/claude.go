// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-intel/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeCompleter sends prompts to the Claude Messages API.
type ClaudeCompleter struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Client      *http.Client

	url     string
	limiter *rate.Limiter
}

// NewClaudeCompleter builds a completer from cfg. httpClient may be nil.
func NewClaudeCompleter(cfg types.OracleConfig, httpClient *http.Client) *ClaudeCompleter {
	url := claudeAPIURL
	if cfg.BaseURL != "" {
		url = strings.TrimSuffix(cfg.BaseURL, "/") + "/v1/messages"
	}
	return &ClaudeCompleter{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Client:      httpClient,
		url:         url,
		limiter:     newLimiter(cfg.RequestsPerSecond),
	}
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete implements Completer. Text blocks of the reply are concatenated.
func (c *ClaudeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return "", err
	}

	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	bodyBytes, err := json.Marshal(claudeRequest{
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: c.Temperature,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := c.url
	if url == "" {
		url = claudeAPIURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling Claude API: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: Claude API returned %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("%w: decoding Claude response: %v", ErrUnavailable, err)
	}

	var b strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
