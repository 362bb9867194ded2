// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed maps text to vectors through an external embedding model.
// One call is one batched round trip; results are index-aligned with the
// input. Failures are not retried.
package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pdiddy/paper-intel/pkg/types"
)

// ErrUnavailable reports that the embedding model could not produce vectors.
var ErrUnavailable = errors.New("embedding model unavailable")

// Embedder turns texts into vectors, preserving order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// OpenAI calls the OpenAI embeddings endpoint.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI builds an embedder from cfg. httpClient may be nil.
func NewOpenAI(cfg types.EmbeddingConfig, httpClient *http.Client) *OpenAI {
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
	return &OpenAI{client: openai.NewClient(opts...), model: cfg.Model}
}

// Embed sends all texts in a single request. An empty input returns no
// vectors without calling the API.
func (e *OpenAI) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs", ErrUnavailable, len(resp.Data), len(texts))
	}

	vecs := make([][]float64, len(texts))
	for _, d := range resp.Data {
		i := int(d.Index)
		if i < 0 || i >= len(vecs) || vecs[i] != nil {
			return nil, fmt.Errorf("%w: bad vector index %d", ErrUnavailable, d.Index)
		}
		vecs[i] = d.Embedding
	}
	return vecs, nil
}
