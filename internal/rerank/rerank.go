// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rerank narrows a paper's chunks to a small de-noised set in two
// stages: a cosine prefilter, then a selection made by the oracle.
package rerank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/paper-intel/internal/logging"
	"github.com/pdiddy/paper-intel/internal/oracle"
	"github.com/pdiddy/paper-intel/internal/similarity"
	"github.com/pdiddy/paper-intel/pkg/types"
)

// Config holds the funnel sizes.
type Config struct {
	// PrefilterK is how many chunks survive the cosine stage.
	PrefilterK int
	// SelectK is how many the oracle keeps.
	SelectK int
	// DisplayScale multiplies the cosine score reported to callers.
	DisplayScale float64
}

// DefaultConfig returns the 20 → 5 funnel with ×10 display scores.
func DefaultConfig() Config {
	return Config{PrefilterK: 20, SelectK: 5, DisplayScale: 10}
}

// ConfigFrom reads the funnel sizes from retrieval settings.
func ConfigFrom(r types.RetrievalConfig) Config {
	return Config{PrefilterK: r.PrefilterK, SelectK: r.SelectK, DisplayScale: r.DisplayScale}
}

// Reranker runs the two-stage funnel.
type Reranker struct {
	oracle oracle.Oracle
	cfg    Config
	log    *slog.Logger
}

// New returns a Reranker. Zero Config fields take DefaultConfig values.
func New(o oracle.Oracle, cfg Config, log *slog.Logger) *Reranker {
	def := DefaultConfig()
	if cfg.PrefilterK <= 0 {
		cfg.PrefilterK = def.PrefilterK
	}
	if cfg.SelectK <= 0 {
		cfg.SelectK = def.SelectK
	}
	if cfg.DisplayScale <= 0 {
		cfg.DisplayScale = def.DisplayScale
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reranker{oracle: o, cfg: cfg, log: log}
}

// Rerank scores chunks against queryVec, keeps the PrefilterK best, asks
// the oracle for the SelectK most relevant to query and de-noises them.
// The result carries display-scaled cosine scores, highest first.
//
// An unavailable oracle during selection fails the call. Malformed
// selections fall back to the first SelectK candidates; failed de-noising
// keeps the original texts. No chunks means no oracle calls.
func (r *Reranker) Rerank(ctx context.Context, query string, queryVec []float64, chunks []types.Chunk, chunkVecs [][]float64) ([]types.ScoredChunk, error) {
	if len(chunks) == 0 {
		return []types.ScoredChunk{}, nil
	}

	scored := similarity.ScoreChunks(queryVec, chunks, chunkVecs, 1)
	similarity.SortChunks(scored)
	candidates := similarity.TopChunks(scored, r.cfg.PrefilterK)

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}

	log := logging.FromContext(ctx, r.log)
	picked, err := r.oracle.SelectTopK(ctx, query, texts, r.cfg.SelectK)
	switch {
	case errors.Is(err, oracle.ErrFormat):
		log.WarnContext(ctx, "rerank_selection_fallback", "candidates", len(candidates), "error", err)
		picked = nil
	case err != nil:
		return nil, fmt.Errorf("selecting chunks: %w", err)
	}
	indices := SelectIndices(picked, len(candidates), r.cfg.SelectK)

	selected := make([]types.ScoredChunk, len(indices))
	originals := make([]string, len(indices))
	for i, idx := range indices {
		selected[i] = candidates[idx]
		originals[i] = candidates[idx].Text
	}

	cleaned, err := r.oracle.Denoise(ctx, originals)
	switch {
	case errors.Is(err, oracle.ErrFormat):
		log.WarnContext(ctx, "denoise_skipped", "chunks", len(originals), "error", err)
		cleaned = originals
	case err != nil:
		return nil, fmt.Errorf("denoising chunks: %w", err)
	}

	for i := range selected {
		selected[i].Text = cleaned[i]
	}
	out := similarity.Rescale(selected, r.cfg.DisplayScale)
	similarity.SortChunks(out)
	return out, nil
}

// SelectIndices validates an oracle selection over n candidates. Indices
// outside [0, n) and repeats are dropped; the remainder is backfilled with
// the lowest unused indices until k are chosen or candidates run out. A
// nil selection therefore yields the first min(k, n) indices in order.
func SelectIndices(raw []int, n, k int) []int {
	want := min(k, n)
	if want <= 0 {
		return []int{}
	}

	used := make(map[int]bool, want)
	out := make([]int, 0, want)
	for _, i := range raw {
		if len(out) == want {
			break
		}
		if i < 0 || i >= n || used[i] {
			continue
		}
		used[i] = true
		out = append(out, i)
	}
	for i := 0; i < n && len(out) < want; i++ {
		if !used[i] {
			used[i] = true
			out = append(out, i)
		}
	}
	return out
}
