// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance scores a whole paper against a research interest by
// averaging embedding similarity with the oracle's 0-100 judgment.
package relevance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/paper-intel/internal/logging"
	"github.com/pdiddy/paper-intel/internal/oracle"
	"github.com/pdiddy/paper-intel/internal/similarity"
)

// Midpoint is the judged score used when the oracle's reply has no number.
const Midpoint = 50.0

// Scorer computes abstract relevance on a 0-100 scale.
type Scorer struct {
	oracle oracle.Oracle
	log    *slog.Logger
}

// New returns a Scorer. log may be nil.
func New(o oracle.Oracle, log *slog.Logger) *Scorer {
	if log == nil {
		log = slog.Default()
	}
	return &Scorer{oracle: o, log: log}
}

// Score returns round((cosine×100 + judged)/2, 3). The judged part falls
// back to Midpoint on malformed output; an unavailable oracle is an error.
func (s *Scorer) Score(ctx context.Context, query string, queryVec, abstractVec []float64, abstract string) (float64, error) {
	cos := similarity.Cosine(queryVec, abstractVec) * 100

	judged, err := s.oracle.ScoreRelevance(ctx, query, abstract)
	switch {
	case errors.Is(err, oracle.ErrFormat):
		logging.FromContext(ctx, s.log).WarnContext(ctx, "relevance_score_midpoint", "error", err)
		judged = Midpoint
	case err != nil:
		return 0, fmt.Errorf("judging abstract relevance: %w", err)
	}

	return similarity.Round((cos+judged)/2, 3), nil
}
