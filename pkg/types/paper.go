// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared value objects for the paper-intel pipeline:
// chunks and their scores, search results and ranked papers, structured
// extractions, the result shapes of the four flows, and configuration.
package types

// SearchResult is a candidate paper returned by the paper search index.
type SearchResult struct {
	// Identifier is the canonical arXiv ID (e.g. "2301.07041").
	Identifier string `json:"arxiv_id" yaml:"arxiv_id"`

	// Title is the paper title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract with whitespace collapsed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the canonical abstract page for the paper.
	URL string `json:"url" yaml:"url"`
}

// ScoredPaper is a SearchResult ranked against a query. Score is the
// clamped query-vs-abstract cosine similarity multiplied by the display
// scale (0-10 by default).
type ScoredPaper struct {
	SearchResult `yaml:",inline"`

	Score float64 `json:"score" yaml:"score"`
}
