// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SimilarityResult is the output of the score-paper flow.
type SimilarityResult struct {
	// AbstractScore is the whole-paper relevance on a 0-100 scale.
	AbstractScore float64 `json:"abstract_score" yaml:"abstract_score"`

	// AbstractText is the abstract the score was computed against.
	AbstractText string `json:"abstract_text" yaml:"abstract_text"`

	// TopChunks are the reranked, de-noised chunks, highest score first.
	TopChunks []ScoredChunk `json:"top_chunks" yaml:"top_chunks"`
}

// RelatedPapersResult is the output of the find-related flow.
type RelatedPapersResult struct {
	Papers []ScoredPaper `json:"papers" yaml:"papers"`
}

// ChatResponse is the output of the chat flow.
type ChatResponse struct {
	Answer     string        `json:"answer" yaml:"answer"`
	ChunksUsed []ScoredChunk `json:"chunks_used" yaml:"chunks_used"`
}
