// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Chunk is a sentence-aligned window of a paper's cleaned text. Adjacent
// chunks share one sentence.
type Chunk struct {
	// Text is the chunk content, sentences joined by single spaces.
	Text string `json:"text" yaml:"text"`

	// Index is the chunk's position in the document's chunk list.
	Index int `json:"chunk_index" yaml:"chunk_index"`

	// SourceOrder is the position of the chunk's first sentence in the
	// document's sentence sequence.
	SourceOrder int `json:"source_order" yaml:"source_order"`
}

// ScoredChunk is a Chunk with a non-negative relevance score.
type ScoredChunk struct {
	Chunk `yaml:",inline"`

	Score float64 `json:"score" yaml:"score"`
}
