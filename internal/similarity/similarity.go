// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity scores candidate vectors against a query vector and
// orders the results. Every call site in a flow uses Cosine so that scores
// stay comparable across abstracts, chunks and related papers.
package similarity

import (
	"math"
	"sort"

	"github.com/pdiddy/paper-intel/pkg/types"
)

// Cosine returns the cosine similarity of a and b clamped to [0, 1].
// Negative similarity is treated as no relevance. Zero-magnitude vectors
// and vectors of different dimension score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	norm := math.Sqrt(na) * math.Sqrt(nb)
	if norm == 0 {
		return 0
	}
	s := dot / norm
	switch {
	case s < 0 || math.IsNaN(s):
		return 0
	case s > 1:
		// Floating point can push v·v slightly past 1.
		return 1
	}
	return s
}

// Round rounds x half away from zero to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// ScoreChunks pairs each chunk with its cosine score against query times
// scale, rounded to three decimals. chunkVecs must be index-aligned with
// chunks.
func ScoreChunks(query []float64, chunks []types.Chunk, chunkVecs [][]float64, scale float64) []types.ScoredChunk {
	scored := make([]types.ScoredChunk, len(chunks))
	for i, c := range chunks {
		var vec []float64
		if i < len(chunkVecs) {
			vec = chunkVecs[i]
		}
		scored[i] = types.ScoredChunk{Chunk: c, Score: Round(Cosine(query, vec)*scale, 3)}
	}
	return scored
}

// SortChunks orders chunks by score descending. Ties keep their input order.
func SortChunks(chunks []types.ScoredChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})
}

// SortPapers orders papers by score descending. Ties keep their input order.
func SortPapers(papers []types.ScoredPaper) {
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].Score > papers[j].Score
	})
}

// TopChunks returns the first k chunks, or all of them when fewer exist.
func TopChunks(chunks []types.ScoredChunk, k int) []types.ScoredChunk {
	if k < 0 || k >= len(chunks) {
		return chunks
	}
	return chunks[:k]
}

// Rescale multiplies each chunk score by scale and rounds to three decimals.
func Rescale(chunks []types.ScoredChunk, scale float64) []types.ScoredChunk {
	out := make([]types.ScoredChunk, len(chunks))
	for i, c := range chunks {
		c.Score = Round(c.Score*scale, 3)
		out[i] = c
	}
	return out
}
