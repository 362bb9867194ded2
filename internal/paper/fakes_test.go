// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paper

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pdiddy/paper-intel/internal/arxiv"
	"github.com/pdiddy/paper-intel/internal/embed"
	"github.com/pdiddy/paper-intel/internal/oracle"
	"github.com/pdiddy/paper-intel/pkg/types"
)

// bowEmbedder maps each text to a bag-of-words vector. Every distinct
// word gets its own dimension, so texts score by the words they share.
type bowEmbedder struct {
	mu      sync.Mutex
	vocab   map[string]int
	batches [][]string
	err     error
}

const bowDims = 1024

func (b *bowEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches = append(b.batches, append([]string(nil), texts...))
	if b.err != nil {
		return nil, b.err
	}
	if b.vocab == nil {
		b.vocab = make(map[string]int)
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v := make([]float64, bowDims)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			w = strings.Trim(w, ".,;:()")
			if w == "" {
				continue
			}
			dim, ok := b.vocab[w]
			if !ok {
				dim = len(b.vocab) % bowDims
				b.vocab[w] = dim
			}
			v[dim]++
		}
		out[i] = v
	}
	return out, nil
}

var _ embed.Embedder = (*bowEmbedder)(nil)

// scriptedOracle returns canned judgments and records what it was asked.
type scriptedOracle struct {
	extraction  types.PaperExtraction
	extractErr  error
	pick        []int
	pickErr     error
	denoiseErr  error
	relevance   float64
	relevErr    error
	expansion   string
	expandErr   error
	keywords    string
	keywordsErr error
	answer      string
	answerErr   error

	selectCalls int
	expandedFor string
	excerpts    []string
}

func (o *scriptedOracle) Extract(context.Context, string) (types.PaperExtraction, error) {
	return o.extraction, o.extractErr
}

func (o *scriptedOracle) SelectTopK(_ context.Context, _ string, candidates []string, k int) ([]int, error) {
	o.selectCalls++
	return o.pick, o.pickErr
}

func (o *scriptedOracle) Denoise(_ context.Context, texts []string) ([]string, error) {
	if o.denoiseErr != nil {
		return nil, o.denoiseErr
	}
	return texts, nil
}

func (o *scriptedOracle) ScoreRelevance(context.Context, string, string) (float64, error) {
	return o.relevance, o.relevErr
}

func (o *scriptedOracle) ExpandQuery(_ context.Context, query string) (string, error) {
	o.expandedFor = query
	if o.expandErr != nil {
		return "", o.expandErr
	}
	if o.expansion != "" {
		return o.expansion, nil
	}
	return query, nil
}

func (o *scriptedOracle) ExtractKeywords(_ context.Context, query string) (string, error) {
	if o.keywordsErr != nil {
		return "", o.keywordsErr
	}
	if o.keywords != "" {
		return o.keywords, nil
	}
	return query, nil
}

func (o *scriptedOracle) Answer(_ context.Context, _ string, excerpts []string) (string, error) {
	o.excerpts = excerpts
	return o.answer, o.answerErr
}

var _ oracle.Oracle = (*scriptedOracle)(nil)

// fakeArxiv serves abstracts, documents and search results from maps.
type fakeArxiv struct {
	abstracts map[string]string
	documents map[string]string
	docErr    error
	results   []types.SearchResult
	searchErr error

	docCalls     int
	searchedWith string
}

func (f *fakeArxiv) Abstract(_ context.Context, id string) (string, error) {
	a, ok := f.abstracts[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", arxiv.ErrNotFound, id)
	}
	return a, nil
}

func (f *fakeArxiv) Document(_ context.Context, id string) (string, error) {
	f.docCalls++
	if f.docErr != nil {
		return "", f.docErr
	}
	d, ok := f.documents[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", arxiv.ErrNotFound, id)
	}
	return d, nil
}

func (f *fakeArxiv) Search(_ context.Context, keywords string, maxResults int) ([]types.SearchResult, error) {
	f.searchedWith = keywords
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.results) > maxResults {
		return f.results[:maxResults], nil
	}
	return f.results, nil
}
