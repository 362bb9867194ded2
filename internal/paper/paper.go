// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paper composes the retrieval pipeline into the four flows
// offered to callers: extract, score-paper, find-related and chat.
//
// Each flow runs sequentially on the caller's goroutine. The chunk cache
// is the only state shared between requests; concurrent misses for the
// same paper both derive chunks and the last write wins.
package paper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-intel/internal/chunkcache"
	"github.com/pdiddy/paper-intel/internal/embed"
	"github.com/pdiddy/paper-intel/internal/identifier"
	"github.com/pdiddy/paper-intel/internal/logging"
	"github.com/pdiddy/paper-intel/internal/oracle"
	"github.com/pdiddy/paper-intel/internal/relevance"
	"github.com/pdiddy/paper-intel/internal/rerank"
	"github.com/pdiddy/paper-intel/internal/segment"
	"github.com/pdiddy/paper-intel/pkg/types"
)

// AbstractSource returns a paper's abstract.
type AbstractSource interface {
	Abstract(ctx context.Context, id string) (string, error)
}

// DocumentSource returns a paper's raw full text.
type DocumentSource interface {
	Document(ctx context.Context, id string) (string, error)
}

// Searcher queries a paper index by keywords.
type Searcher interface {
	Search(ctx context.Context, keywords string, maxResults int) ([]types.SearchResult, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Abstracts AbstractSource
	Documents DocumentSource
	Search    Searcher
	Embedder  embed.Embedder
	Oracle    oracle.Oracle
	Cache     chunkcache.Cache
	Log       *slog.Logger
}

// Service runs the four flows.
type Service struct {
	abstracts AbstractSource
	documents DocumentSource
	search    Searcher
	embedder  embed.Embedder
	oracle    oracle.Oracle
	cache     chunkcache.Cache
	log       *slog.Logger

	segmenter  *segment.Segmenter
	reranker   *rerank.Reranker
	relevance  *relevance.Scorer
	retrieval  types.RetrievalConfig
	maxResults int
}

// New wires a Service. Every dependency except Log is required.
func New(d Deps, retrieval types.RetrievalConfig, search types.SearchConfig) (*Service, error) {
	switch {
	case d.Abstracts == nil, d.Documents == nil, d.Search == nil:
		return nil, errors.New("paper: abstract, document and search sources are required")
	case d.Embedder == nil, d.Oracle == nil, d.Cache == nil:
		return nil, errors.New("paper: embedder, oracle and cache are required")
	}
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	def := types.DefaultConfig()
	if retrieval.ChatTopK <= 0 {
		retrieval.ChatTopK = def.Retrieval.ChatTopK
	}
	if retrieval.DisplayScale <= 0 {
		retrieval.DisplayScale = def.Retrieval.DisplayScale
	}
	maxResults := search.MaxResults
	if maxResults <= 0 {
		maxResults = def.Search.MaxResults
	}
	return &Service{
		abstracts:  d.Abstracts,
		documents:  d.Documents,
		search:     d.Search,
		embedder:   d.Embedder,
		oracle:     d.Oracle,
		cache:      d.Cache,
		log:        log,
		segmenter:  segment.New(retrieval.MaxWords),
		reranker:   rerank.New(d.Oracle, rerank.ConfigFrom(retrieval), log),
		relevance:  relevance.New(d.Oracle, log),
		retrieval:  retrieval,
		maxResults: maxResults,
	}, nil
}

// begin normalizes ref and returns a context carrying a logger tagged
// with a fresh retrieval id.
func (s *Service) begin(ctx context.Context, flow, ref string) (context.Context, *slog.Logger, string, error) {
	id, err := identifier.Normalize(ref)
	if err != nil {
		return ctx, nil, "", inputErr(err)
	}
	log := logging.FromContext(ctx, s.log).With(
		"flow", flow,
		"retrieval_id", uuid.NewString(),
		"arxiv_id", id,
	)
	return logging.WithLogger(ctx, log), log, id, nil
}

// document fetches raw text. Any source failure, a missing paper
// included, is upstream: only a malformed reference is a client fault.
func (s *Service) document(ctx context.Context, id string) (string, error) {
	text, err := s.documents.Document(ctx, id)
	if err != nil {
		return "", upstreamErr(OpParse, err)
	}
	return text, nil
}

// chunksFor derives chunks from the full text and caches them.
func (s *Service) chunksFor(ctx context.Context, log *slog.Logger, id string) ([]types.Chunk, error) {
	text, err := s.document(ctx, id)
	if err != nil {
		return nil, err
	}
	chunks := s.segmenter.Segment(text)
	if err := s.cache.Put(ctx, id, chunks); err != nil {
		log.WarnContext(ctx, "chunk_cache_write_failed", "error", err)
	}
	log.DebugContext(ctx, "paper_segmented", "chars", len(text), "chunks", len(chunks))
	return chunks, nil
}

// cachedChunks returns cached chunks or derives them. Cache read errors
// count as a miss.
func (s *Service) cachedChunks(ctx context.Context, log *slog.Logger, id string) ([]types.Chunk, error) {
	chunks, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		log.WarnContext(ctx, "chunk_cache_read_failed", "error", err)
	}
	if err == nil && ok {
		log.DebugContext(ctx, "chunk_cache_hit", "chunks", len(chunks))
		return chunks, nil
	}
	return s.chunksFor(ctx, log, id)
}

// expand enriches query, falling back to the query itself on any oracle
// failure.
func (s *Service) expand(ctx context.Context, log *slog.Logger, query string) string {
	expanded, err := s.oracle.ExpandQuery(ctx, query)
	if err != nil {
		log.WarnContext(ctx, "expansion_failed_using_original", "error", err)
		return query
	}
	log.DebugContext(ctx, "query_expanded", "expanded", expanded)
	return expanded
}

// keywords reduces query to search terms, falling back to the raw query.
func (s *Service) keywords(ctx context.Context, log *slog.Logger, query string) string {
	kw, err := s.oracle.ExtractKeywords(ctx, query)
	if err != nil {
		log.WarnContext(ctx, "keyword_extraction_failed_using_query", "error", err)
		return query
	}
	log.DebugContext(ctx, "keywords_extracted", "keywords", kw)
	return kw
}

func texts(chunks []types.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

// embedAll embeds head followed by rest and checks the vector count.
func (s *Service) embedAll(ctx context.Context, head []string, rest []string) ([][]float64, error) {
	batch := make([]string, 0, len(head)+len(rest))
	batch = append(batch, head...)
	batch = append(batch, rest...)
	vecs, err := s.embedder.Embed(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(batch) {
		return nil, fmt.Errorf("%w: %d vectors for %d texts", embed.ErrUnavailable, len(vecs), len(batch))
	}
	return vecs, nil
}
