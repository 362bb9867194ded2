// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paper

import (
	"context"

	"github.com/pdiddy/paper-intel/internal/similarity"
	"github.com/pdiddy/paper-intel/pkg/types"
)

// ExtractInfo returns the structured overview of the paper named by ref.
// Output that violates the extraction schema fails the flow.
func (s *Service) ExtractInfo(ctx context.Context, ref string) (types.PaperExtraction, error) {
	ctx, log, id, err := s.begin(ctx, "extract", ref)
	if err != nil {
		return types.PaperExtraction{}, err
	}

	text, err := s.document(ctx, id)
	if err != nil {
		return types.PaperExtraction{}, err
	}
	ext, err := s.oracle.Extract(ctx, text)
	if err != nil {
		log.ErrorContext(ctx, "extraction_failed", "error", err)
		return types.PaperExtraction{}, upstreamErr(OpExtract, err)
	}
	log.InfoContext(ctx, "extraction_done")
	return ext, nil
}

// ScorePaper rates the paper named by ref against query and returns its
// most relevant de-noised passages. The chunks are cached for Chat.
func (s *Service) ScorePaper(ctx context.Context, ref, query string) (types.SimilarityResult, error) {
	ctx, log, id, err := s.begin(ctx, "score_paper", ref)
	if err != nil {
		return types.SimilarityResult{}, err
	}

	abstract, err := s.abstracts.Abstract(ctx, id)
	if err != nil {
		return types.SimilarityResult{}, upstreamErr(OpParse, err)
	}
	chunks, err := s.chunksFor(ctx, log, id)
	if err != nil {
		return types.SimilarityResult{}, err
	}

	expanded := s.expand(ctx, log, query)

	vecs, err := s.embedAll(ctx, []string{expanded, abstract}, texts(chunks))
	if err != nil {
		return types.SimilarityResult{}, upstreamErr(OpSimilarity, err)
	}
	queryVec, abstractVec, chunkVecs := vecs[0], vecs[1], vecs[2:]

	score, err := s.relevance.Score(ctx, expanded, queryVec, abstractVec, abstract)
	if err != nil {
		return types.SimilarityResult{}, upstreamErr(OpSimilarity, err)
	}
	top, err := s.reranker.Rerank(ctx, expanded, queryVec, chunks, chunkVecs)
	if err != nil {
		return types.SimilarityResult{}, upstreamErr(OpSimilarity, err)
	}

	log.InfoContext(ctx, "paper_scored", "abstract_score", score, "chunks", len(chunks), "top_chunks", len(top))
	return types.SimilarityResult{
		AbstractScore: score,
		AbstractText:  abstract,
		TopChunks:     top,
	}, nil
}

// FindRelated searches for papers related to query and ranks them by
// abstract similarity. The paper named by ref never appears in the result.
func (s *Service) FindRelated(ctx context.Context, ref, query string) (types.RelatedPapersResult, error) {
	ctx, log, id, err := s.begin(ctx, "find_related", ref)
	if err != nil {
		return types.RelatedPapersResult{}, err
	}

	expanded := s.expand(ctx, log, query)
	keywords := s.keywords(ctx, log, query)

	found, err := s.search.Search(ctx, keywords, s.maxResults)
	if err != nil {
		return types.RelatedPapersResult{}, upstreamErr(OpSearch, err)
	}
	candidates := make([]types.SearchResult, 0, len(found))
	for _, p := range found {
		if p.Identifier != id {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		log.InfoContext(ctx, "related_papers_ranked", "found", len(found), "papers", 0)
		return types.RelatedPapersResult{Papers: []types.ScoredPaper{}}, nil
	}

	abstracts := make([]string, len(candidates))
	for i, p := range candidates {
		abstracts[i] = p.Abstract
	}
	vecs, err := s.embedAll(ctx, []string{expanded}, abstracts)
	if err != nil {
		return types.RelatedPapersResult{}, upstreamErr(OpRanking, err)
	}

	papers := make([]types.ScoredPaper, len(candidates))
	for i, p := range candidates {
		cos := similarity.Cosine(vecs[0], vecs[i+1])
		papers[i] = types.ScoredPaper{
			SearchResult: p,
			Score:        similarity.Round(cos*s.retrieval.DisplayScale, 3),
		}
	}
	similarity.SortPapers(papers)

	log.InfoContext(ctx, "related_papers_ranked", "found", len(found), "papers", len(papers))
	return types.RelatedPapersResult{Papers: papers}, nil
}

// Chat answers query from the passages of the paper named by ref most
// similar to it, reusing chunks cached by ScorePaper when present.
func (s *Service) Chat(ctx context.Context, ref, query string) (types.ChatResponse, error) {
	ctx, log, id, err := s.begin(ctx, "chat", ref)
	if err != nil {
		return types.ChatResponse{}, err
	}

	chunks, err := s.cachedChunks(ctx, log, id)
	if err != nil {
		return types.ChatResponse{}, err
	}

	used := []types.ScoredChunk{}
	if len(chunks) > 0 {
		vecs, err := s.embedAll(ctx, []string{query}, texts(chunks))
		if err != nil {
			return types.ChatResponse{}, upstreamErr(OpRetrieval, err)
		}
		scored := similarity.ScoreChunks(vecs[0], chunks, vecs[1:], s.retrieval.DisplayScale)
		similarity.SortChunks(scored)
		used = similarity.TopChunks(scored, s.retrieval.ChatTopK)
	}

	excerpts := make([]string, len(used))
	for i, c := range used {
		excerpts[i] = c.Text
	}
	answer, err := s.oracle.Answer(ctx, query, excerpts)
	if err != nil {
		return types.ChatResponse{}, upstreamErr(OpAnswer, err)
	}

	log.InfoContext(ctx, "chat_answered", "chunks", len(chunks), "chunks_used", len(used))
	return types.ChatResponse{Answer: answer, ChunksUsed: used}, nil
}
