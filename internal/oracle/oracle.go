// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package oracle wraps the language model behind one method per judgment
// the retrieval pipeline needs. Model output is untrusted: every method
// validates it and reports ErrFormat when it cannot be used. Callers own
// the fallback for each judgment. Nothing here retries.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-intel/internal/logging"
	"github.com/pdiddy/paper-intel/pkg/types"
)

var (
	// ErrUnavailable reports that the model could not be reached or
	// returned an error.
	ErrUnavailable = errors.New("oracle unavailable")

	// ErrFormat reports that the model answered but the answer could not
	// be parsed into the expected shape.
	ErrFormat = errors.New("oracle returned malformed output")
)

// NoAnswer is returned by Answer when the model produces an empty reply.
const NoAnswer = "I couldn't generate an answer from the available excerpts."

// Oracle is the semantic-judgment boundary of the pipeline.
type Oracle interface {
	// Extract returns the structured overview of a paper's text.
	Extract(ctx context.Context, text string) (types.PaperExtraction, error)

	// SelectTopK asks for the k candidates most relevant to query and
	// returns the integer indices the model chose, unvalidated against
	// the candidate range.
	SelectTopK(ctx context.Context, query string, candidates []string, k int) ([]int, error)

	// Denoise returns a cleaned copy of each text, same length and order.
	Denoise(ctx context.Context, texts []string) ([]string, error)

	// ScoreRelevance rates an abstract against query on 0-100.
	ScoreRelevance(ctx context.Context, query, abstract string) (float64, error)

	// ExpandQuery enriches query with related terms.
	ExpandQuery(ctx context.Context, query string) (string, error)

	// ExtractKeywords reduces query to search keywords.
	ExtractKeywords(ctx context.Context, query string) (string, error)

	// Answer answers query from the numbered excerpts.
	Answer(ctx context.Context, query string, excerpts []string) (string, error)
}

// Completer sends a single-turn prompt to a model and returns its reply.
// Implementations wrap transport failures with ErrUnavailable.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Judge implements Oracle by rendering prompts for a Completer and
// parsing the replies.
type Judge struct {
	completer Completer
	maxChars  int
	log       *slog.Logger
}

// NewJudge returns a Judge that truncates extraction input to maxChars
// (no limit when non-positive). log may be nil.
func NewJudge(c Completer, maxChars int, log *slog.Logger) *Judge {
	if log == nil {
		log = slog.Default()
	}
	return &Judge{completer: c, maxChars: maxChars, log: log}
}

var _ Oracle = (*Judge)(nil)

// Extract implements Oracle.
func (j *Judge) Extract(ctx context.Context, text string) (types.PaperExtraction, error) {
	prompt, err := render(extractTmpl, struct{ Text string }{truncate(text, j.maxChars)})
	if err != nil {
		return types.PaperExtraction{}, err
	}
	raw, err := j.completer.Complete(ctx, prompt)
	if err != nil {
		return types.PaperExtraction{}, err
	}
	return ParseExtraction(raw)
}

// SelectTopK implements Oracle.
func (j *Judge) SelectTopK(ctx context.Context, query string, candidates []string, k int) ([]int, error) {
	prompt, err := render(selectTmpl, struct {
		Query      string
		K          int
		Candidates []string
	}{query, k, candidates})
	if err != nil {
		return nil, err
	}
	raw, err := j.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseIndices(raw)
}

// Words split by a hyphen and a line break or space, as PDF extraction
// leaves them ("multi- layer").
var (
	hyphenNewline = regexp.MustCompile(`-\s*\n\s*`)
	hyphenSpace   = regexp.MustCompile(`([\p{L}\p{N}_])-\s+([\p{L}\p{N}_])`)
)

// JoinHyphenation rejoins words split across line breaks.
func JoinHyphenation(s string) string {
	s = hyphenNewline.ReplaceAllString(s, "")
	return hyphenSpace.ReplaceAllString(s, "$1$2")
}

// Denoise implements Oracle. Texts are sent with hyphenation rejoined.
func (j *Judge) Denoise(ctx context.Context, texts []string) ([]string, error) {
	joined := make([]string, len(texts))
	for i, t := range texts {
		joined[i] = JoinHyphenation(t)
	}
	prompt, err := render(denoiseTmpl, struct{ Texts []string }{joined})
	if err != nil {
		return nil, err
	}
	raw, err := j.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseStringList(raw, len(texts))
}

// ScoreRelevance implements Oracle.
func (j *Judge) ScoreRelevance(ctx context.Context, query, abstract string) (float64, error) {
	prompt, err := render(relevanceTmpl, struct{ Query, Abstract string }{query, abstract})
	if err != nil {
		return 0, err
	}
	raw, err := j.completer.Complete(ctx, prompt)
	if err != nil {
		return 0, err
	}
	return ParseRelevance(raw)
}

// ExpandQuery implements Oracle.
func (j *Judge) ExpandQuery(ctx context.Context, query string) (string, error) {
	return j.rewrite(ctx, expandTmpl, query)
}

// ExtractKeywords implements Oracle.
func (j *Judge) ExtractKeywords(ctx context.Context, query string) (string, error) {
	return j.rewrite(ctx, keywordsTmpl, query)
}

func (j *Judge) rewrite(ctx context.Context, tmpl *template.Template, query string) (string, error) {
	prompt, err := render(tmpl, struct{ Query string }{query})
	if err != nil {
		return "", err
	}
	raw, err := j.completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(raw)
	if out == "" {
		return "", fmt.Errorf("%w: empty reply", ErrFormat)
	}
	return out, nil
}

// Answer implements Oracle.
func (j *Judge) Answer(ctx context.Context, query string, excerpts []string) (string, error) {
	prompt, err := render(answerTmpl, struct {
		Query    string
		Excerpts []string
	}{query, excerpts})
	if err != nil {
		return "", err
	}
	raw, err := j.completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if out := strings.TrimSpace(raw); out != "" {
		return out, nil
	}
	logging.FromContext(ctx, j.log).WarnContext(ctx, "answer_empty_using_default")
	return NoAnswer, nil
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
