// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- scripted completer ---

type scriptedCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *scriptedCompleter) lastPrompt() string {
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

var errDown = fmt.Errorf("%w: connection refused", ErrUnavailable)

func TestJudgeSelectTopK(t *testing.T) {
	c := &scriptedCompleter{reply: "[2, 0, 1]"}
	j := NewJudge(c, 0, nil)

	got, err := j.SelectTopK(t.Context(), "attention", []string{"alpha", "beta", "gamma"}, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, got)

	p := c.lastPrompt()
	assert.Contains(t, p, `A user is searching for: "attention"`)
	assert.Contains(t, p, "Below are 3 text chunks")
	assert.Contains(t, p, "[0] alpha\n[1] beta\n[2] gamma\n")
	assert.Contains(t, p, "Pick the 5 chunks")
}

func TestJudgeSelectTopKErrors(t *testing.T) {
	j := NewJudge(&scriptedCompleter{reply: "I pick the first ones"}, 0, nil)
	_, err := j.SelectTopK(t.Context(), "q", []string{"a"}, 5)
	assert.ErrorIs(t, err, ErrFormat)

	j = NewJudge(&scriptedCompleter{err: errDown}, 0, nil)
	_, err = j.SelectTopK(t.Context(), "q", []string{"a"}, 5)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, errors.Is(err, ErrFormat))
}

func TestJudgeDenoise(t *testing.T) {
	c := &scriptedCompleter{reply: `["clean one", "clean two"]`}
	j := NewJudge(c, 0, nil)

	got, err := j.Denoise(t.Context(), []string{"multi- layer networks [1]", "two\n"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clean one", "clean two"}, got)
	assert.Contains(t, c.lastPrompt(), "[0]\nmultilayer networks [1]\n")
	assert.Contains(t, c.lastPrompt(), "Return a JSON array of length 2.")

	c.reply = `["only one"]`
	_, err = j.Denoise(t.Context(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestJoinHyphenation(t *testing.T) {
	assert.Equal(t, "multilayer", JoinHyphenation("multi- layer"))
	assert.Equal(t, "multilayer", JoinHyphenation("multi-\n  layer"))
	assert.Equal(t, "state-of-the-art", JoinHyphenation("state-of-the-art"))
	assert.Equal(t, "a - b", JoinHyphenation("a - b"))
}

func TestJudgeScoreRelevance(t *testing.T) {
	c := &scriptedCompleter{reply: "80"}
	j := NewJudge(c, 0, nil)

	got, err := j.ScoreRelevance(t.Context(), "transformers", "We propose the Transformer.")
	require.NoError(t, err)
	assert.Equal(t, 80.0, got)
	assert.Contains(t, c.lastPrompt(), `"We propose the Transformer."`)
	assert.Contains(t, c.lastPrompt(), "75  = Shares task or methodology AND application domain.")

	c.reply = "very relevant"
	_, err = j.ScoreRelevance(t.Context(), "q", "a")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestJudgeRewrite(t *testing.T) {
	c := &scriptedCompleter{reply: "  attention self-attention transformer  "}
	j := NewJudge(c, 0, nil)

	got, err := j.ExpandQuery(t.Context(), "attention")
	require.NoError(t, err)
	assert.Equal(t, "attention self-attention transformer", got)
	assert.Contains(t, c.lastPrompt(), "Expanded query:")

	got, err = j.ExtractKeywords(t.Context(), "attention")
	require.NoError(t, err)
	assert.Equal(t, "attention self-attention transformer", got)
	assert.Contains(t, c.lastPrompt(), "3-5 most important search keywords")

	c.reply = "   "
	_, err = j.ExpandQuery(t.Context(), "attention")
	assert.ErrorIs(t, err, ErrFormat)
	_, err = j.ExtractKeywords(t.Context(), "attention")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestJudgeAnswer(t *testing.T) {
	c := &scriptedCompleter{reply: "It uses multi-head attention (Excerpt 2)."}
	j := NewJudge(c, 0, nil)

	got, err := j.Answer(t.Context(), "how?", []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, "It uses multi-head attention (Excerpt 2).", got)
	assert.Contains(t, c.lastPrompt(), "[Excerpt 1]\nfirst\n")
	assert.Contains(t, c.lastPrompt(), "[Excerpt 2]\nsecond\n")

	c.reply = ""
	got, err = j.Answer(t.Context(), "how?", nil)
	require.NoError(t, err)
	assert.Equal(t, NoAnswer, got)

	j = NewJudge(&scriptedCompleter{err: errDown}, 0, nil)
	_, err = j.Answer(t.Context(), "how?", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestJudgeExtractTruncates(t *testing.T) {
	c := &scriptedCompleter{reply: `{"title": "T"}`}
	j := NewJudge(c, 10, nil)

	e, err := j.Extract(t.Context(), strings.Repeat("x", 10)+"TAIL")
	require.NoError(t, err)
	require.NotNil(t, e.Title)
	assert.Equal(t, "T", *e.Title)
	assert.Contains(t, c.lastPrompt(), "Paper text:\n"+strings.Repeat("x", 10)+"\n")
	assert.NotContains(t, c.lastPrompt(), "TAIL")
}

func TestJudgeExtractSchemaViolation(t *testing.T) {
	j := NewJudge(&scriptedCompleter{reply: `{"datasets": "ImageNet"}`}, 0, nil)
	_, err := j.Extract(t.Context(), "text")
	assert.ErrorIs(t, err, ErrFormat)
}
