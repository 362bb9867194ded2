// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment turns noisy PDF-extracted text into overlapping,
// sentence-bounded chunks suitable for embedding.
//
// The pipeline is four pure steps: reference stripping, symbol-noise
// removal, sentence splitting, and windowing with a one-sentence overlap.
//
// Sentence splitting is a punctuation heuristic: a '.', '!' or '?'
// followed by whitespace ends a sentence. Abbreviations ("et al. 2020")
// and some decimals produce false splits. The rule is kept as-is so that
// chunk boundaries stay reproducible.
package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/paper-intel/pkg/types"
)

// DefaultMaxWords is the word threshold at which a chunk is closed.
const DefaultMaxWords = 250

// referencesPattern finds a References/Bibliography heading standing alone
// on a line, including the first and last lines. Markdown heading markers
// are tolerated since the converter emits Markdown.
var referencesPattern = regexp.MustCompile(`(?im)^[ \t]*(?:#{1,6}[ \t]*)?(?:references|bibliography)[ \t]*\r?$`)

// decorativeGlyphs are removed outright (not replaced by a space).
var decorativeGlyphs = regexp.MustCompile(`[①②③④⑤⑥⑦⑧⑨⑩¿¡¬√]`)

// disallowedRun matches runs outside {word chars, whitespace, . , ; : ( ) - / %}.
var disallowedRun = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s\p{Z}.,;:()\-/%]+`)

// whitespaceRun matches any run of ASCII or Unicode whitespace.
var whitespaceRun = regexp.MustCompile(`[\s\p{Z}]+`)

// Segmenter splits documents into chunks of roughly MaxWords words.
type Segmenter struct {
	maxWords int
}

// New returns a Segmenter closing chunks at maxWords words. Non-positive
// values use DefaultMaxWords.
func New(maxWords int) *Segmenter {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Segmenter{maxWords: maxWords}
}

// MaxWords returns the configured word threshold.
func (s *Segmenter) MaxWords() int { return s.maxWords }

// Segment runs the full pipeline over raw extracted text. Empty or
// all-noise input yields no chunks.
func (s *Segmenter) Segment(raw string) []types.Chunk {
	text := RemoveSymbolNoise(StripReferences(raw))
	return Window(SplitSentences(text), s.maxWords)
}

// StripReferences truncates text at the first standalone References or
// Bibliography heading. Text without such a heading is returned unchanged.
func StripReferences(text string) string {
	loc := referencesPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return strings.TrimSpace(text[:loc[0]])
}

// RemoveSymbolNoise drops decorative glyphs, replaces runs of disallowed
// characters with a space, collapses whitespace and trims.
func RemoveSymbolNoise(text string) string {
	text = decorativeGlyphs.ReplaceAllString(text, "")
	text = disallowedRun.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SplitSentences splits on a terminal '.', '!' or '?' followed by
// whitespace. The punctuation stays with its sentence; empty fragments
// are discarded.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := string(runes[start : i+1]); s != "" {
			sentences = append(sentences, s)
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Window groups sentences into chunks. A chunk takes consecutive sentences
// until its word count reaches maxWords; the next chunk starts at the
// previous chunk's last sentence, or one sentence later when that would
// not advance. A single sentence longer than maxWords forms its own chunk.
func Window(sentences []string, maxWords int) []types.Chunk {
	if len(sentences) == 0 {
		return nil
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	var chunks []types.Chunk
	i := 0
	for i < len(sentences) {
		words := 0
		j := i
		for j < len(sentences) && words < maxWords {
			words += len(strings.Fields(sentences[j]))
			j++
		}
		if text := strings.Join(sentences[i:j], " "); text != "" {
			chunks = append(chunks, types.Chunk{
				Text:        text,
				Index:       len(chunks),
				SourceOrder: i,
			})
		}
		if j >= len(sentences) {
			break
		}
		i = max(j-1, i+1)
	}
	return chunks
}
