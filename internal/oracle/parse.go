// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-intel/pkg/types"
)

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
	firstInt   = regexp.MustCompile(`\d+`)
)

// StripFences removes a surrounding Markdown code fence, if any.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = fenceOpen.ReplaceAllString(s, "")
	return fenceClose.ReplaceAllString(s, "")
}

// ParseIndices decodes a JSON array and returns its integer elements in
// order. Non-integer elements are dropped. A reply that is not a JSON
// array is ErrFormat.
func ParseIndices(raw string) ([]int, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(StripFences(raw)), &elems); err != nil {
		return nil, fmt.Errorf("%w: indices: %v", ErrFormat, err)
	}
	out := make([]int, 0, len(elems))
	for _, e := range elems {
		if bytes.Equal(bytes.TrimSpace(e), []byte("null")) {
			continue
		}
		var n int
		if err := json.Unmarshal(e, &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// ParseRelevance reads a 0-100 score. The whole reply is tried as an
// integer first, then the first run of digits in it. Values are clamped
// to [0, 100]. A reply without digits is ErrFormat.
func ParseRelevance(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return clampScore(n), nil
	}
	m := firstInt.FindString(s)
	if m == "" {
		return 0, fmt.Errorf("%w: no score in %q", ErrFormat, s)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		// Only overflow reaches here.
		return 100, nil
	}
	return clampScore(n), nil
}

func clampScore(n int) float64 {
	return float64(max(0, min(100, n)))
}

// ParseStringList decodes a JSON array of exactly n strings.
func ParseStringList(raw string, n int) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(StripFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: string list: %v", ErrFormat, err)
	}
	if len(out) != n {
		return nil, fmt.Errorf("%w: got %d strings, want %d", ErrFormat, len(out), n)
	}
	return out, nil
}

// extractionLists names the list fields of the extraction schema. They may
// be omitted but never null, and their elements must be strings.
var extractionLists = []string{"datasets", "evaluation_metrics", "baselines", "application_domains"}

// ParseExtraction decodes the extraction JSON object. Any type mismatch
// against the schema, trailing data, a null list or a null list element
// is ErrFormat. List fields come back non-nil.
func ParseExtraction(raw string) (types.PaperExtraction, error) {
	body := []byte(StripFences(raw))
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return types.PaperExtraction{}, fmt.Errorf("%w: extraction is not a JSON object: %.200q", ErrFormat, body)
	}
	for _, name := range extractionLists {
		v, ok := fields[name]
		if !ok {
			continue
		}
		var items []*string
		if err := json.Unmarshal(v, &items); err != nil {
			return types.PaperExtraction{}, fmt.Errorf("%w: extraction %s: %v", ErrFormat, name, err)
		}
		if items == nil {
			return types.PaperExtraction{}, fmt.Errorf("%w: extraction %s is null", ErrFormat, name)
		}
		for i, item := range items {
			if item == nil {
				return types.PaperExtraction{}, fmt.Errorf("%w: extraction %s[%d] is null", ErrFormat, name, i)
			}
		}
	}

	var e types.PaperExtraction
	if err := json.Unmarshal(body, &e); err != nil {
		return types.PaperExtraction{}, fmt.Errorf("%w: extraction: %v", ErrFormat, err)
	}
	e.Normalize()
	return e, nil
}
