// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[1,2]", "[1,2]"},
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  ```json [3] ```  ", "[3]"},
	}
	for _, tt := range tests {
		if got := StripFences(tt.in); got != tt.want {
			t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseIndices(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []int
		wantErr bool
	}{
		{name: "plain", raw: "[3, 1, 4, 0, 2]", want: []int{3, 1, 4, 0, 2}},
		{name: "fenced", raw: "```json\n[0, 1]\n```", want: []int{0, 1}},
		{name: "non integers dropped", raw: `[1, "2", 3.5, null, true, 4]`, want: []int{1, 4}},
		{name: "negative kept for caller", raw: "[-1, 2]", want: []int{-1, 2}},
		{name: "empty array", raw: "[]", want: []int{}},
		{name: "prose", raw: "The best chunks are 1, 2 and 3.", wantErr: true},
		{name: "object", raw: `{"indices": [1]}`, wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIndices(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRelevance(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "integer", raw: "75", want: 75},
		{name: "padded", raw: "  42\n", want: 42},
		{name: "above range", raw: "150", want: 100},
		{name: "negative", raw: "-5", want: 0},
		{name: "embedded", raw: "Score: 80/100", want: 80},
		{name: "decimal takes first digits", raw: "62.5", want: 62},
		{name: "huge", raw: "score 99999999999999999999999", want: 100},
		{name: "no digits", raw: "highly relevant", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelevance(tt.raw)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStringList(t *testing.T) {
	got, err := ParseStringList(`["a", "", "c"]`, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "c"}, got)

	_, err = ParseStringList(`["a", "b"]`, 3)
	assert.ErrorIs(t, err, ErrFormat, "length mismatch")

	_, err = ParseStringList(`["a", 2, "c"]`, 3)
	assert.ErrorIs(t, err, ErrFormat, "non-string element")

	_, err = ParseStringList(`not json`, 1)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseExtraction(t *testing.T) {
	raw := "```json\n" + `{
		"title": "Attention Is All You Need",
		"problem_statement": "Sequence transduction is slow.",
		"task_type": "Generation",
		"core_contribution": null,
		"datasets": ["WMT 2014 English-German"],
		"evaluation_metrics": ["BLEU"],
		"key_results": "28.4 BLEU.",
		"application_domains": ["NLP"]
	}` + "\n```"

	e, err := ParseExtraction(raw)
	require.NoError(t, err)
	require.NotNil(t, e.Title)
	assert.Equal(t, "Attention Is All You Need", *e.Title)
	assert.Nil(t, e.CoreContribution)
	assert.Nil(t, e.Limitations)
	assert.Equal(t, []string{"WMT 2014 English-German"}, e.Datasets)
	assert.NotNil(t, e.Baselines, "omitted list becomes empty list")
	assert.Empty(t, e.Baselines)
}

func TestParseExtractionSchemaViolation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "Here is the extraction you asked for."},
		{"array", `["title"]`},
		{"list field is string", `{"datasets": "ImageNet"}`},
		{"string field is number", `{"title": 42}`},
		{"truncated", `{"title": "x"`},
		{"trailing text", `{"title": "x"} trailing garbage`},
		{"second object", `{"title": "x"}{"title": "y"}`},
		{"null list", `{"title": "x", "datasets": null}`},
		{"null list element", `{"title": "x", "datasets": ["a", null]}`},
		{"number list element", `{"baselines": ["a", 3]}`},
		{"json null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtraction(tt.raw)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}
