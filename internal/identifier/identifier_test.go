// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identifier

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"raw 5-digit", "2401.01234", "2401.01234"},
		{"raw 4-digit", "1706.0376", "1706.0376"},
		{"versioned", "2401.01234v2", "2401.01234"},
		{"arXiv prefix", "arXiv:2401.01234v3", "2401.01234"},
		{"abs URL", "https://arxiv.org/abs/2401.01234", "2401.01234"},
		{"abs URL versioned", "https://arxiv.org/abs/2401.01234v4", "2401.01234"},
		{"pdf URL", "https://arxiv.org/pdf/2401.01234.pdf", "2401.01234"},
		{"pdf URL no scheme", "arxiv.org/pdf/2401.01234", "2401.01234"},
		{"export mirror", "http://export.arxiv.org/abs/1706.03762", "1706.03762"},
		{"surrounding whitespace", "  \t1706.03762\n", "1706.03762"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeInvalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"hello-world",
		"240.01234",
		"2401.123",
		"2401.123456",
		"2401.01234v",
		"https://example.com/abs/2401.01234",
		"10.1145/1234567.1234568",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Normalize(in)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Normalize(%q) error = %v, want ErrInvalid", in, err)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"2401.01234v2",
		"https://arxiv.org/abs/2401.01234",
		"https://arxiv.org/pdf/2401.01234.pdf",
		"1706.03762",
	}
	for _, in := range inputs {
		once, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCanonicalURLs(t *testing.T) {
	if got := AbsURL("1706.03762"); got != "https://arxiv.org/abs/1706.03762" {
		t.Errorf("AbsURL = %q", got)
	}
	if got := PDFURL("1706.03762"); got != "https://arxiv.org/pdf/1706.03762.pdf" {
		t.Errorf("PDFURL = %q", got)
	}
}
