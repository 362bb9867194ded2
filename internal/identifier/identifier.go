// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identifier normalizes user-supplied arXiv references (raw IDs,
// versioned IDs, abstract URLs, PDF URLs) into the canonical
// "NNNN.NNNNN" form with no version suffix.
package identifier

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalid reports an input that names no arXiv paper. It is the only
// validation error in the pipeline and maps to a client fault.
var ErrInvalid = errors.New("invalid arXiv identifier or URL")

// Base URLs for canonical links.
const (
	absBase = "https://arxiv.org/abs/"
	pdfBase = "https://arxiv.org/pdf/"
)

// rawPattern matches raw IDs: "2301.07041", "2301.07041v2", "arXiv:2301.07041".
var rawPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// urlPattern matches abstract and PDF URLs anywhere in the input.
var urlPattern = regexp.MustCompile(`arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5})`)

// Normalize returns the canonical identifier for ref, or an error wrapping
// ErrInvalid when no pattern matches.
func Normalize(ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	if m := rawPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if m := urlPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalid, ref)
}

// AbsURL returns the abstract page URL for a canonical identifier.
func AbsURL(id string) string {
	return absBase + id
}

// PDFURL returns the PDF download URL for a canonical identifier.
func PDFURL(id string) string {
	return pdfBase + id + ".pdf"
}
