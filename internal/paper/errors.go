// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paper

import "errors"

// Kind classifies a flow failure for the caller.
type Kind int

const (
	// KindInput is a client fault: the reference is not an arXiv identifier.
	KindInput Kind = iota + 1
	// KindUpstream is a server fault: a collaborator failed or returned
	// output that could not be used.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindUpstream:
		return "upstream"
	}
	return "unknown"
}

// Stage labels carried in Error.Op.
const (
	OpInvalidInput = "Invalid arXiv input"
	OpParse        = "arXiv parsing failed"
	OpExtract      = "LLM extraction failed"
	OpSimilarity   = "Similarity computation failed"
	OpSearch       = "arXiv search failed"
	OpRanking      = "Paper ranking failed"
	OpRetrieval    = "Chunk retrieval failed"
	OpAnswer       = "Answer generation failed"
)

// Error is returned by every Service flow. Op names the failing stage.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsInput reports whether err is a client fault.
func IsInput(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindInput
}

func inputErr(err error) error {
	return &Error{Kind: KindInput, Op: OpInvalidInput, Err: err}
}

func upstreamErr(op string, err error) error {
	return &Error{Kind: KindUpstream, Op: op, Err: err}
}
