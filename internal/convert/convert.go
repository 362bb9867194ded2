// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns downloaded PDF bytes into raw text. The text is
// handed to the segmenter as-is; no cleaning happens here.
package convert

import (
	"context"
	"errors"
)

// ErrEmptyInput is returned when there are no PDF bytes to convert.
var ErrEmptyInput = errors.New("empty PDF input")

// Converter turns a PDF document into text. An empty result is not an
// error: a PDF without a text layer converts to "".
type Converter interface {
	Convert(ctx context.Context, pdf []byte) (string, error)
}
