// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-intel/internal/convert"
)

// DocumentSource turns an identifier into the paper's raw text by
// downloading its PDF and running it through a converter.
type DocumentSource struct {
	Client    *Client
	Converter convert.Converter
}

// Document returns the raw extracted text of paper id. Download failures
// keep their ErrNotFound or ErrFetchFailed kind; conversion failures are
// reported as ErrFetchFailed.
func (d *DocumentSource) Document(ctx context.Context, id string) (string, error) {
	pdf, err := d.Client.PDF(ctx, id)
	if err != nil {
		return "", err
	}
	text, err := d.Converter.Convert(ctx, pdf)
	if err != nil {
		return "", fmt.Errorf("%w: converting %s: %w", ErrFetchFailed, id, err)
	}
	return text, nil
}
