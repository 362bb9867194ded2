// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-intel/internal/container"
)

// DefaultImage is the markitdown image used when none is configured.
const DefaultImage = "markitdown:latest"

// MarkitdownConverter converts PDFs by piping them through the markitdown
// container image on a docker or podman runtime.
type MarkitdownConverter struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownConverter checks that image exists in rt and returns a
// converter that runs it. An empty image selects DefaultImage.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime, image string) (*MarkitdownConverter, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt, image: image}, nil
}

// Convert pipes pdf through the container and returns its Markdown output
// with surrounding whitespace removed.
func (m *MarkitdownConverter) Convert(ctx context.Context, pdf []byte) (string, error) {
	if len(pdf) == 0 {
		return "", ErrEmptyInput
	}
	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, bytes.NewReader(pdf), &out); err != nil {
		return "", fmt.Errorf("converting PDF with %s: %w", m.image, err)
	}
	return strings.TrimSpace(out.String()), nil
}
