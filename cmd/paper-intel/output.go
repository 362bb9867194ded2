// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

type format int

const (
	formatText format = iota
	formatJSON
	formatYAML
)

func outputFormat(cmd *cobra.Command) format {
	if v, _ := cmd.Flags().GetBool("json"); v {
		return formatJSON
	}
	if v, _ := cmd.Flags().GetBool("yaml"); v {
		return formatYAML
	}
	return formatText
}

// writeResult encodes v as JSON or YAML, or calls text for the human
// rendering.
func writeResult(w io.Writer, f format, v any, text func(io.Writer) error) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	if text == nil {
		return fmt.Errorf("no text rendering available")
	}
	return text(w)
}

// clip shortens s to n runes, marking the cut with "...".
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
