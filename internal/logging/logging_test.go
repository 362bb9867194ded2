// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-intel/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warning ", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(types.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("denoise_skipped", "chunks", 5)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "denoise_skipped", rec["msg"])
	assert.Equal(t, float64(5), rec["chunks"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(types.LogConfig{}, &buf)
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("query_expanded")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=query_expanded")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(types.LogConfig{Format: "logfmt"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown log format")
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	fallback := Discard()

	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	ctx := WithLogger(context.Background(), base.With("request_id", "r-1"))
	FromContext(ctx, fallback).Info("hello")
	assert.Contains(t, buf.String(), "request_id=r-1")
}
