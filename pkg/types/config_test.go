// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"claude backend", func(c *Config) { c.Oracle.Backend = OracleClaude }, ""},
		{"sqlite cache", func(c *Config) { c.Cache.Backend = CacheSQLite }, ""},
		{"unknown oracle", func(c *Config) { c.Oracle.Backend = "gemini" }, "oracle.backend"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "redis" }, "cache.backend"},
		{"zero cache size", func(c *Config) { c.Cache.Size = 0 }, "cache.size"},
		{"zero max words", func(c *Config) { c.Retrieval.MaxWords = 0 }, "max_words"},
		{"prefilter below select", func(c *Config) { c.Retrieval.PrefilterK = 3 }, "prefilter_k"},
		{"zero select", func(c *Config) { c.Retrieval.SelectK = 0 }, "select_k"},
		{"zero chat top k", func(c *Config) { c.Retrieval.ChatTopK = 0 }, "chat_top_k"},
		{"zero display scale", func(c *Config) { c.Retrieval.DisplayScale = 0 }, "display_scale"},
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }, "max_results"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNormalizeFillsLists(t *testing.T) {
	e := PaperExtraction{Datasets: []string{"ImageNet"}}
	e.Normalize()
	assert.Equal(t, []string{"ImageNet"}, e.Datasets)
	assert.NotNil(t, e.EvaluationMetrics)
	assert.Empty(t, e.EvaluationMetrics)
	assert.NotNil(t, e.Baselines)
	assert.NotNil(t, e.ApplicationDomains)
	assert.Nil(t, e.Title)
}
