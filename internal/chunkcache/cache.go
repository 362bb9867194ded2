// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunkcache keeps segmented papers for the lifetime of a session
// so that follow-up questions do not re-download and re-segment a PDF.
// Entries are bounded by count and age. Concurrent misses for the same
// paper may both segment it; the last write wins and both are equal.
package chunkcache

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-intel/pkg/types"
)

// Cache maps a canonical paper identifier to its chunks.
type Cache interface {
	// Get returns the cached chunks and true, or false on a miss.
	Get(ctx context.Context, id string) ([]types.Chunk, bool, error)

	// Put replaces the chunks stored for id.
	Put(ctx context.Context, id string, chunks []types.Chunk) error

	// Len reports the number of cached papers.
	Len() int

	// Close releases resources held by the cache.
	Close() error
}

// New builds the cache selected by cfg.Backend.
func New(cfg types.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case types.CacheLRU, "":
		return NewLRU(cfg.Size, cfg.TTL), nil
	case types.CacheSQLite:
		return NewSQLite(cfg.SQLiteDSN, cfg.Size, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
