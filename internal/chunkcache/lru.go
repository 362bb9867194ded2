// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunkcache

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pdiddy/paper-intel/pkg/types"
)

// LRU is an in-memory cache with least-recently-used eviction and a TTL.
type LRU struct {
	lru *expirable.LRU[string, []types.Chunk]
}

// NewLRU returns a cache holding at most size papers for ttl each. A zero
// ttl disables expiry.
func NewLRU(size int, ttl time.Duration) *LRU {
	if size <= 0 {
		size = 128
	}
	return &LRU{lru: expirable.NewLRU[string, []types.Chunk](size, nil, ttl)}
}

// Get implements Cache.
func (c *LRU) Get(_ context.Context, id string) ([]types.Chunk, bool, error) {
	chunks, ok := c.lru.Get(id)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(chunks), true, nil
}

// Put implements Cache.
func (c *LRU) Put(_ context.Context, id string, chunks []types.Chunk) error {
	stored := slices.Clone(chunks)
	if stored == nil {
		stored = []types.Chunk{}
	}
	c.lru.Add(id, stored)
	return nil
}

// Len implements Cache.
func (c *LRU) Len() int { return c.lru.Len() }

// Close implements Cache.
func (c *LRU) Close() error {
	c.lru.Purge()
	return nil
}
