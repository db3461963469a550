package main

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"pitch-engine/models"
)

// ResultCache holds reduced games by game id, bounded by size and age
type ResultCache struct {
	lru     *expirable.LRU[string, []models.PitchState]
	metrics *Metrics
}

// NewResultCache creates a cache holding at most size games for ttl each
func NewResultCache(size int, ttl time.Duration, metrics *Metrics) *ResultCache {
	return &ResultCache{
		lru:     expirable.NewLRU[string, []models.PitchState](size, nil, ttl),
		metrics: metrics,
	}
}

// Get returns the cached pitch states of a game and records a hit or miss
func (c *ResultCache) Get(gameID string) ([]models.PitchState, bool) {
	pitches, found := c.lru.Get(gameID)
	if found {
		c.metrics.IncrementCacheHit()
	} else {
		c.metrics.IncrementCacheMiss()
	}
	return pitches, found
}

func (c *ResultCache) Set(gameID string, pitches []models.PitchState) {
	c.lru.Add(gameID, pitches)
}

// Invalidate drops cached results for the given games
func (c *ResultCache) Invalidate(gameIDs ...string) {
	for _, id := range gameIDs {
		c.lru.Remove(id)
	}
}

func (c *ResultCache) Len() int {
	return c.lru.Len()
}
