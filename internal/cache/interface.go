// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package cache provides a thread-safe, TTL-expiring in-memory cache.
package cache

import "time"

// Cacher defines the interface implemented by Cache (TTL-based), used by
// the catalog search service to cache count queries.
//
// Usage:
//
//	var c Cacher = NewTTL(5 * time.Minute)
//	c.Set("key", value)
//	if val, ok := c.Get("key"); ok {
//	    // Use cached value
//	}
type Cacher interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found and not expired.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with the default TTL.
	Set(key string, value interface{})

	// SetWithTTL stores a value with a custom TTL.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all entries from the cache.
	Clear()

	// GetStats returns cache statistics.
	GetStats() Stats

	// HitRate returns the cache hit rate as a percentage.
	HitRate() float64
}

// CacheConfig holds configuration for creating a cache.
type CacheConfig struct {
	// TTL is the default time-to-live for cache entries.
	TTL time.Duration
}

// NewCacher creates a TTL cache from the given configuration.
//
// Example:
//
//	cache := NewCacher(CacheConfig{TTL: 5 * time.Minute})
func NewCacher(cfg CacheConfig) Cacher {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return New(cfg.TTL)
}

// NewTTL creates a new TTL-based cache (same as New).
// Convenience function for explicit cache construction.
func NewTTL(ttl time.Duration) Cacher {
	return New(ttl)
}

// Verify interface implementation at compile time.
var _ Cacher = (*Cache)(nil)
