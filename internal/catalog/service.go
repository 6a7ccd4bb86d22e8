// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package catalog

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/wallreel/scheduler/internal/cache"
	"github.com/wallreel/scheduler/internal/database"
	"github.com/wallreel/scheduler/internal/metrics"
	"github.com/wallreel/scheduler/internal/models"
)

const (
	// shortTermThreshold is the minimum term length spec.md §4.1 requires
	// before a real scan is attempted; shorter terms fast-path to a
	// conventional minimum rather than touching the catalog at all (a
	// 1-character substring would match nearly every row).
	shortTermThreshold = 2
	// shortTermMinimumCount is the conventional minimum returned for
	// sub-threshold terms.
	shortTermMinimumCount = 1000
	// longTermThreshold is where count() may fall back to a cached
	// estimate instead of a fresh scan (spec.md §4.1).
	longTermThreshold = 30
	// randomProbeMultiplier bounds random-offset probing at 3x the
	// requested count (spec.md §4.1 "random" mode guarantee).
	randomProbeMultiplier = 3
)

// Service is the Catalog Search Service (spec.md §4.1, Component C3).
type Service struct {
	store      *database.CatalogStore
	countCache cache.Cacher
	breaker    *gobreaker.CircuitBreaker[interface{}]
}

// NewService wires a CatalogStore behind the count cache (A4) and the
// circuit breaker (A5).
func NewService(store *database.CatalogStore, countCache cache.Cacher) *Service {
	return &Service{
		store:      store,
		countCache: countCache,
		breaker:    newBreaker(),
	}
}

// countCacheParams is the value hashed into a count-cache key; field names
// are part of the key's stability contract, so don't rename them lightly.
type countCacheParams struct {
	Term        string
	Orientation models.Orientation
}

func cacheKey(term string, orientation models.Orientation) string {
	return cache.GenerateKey("catalog.count", countCacheParams{
		Term:        strings.ToLower(term),
		Orientation: orientation,
	})
}

// Count answers count(term, orientation) with the TTL cache in front of the
// catalog store, per spec.md §4.1's "Count caching" section.
func (s *Service) Count(ctx context.Context, term string, orientation models.Orientation) (int, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return 0, models.InvalidArgumentf("search term must not be empty")
	}
	if len(term) < shortTermThreshold {
		return shortTermMinimumCount, nil
	}

	key := cacheKey(term, orientation)
	if cached, ok := s.countCache.Get(key); ok {
		metrics.RecordCatalogCacheHit()
		return cached.(int), nil
	}
	metrics.RecordCatalogCacheMiss()

	// Terms longer than longTermThreshold are still scanned on a cache
	// miss (spec.md §4.1 only permits, not requires, skipping the scan);
	// the result is cached exactly like any other term so subsequent
	// lookups get the "conservative cached estimate" the spec describes.
	start := time.Now()
	count, err := s.countUncached(ctx, term, orientation)
	metrics.RecordCatalogSearch("count", time.Since(start))
	if err != nil {
		return 0, err
	}

	s.countCache.Set(key, count)
	return count, nil
}

func (s *Service) countUncached(ctx context.Context, term string, orientation models.Orientation) (int, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.store.CountUncached(ctx, term, orientation)
	})
	if err != nil {
		return 0, models.CatalogUnavailablef(err, "catalog count failed for term %q", term)
	}
	return castResult[int](result, nil)
}

// Select implements select(term, count, mode, orientation, exclude_set)
// (spec.md §4.1).
func (s *Service) Select(ctx context.Context, term string, count int, mode models.FetchMode, orientation models.Orientation, excludeSet []string) ([]models.Video, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, models.InvalidArgumentf("search term must not be empty")
	}
	if count <= 0 {
		return nil, models.InvalidArgumentf("count must be a positive integer, got %d", count)
	}
	if !mode.Valid() {
		return nil, models.InvalidArgumentf("invalid fetch mode %q", mode)
	}

	start := time.Now()
	defer func() { metrics.RecordCatalogSearch(string(mode), time.Since(start)) }()

	switch mode {
	case models.FetchModeNewest:
		return s.selectNewest(ctx, term, count, orientation, excludeSet)
	case models.FetchModeRandom:
		return s.selectRandom(ctx, term, count, orientation, excludeSet)
	default:
		return nil, models.InvalidArgumentf("invalid fetch mode %q", mode)
	}
}

func (s *Service) selectNewest(ctx context.Context, term string, count int, orientation models.Orientation, excludeSet []string) ([]models.Video, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.store.SelectNewest(ctx, term, count, orientation, excludeSet)
	})
	if err != nil {
		return nil, models.CatalogUnavailablef(err, "catalog select failed for term %q", term)
	}
	return castResult[[]models.Video](result, nil)
}

// selectRandom approximates uniform sampling over the matching universe by
// issuing bounded random-offset probes (spec.md §4.1 "random" mode),
// deduplicating by id and never returning more than count records.
func (s *Service) selectRandom(ctx context.Context, term string, count int, orientation models.Orientation, excludeSet []string) ([]models.Video, error) {
	universe, err := s.Count(ctx, term, orientation)
	if err != nil {
		return nil, err
	}
	if universe == 0 {
		return []models.Video{}, nil
	}

	excluded := make(map[string]bool, len(excludeSet))
	for _, id := range excludeSet {
		excluded[id] = true
	}

	seen := make(map[string]bool)
	results := make([]models.Video, 0, count)
	maxAttempts := count * randomProbeMultiplier

	for attempt := 0; attempt < maxAttempts && len(results) < count; attempt++ {
		offset := rand.IntN(universe)
		result, err := s.execute(func() (interface{}, error) {
			v, ok, err := s.store.SelectOffset(ctx, term, offset, orientation, excludeSet)
			return offsetResult{video: v, found: ok}, err
		})
		if err != nil {
			return nil, models.CatalogUnavailablef(err, "catalog random probe failed for term %q", term)
		}
		or, err := castResult[offsetResult](result, nil)
		if err != nil {
			return nil, err
		}
		if !or.found {
			continue
		}
		if excluded[or.video.VideoID] || seen[or.video.VideoID] {
			continue
		}
		seen[or.video.VideoID] = true
		results = append(results, or.video)
	}

	return results, nil
}

// offsetResult carries a single SelectOffset outcome through the circuit
// breaker's interface{} boundary.
type offsetResult struct {
	video models.Video
	found bool
}
