// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallreel/scheduler/internal/models"
)

func TestCatalogCountUncached(t *testing.T) {
	store := setupCatalogStore(t)
	ctx := context.Background()

	count, err := store.CountUncached(ctx, "sunset", models.OrientationMixed)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCatalogCountUncached_OrientationFilter(t *testing.T) {
	store := setupCatalogStore(t)
	ctx := context.Background()

	count, err := store.CountUncached(ctx, "sunset", models.OrientationTall)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCatalogSelectNewest_OrderedDeterministic(t *testing.T) {
	store := setupCatalogStore(t)
	ctx := context.Background()

	videos, err := store.SelectNewest(ctx, "sunset", 3, models.OrientationMixed, nil)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, "v5", videos[0].VideoID)
	assert.Equal(t, "v4", videos[1].VideoID)
	assert.Equal(t, "v3", videos[2].VideoID)
}

func TestCatalogSelectNewest_ExcludesIDs(t *testing.T) {
	store := setupCatalogStore(t)
	ctx := context.Background()

	videos, err := store.SelectNewest(ctx, "sunset", 3, models.OrientationMixed, []string{"v5", "v4", "v3"})
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "v2", videos[0].VideoID)
	assert.Equal(t, "v1", videos[1].VideoID)
}

func TestCatalogSelectNewest_OrientationWide(t *testing.T) {
	store := setupCatalogStore(t)
	ctx := context.Background()

	videos, err := store.SelectNewest(ctx, "sunset", 10, models.OrientationWide, nil)
	require.NoError(t, err)
	for _, v := range videos {
		assert.Greater(t, v.Width, v.Height)
	}
	assert.Len(t, videos, 3)
}

func TestCatalogSelectNewest_NegativeSubTerm(t *testing.T) {
	store := setupCatalogStore(t)
	ctx := context.Background()

	videos, err := store.SelectNewest(ctx, "sunset -beach", 10, models.OrientationMixed, nil)
	require.NoError(t, err)
	for _, v := range videos {
		assert.NotContains(t, v.Text, "beach")
	}
	assert.Len(t, videos, 4)
}

func TestCatalogSelectNewest_FewerThanCountReturnsAllAvailable(t *testing.T) {
	store := setupCatalogStore(t)
	ctx := context.Background()

	videos, err := store.SelectNewest(ctx, "sunset", 100, models.OrientationMixed, nil)
	require.NoError(t, err)
	assert.Len(t, videos, 5)
}

func TestCatalogSelectOffset(t *testing.T) {
	store := setupCatalogStore(t)
	ctx := context.Background()

	v, ok, err := store.SelectOffset(ctx, "sunset", 0, models.OrientationMixed, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v5", v.VideoID)

	_, ok, err = store.SelectOffset(ctx, "sunset", 100, models.OrientationMixed, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseSearchTerm(t *testing.T) {
	parsed := parseSearchTerm("sunset -beach -drone")
	assert.Equal(t, "sunset", parsed.positive)
	assert.ElementsMatch(t, []string{"beach", "drone"}, parsed.negatives)
}
