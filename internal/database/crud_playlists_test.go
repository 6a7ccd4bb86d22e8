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

func seedDisplay(t *testing.T, store *SchedulingStore, displayID string) {
	t.Helper()
	_, err := store.CreateDisplay(context.Background(), displayID, "Test Display")
	require.NoError(t, err)
}

func TestCreatePlaylistWithBlocks(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()
	seedDisplay(t, store, "ABC123")

	blocks := []models.BlockInput{
		{SearchTerm: "sunset", VideoCount: 3, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed},
		{SearchTerm: "city", VideoCount: 2, FetchMode: models.FetchModeRandom, Orientation: models.OrientationWide},
	}
	p, err := store.CreatePlaylist(ctx, "ABC123", "Evening Rotation", blocks)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalBlocks)
	assert.Equal(t, 5, p.TotalVideos)
	assert.False(t, p.IsActive)

	got, err := store.GetBlocks(ctx, p.PlaylistID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].BlockOrder)
	assert.Equal(t, "sunset", got[0].SearchTerm)
	assert.Equal(t, 1, got[1].BlockOrder)
	assert.Equal(t, "city", got[1].SearchTerm)
}

func TestActivatePlaylist_AtMostOneActive(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()
	seedDisplay(t, store, "ABC123")

	blocks := []models.BlockInput{{SearchTerm: "a", VideoCount: 1, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed}}
	p1, err := store.CreatePlaylist(ctx, "ABC123", "P1", blocks)
	require.NoError(t, err)
	p2, err := store.CreatePlaylist(ctx, "ABC123", "P2", blocks)
	require.NoError(t, err)

	require.NoError(t, store.ActivatePlaylist(ctx, "ABC123", p1.PlaylistID))
	active, err := store.GetActivePlaylist(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, p1.PlaylistID, active.PlaylistID)

	require.NoError(t, store.ActivatePlaylist(ctx, "ABC123", p2.PlaylistID))
	active, err = store.GetActivePlaylist(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, p2.PlaylistID, active.PlaylistID)

	p1After, err := store.GetPlaylist(ctx, p1.PlaylistID)
	require.NoError(t, err)
	assert.False(t, p1After.IsActive)
}

func TestActivatePlaylist_NotFound(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()
	seedDisplay(t, store, "ABC123")

	err := store.ActivatePlaylist(ctx, "ABC123", "nonexistent")
	require.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestIncrementLoopCount(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()
	seedDisplay(t, store, "ABC123")

	blocks := []models.BlockInput{{SearchTerm: "a", VideoCount: 1, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed}}
	p, err := store.CreatePlaylist(ctx, "ABC123", "P1", blocks)
	require.NoError(t, err)

	require.NoError(t, store.IncrementLoopCount(ctx, p.PlaylistID))
	after, err := store.GetPlaylist(ctx, p.PlaylistID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.LoopCount)
}

func TestRecordBlockPlayed(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()
	seedDisplay(t, store, "ABC123")

	blocks := []models.BlockInput{{SearchTerm: "a", VideoCount: 1, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed}}
	p, err := store.CreatePlaylist(ctx, "ABC123", "P1", blocks)
	require.NoError(t, err)

	got, err := store.GetBlocks(ctx, p.PlaylistID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, store.RecordBlockPlayed(ctx, got[0].BlockID))
	after, err := store.GetBlocks(ctx, p.PlaylistID)
	require.NoError(t, err)
	assert.Equal(t, 1, after[0].TimesPlayed)
	require.NotNil(t, after[0].LastPlayedAt)
}

func TestDeletePlaylist(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()
	seedDisplay(t, store, "ABC123")

	blocks := []models.BlockInput{{SearchTerm: "a", VideoCount: 1, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed}}
	p, err := store.CreatePlaylist(ctx, "ABC123", "P1", blocks)
	require.NoError(t, err)

	require.NoError(t, store.DeletePlaylist(ctx, p.PlaylistID))
	_, err = store.GetPlaylist(ctx, p.PlaylistID)
	require.ErrorIs(t, err, ErrPlaylistNotFound)

	got, err := store.GetBlocks(ctx, p.PlaylistID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
