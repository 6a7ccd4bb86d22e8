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

func TestCreateAndGetDisplay(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()

	d, err := store.CreateDisplay(ctx, "ABC123", "Lobby Display")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", d.DisplayID)
	assert.Equal(t, "Lobby Display", d.Name)
	assert.Equal(t, models.LivenessOffline, d.Liveness)
	assert.Equal(t, 0, d.TimelinePosition)

	fetched, err := store.GetDisplay(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, d.DisplayID, fetched.DisplayID)
}

func TestCreateDisplay_DuplicateID(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()

	_, err := store.CreateDisplay(ctx, "ABC123", "First")
	require.NoError(t, err)

	_, err = store.CreateDisplay(ctx, "ABC123", "Second")
	require.Error(t, err)
}

func TestGetDisplay_NotFound(t *testing.T) {
	store := setupSchedulingStore(t)
	_, err := store.GetDisplay(context.Background(), "NOPE00")
	require.ErrorIs(t, err, ErrDisplayNotFound)
}

func TestDisplayExists(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()

	exists, err := store.DisplayExists(ctx, "ABC123")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.CreateDisplay(ctx, "ABC123", "Lobby")
	require.NoError(t, err)

	exists, err = store.DisplayExists(ctx, "ABC123")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListDisplays(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()

	_, err := store.CreateDisplay(ctx, "AAA111", "One")
	require.NoError(t, err)
	_, err = store.CreateDisplay(ctx, "BBB222", "Two")
	require.NoError(t, err)

	displays, err := store.ListDisplays(ctx)
	require.NoError(t, err)
	assert.Len(t, displays, 2)
}

func TestUpdateDisplayLiveness(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()

	_, err := store.CreateDisplay(ctx, "ABC123", "Lobby")
	require.NoError(t, err)

	err = store.UpdateDisplayLiveness(ctx, "ABC123", models.LivenessPlaying, 12.5)
	require.NoError(t, err)

	d, err := store.GetDisplay(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, models.LivenessPlaying, d.Liveness)
	assert.Equal(t, 12.5, d.CurrentPosition)
	require.NotNil(t, d.LastPing)
}

func TestUpdateDisplayLiveness_NotFound(t *testing.T) {
	store := setupSchedulingStore(t)
	err := store.UpdateDisplayLiveness(context.Background(), "NOPE00", models.LivenessIdle, 0)
	require.ErrorIs(t, err, ErrDisplayNotFound)
}

func TestDeleteDisplay(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()

	_, err := store.CreateDisplay(ctx, "ABC123", "Lobby")
	require.NoError(t, err)

	require.NoError(t, store.DeleteDisplay(ctx, "ABC123"))

	_, err = store.GetDisplay(ctx, "ABC123")
	require.ErrorIs(t, err, ErrDisplayNotFound)
}

func TestDeleteDisplay_NotFound(t *testing.T) {
	store := setupSchedulingStore(t)
	err := store.DeleteDisplay(context.Background(), "NOPE00")
	require.ErrorIs(t, err, ErrDisplayNotFound)
}

func TestSetDisplayActivePlaylist(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()

	_, err := store.CreateDisplay(ctx, "ABC123", "Lobby")
	require.NoError(t, err)

	require.NoError(t, store.UpdateDisplayLiveness(ctx, "ABC123", models.LivenessPlaying, 5))
	require.NoError(t, store.AdvanceDisplayPosition(ctx, "ABC123", 3, nil))

	require.NoError(t, store.SetDisplayActivePlaylist(ctx, "ABC123", "playlist-1"))

	d, err := store.GetDisplay(ctx, "ABC123")
	require.NoError(t, err)
	require.NotNil(t, d.CurrentPlaylistID)
	assert.Equal(t, "playlist-1", *d.CurrentPlaylistID)
	assert.Equal(t, 0, d.TimelinePosition)
}
