// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallreel/scheduler/internal/cache"
	"github.com/wallreel/scheduler/internal/catalog"
	"github.com/wallreel/scheduler/internal/config"
	"github.com/wallreel/scheduler/internal/database"
	"github.com/wallreel/scheduler/internal/models"
)

var testDBSemaphore = make(chan struct{}, 1)

type testFixture struct {
	scheduling *database.SchedulingStore
	catalogSvc *catalog.Service
	playlists  *PlaylistManager
	engine     *Engine
	commands   *CommandQueue
	displays   *DisplayManager
	dispatcher *Dispatcher
}

func setupFixture(t *testing.T) *testFixture {
	t.Helper()
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	scheduling, err := database.NewSchedulingStore(config.SchedulingStoreConfig{
		Path: ":memory:", MaxMemory: "512MB", Threads: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = scheduling.Close() })

	catalogStore, err := database.NewCatalogStore(config.CatalogStoreConfig{Path: ":memory:", Threads: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalogStore.Close() })

	_, execErr := catalogStore.Conn().Exec(`CREATE TABLE video_posts (
		video_id TEXT PRIMARY KEY, creator_id TEXT, text TEXT, posted_at BIGINT,
		permalink TEXT, width INTEGER, height INTEGER,
		url_source TEXT, url_md TEXT, url_thumbnail TEXT, url_gif TEXT,
		creator_username TEXT, creator_display_name TEXT
	)`)
	require.NoError(t, execErr)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	fixtures := []struct {
		id            string
		text          string
		postedAt      int64
		width, height int
	}{
		{"v1", "sunset over the city", base + 1, 1920, 1080},
		{"v2", "sunset at the beach", base + 2, 1920, 1080},
		{"v3", "sunset timelapse", base + 3, 1920, 1080},
	}
	for _, f := range fixtures {
		_, err := catalogStore.Conn().Exec(`INSERT INTO video_posts
			(video_id, creator_id, text, posted_at, permalink, width, height, url_source, url_md, url_thumbnail, url_gif, creator_username, creator_display_name)
			VALUES (?, 'creator1', ?, ?, 'https://example.test/'||?, ?, ?, 'https://example.test/src', 'https://example.test/md', 'https://example.test/thumb', 'https://example.test/gif', 'creator', 'Creator')`,
			f.id, f.text, f.postedAt, f.id, f.width, f.height)
		require.NoError(t, err)
	}

	catalogSvc := catalog.NewService(catalogStore, cache.NewTTL(time.Hour))
	engine := NewEngine(scheduling, catalogSvc, nil)
	playlists := NewPlaylistManager(scheduling, engine)
	commands := NewCommandQueue(scheduling, nil)
	displays := NewDisplayManager(scheduling, nil)
	dispatcher := NewDispatcher(scheduling, engine, commands)

	return &testFixture{
		scheduling: scheduling,
		catalogSvc: catalogSvc,
		playlists:  playlists,
		engine:     engine,
		commands:   commands,
		displays:   displays,
		dispatcher: dispatcher,
	}
}

func TestActivatePlaylist_PopulatesLoopZero(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	display, err := f.displays.Register(ctx, "Lobby")
	require.NoError(t, err)

	playlist, err := f.playlists.CreatePlaylist(ctx, display.DisplayID, "Main", []models.BlockInput{
		{SearchTerm: "sunset", VideoCount: 3, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed},
	})
	require.NoError(t, err)

	require.NoError(t, f.playlists.ActivatePlaylist(ctx, display.DisplayID, playlist.PlaylistID))

	entries, err := f.scheduling.ListTimelineEntries(ctx, display.DisplayID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i, e.TimelinePosition)
		assert.Equal(t, models.EntryQueued, e.Status)
	}
	assert.Equal(t, "v3", entries[0].VideoID, "newest mode orders by posted_at desc")
}

func TestMarkPlayed_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	display, err := f.displays.Register(ctx, "Lobby")
	require.NoError(t, err)
	playlist, err := f.playlists.CreatePlaylist(ctx, display.DisplayID, "Main", []models.BlockInput{
		{SearchTerm: "sunset", VideoCount: 3, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed},
	})
	require.NoError(t, err)
	require.NoError(t, f.playlists.ActivatePlaylist(ctx, display.DisplayID, playlist.PlaylistID))

	entries, err := f.scheduling.ListTimelineEntries(ctx, display.DisplayID, 0)
	require.NoError(t, err)
	first := entries[0]

	require.NoError(t, f.engine.MarkPlayed(ctx, first.EntryID))
	require.NoError(t, f.engine.MarkPlayed(ctx, first.EntryID))

	played, err := f.scheduling.GetTimelineEntry(ctx, first.EntryID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryPlayed, played.Status)

	updated, err := f.scheduling.GetDisplay(ctx, display.DisplayID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TimelinePosition, "position advances exactly once despite the repeated call")
}

func TestRollover_IncrementsLoopAndRepopulatesWithoutRepeatingVideos(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	display, err := f.displays.Register(ctx, "Lobby")
	require.NoError(t, err)
	playlist, err := f.playlists.CreatePlaylist(ctx, display.DisplayID, "Main", []models.BlockInput{
		{SearchTerm: "sunset", VideoCount: 3, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed},
	})
	require.NoError(t, err)
	require.NoError(t, f.playlists.ActivatePlaylist(ctx, display.DisplayID, playlist.PlaylistID))

	entries, err := f.scheduling.ListTimelineEntries(ctx, display.DisplayID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		require.NoError(t, f.engine.MarkPlayed(ctx, e.EntryID))
	}

	reloaded, err := f.scheduling.GetPlaylist(ctx, playlist.PlaylistID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.LoopCount, "rollover triggered exactly once after the loop drained")

	display2, err := f.scheduling.GetDisplay(ctx, display.DisplayID)
	require.NoError(t, err)
	assert.Equal(t, 0, display2.TimelinePosition)

	nextLoopEntries, err := f.scheduling.ListTimelineEntries(ctx, display.DisplayID, 1)
	require.NoError(t, err)
	assert.Empty(t, nextLoopEntries, "catalog only has 3 matching videos, all already excluded by history")
}

func TestDeletePlaylist_ClearsDisplayActiveReferenceWhenActive(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	display, err := f.displays.Register(ctx, "Lobby")
	require.NoError(t, err)
	playlist, err := f.playlists.CreatePlaylist(ctx, display.DisplayID, "Main", []models.BlockInput{
		{SearchTerm: "sunset", VideoCount: 2, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed},
	})
	require.NoError(t, err)
	require.NoError(t, f.playlists.ActivatePlaylist(ctx, display.DisplayID, playlist.PlaylistID))

	require.NoError(t, f.playlists.DeletePlaylist(ctx, playlist.PlaylistID))

	updated, err := f.scheduling.GetDisplay(ctx, display.DisplayID)
	require.NoError(t, err)
	assert.Nil(t, updated.CurrentPlaylistID)
}

func TestDispatcher_Poll_DispatchesNextAndDrainsCommands(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	display, err := f.displays.Register(ctx, "Lobby")
	require.NoError(t, err)
	playlist, err := f.playlists.CreatePlaylist(ctx, display.DisplayID, "Main", []models.BlockInput{
		{SearchTerm: "sunset", VideoCount: 3, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed},
	})
	require.NoError(t, err)
	require.NoError(t, f.playlists.ActivatePlaylist(ctx, display.DisplayID, playlist.PlaylistID))

	_, err = f.commands.Enqueue(ctx, display.DisplayID, models.CommandMute, nil)
	require.NoError(t, err)

	result, err := f.dispatcher.Poll(ctx, display.DisplayID, PollInput{Liveness: "playing"})
	require.NoError(t, err)
	require.NotNil(t, result.Next)
	assert.Equal(t, 0, result.Next.TimelinePosition)
	require.Len(t, result.Commands, 1)
	assert.Equal(t, models.CommandMute, result.Commands[0].Type)
	assert.Equal(t, 3, result.Progress.TotalVideos)

	// A second poll drains nothing further (at-least-once, not
	// at-least-twice).
	result2, err := f.dispatcher.Poll(ctx, display.DisplayID, PollInput{Liveness: "playing"})
	require.NoError(t, err)
	assert.Empty(t, result2.Commands)
}

func TestDispatcher_Poll_BeforeActivationReturnsNilNext(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	display, err := f.displays.Register(ctx, "Lobby")
	require.NoError(t, err)

	result, err := f.dispatcher.Poll(ctx, display.DisplayID, PollInput{Liveness: "idle"})
	require.NoError(t, err)
	assert.Nil(t, result.Next)
}

func TestResetBlockToTarget_TrimsSurplusQueuedEntries(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	display, err := f.displays.Register(ctx, "Lobby")
	require.NoError(t, err)
	playlist, err := f.playlists.CreatePlaylist(ctx, display.DisplayID, "Main", []models.BlockInput{
		{SearchTerm: "sunset", VideoCount: 3, FetchMode: models.FetchModeNewest, Orientation: models.OrientationMixed},
	})
	require.NoError(t, err)
	require.NoError(t, f.playlists.ActivatePlaylist(ctx, display.DisplayID, playlist.PlaylistID))

	require.NoError(t, f.scheduling.RenamePlaylist(ctx, playlist.PlaylistID, "Main"))
	blocks, err := f.scheduling.GetBlocks(ctx, playlist.PlaylistID)
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	require.NoError(t, f.engine.ResetBlockToTarget(ctx, display.DisplayID, playlist.PlaylistID, blocks[0].BlockID))

	entries, err := f.scheduling.ListTimelineEntries(ctx, display.DisplayID, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "target already matches produced count, nothing trimmed")
}
