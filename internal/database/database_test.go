// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wallreel/scheduler/internal/config"
)

// testDBSemaphore limits concurrent in-memory DuckDB creation across this
// package's tests, mirroring the teacher's database_test.go discipline.
var testDBSemaphore = make(chan struct{}, 1)

func setupSchedulingStore(t *testing.T) *SchedulingStore {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	store, err := NewSchedulingStore(config.SchedulingStoreConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func setupCatalogStore(t *testing.T) *CatalogStore {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	store, err := NewCatalogStore(config.CatalogStoreConfig{
		Path:    ":memory:",
		Threads: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	seedCatalog(t, store)
	return store
}

// seedCatalog inserts the deterministic fixture set exercised by the
// catalog search tests: five "sunset" posts with distinct posted_at and
// orientation, per spec.md §9 scenario S1/S3.
func seedCatalog(t *testing.T, store *CatalogStore) {
	t.Helper()
	_, err := store.conn.Exec(`CREATE TABLE video_posts (
		video_id TEXT PRIMARY KEY, creator_id TEXT, text TEXT, posted_at BIGINT,
		permalink TEXT, width INTEGER, height INTEGER,
		url_source TEXT, url_md TEXT, url_thumbnail TEXT, url_gif TEXT,
		creator_username TEXT, creator_display_name TEXT
	)`)
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	fixtures := []struct {
		id            string
		text          string
		postedAt      int64
		width, height int
	}{
		{"v1", "sunset over the city", base + 1, 1920, 1080},
		{"v2", "sunset at the beach", base + 2, 1080, 1920},
		{"v3", "sunset timelapse", base + 3, 1920, 1080},
		{"v4", "sunset drone shot", base + 4, 1080, 1920},
		{"v5", "sunset skyline", base + 5, 1920, 1080},
		{"v6", "city at noon", base + 6, 1920, 1080},
	}
	for _, f := range fixtures {
		_, err := store.conn.Exec(`INSERT INTO video_posts
			(video_id, creator_id, text, posted_at, permalink, width, height, url_source, url_md, url_thumbnail, url_gif, creator_username, creator_display_name)
			VALUES (?, 'creator1', ?, ?, 'https://example.test/'||?, ?, ?, 'https://example.test/src', 'https://example.test/md', 'https://example.test/thumb', 'https://example.test/gif', 'creator', 'Creator')`,
			f.id, f.text, f.postedAt, f.id, f.width, f.height)
		require.NoError(t, err)
	}
}

func TestSchedulingStore_InitializeCreatesTables(t *testing.T) {
	store := setupSchedulingStore(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	for _, table := range []string{"displays", "playlists", "playlist_blocks", "timeline_videos", "video_history", "commands", "schema_migrations"} {
		var name string
		err := store.conn.QueryRowContext(ctx, `SELECT table_name FROM information_schema.tables WHERE table_name = ?`, table).Scan(&name)
		require.NoError(t, err, "expected table %s to exist", table)
	}
}
