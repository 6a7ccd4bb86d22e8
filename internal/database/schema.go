// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package database

// createTablesSQL creates the Scheduling Store tables per SPEC_FULL.md §3.2.
// Every Display exclusively owns its Playlists, Blocks, Timeline Entries,
// History and Commands (spec.md §3 "Ownership").
const createTablesSQL = `
CREATE TABLE IF NOT EXISTS displays (
	display_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_ping TIMESTAMP,
	liveness TEXT NOT NULL DEFAULT 'offline',
	current_video_id TEXT,
	current_playlist_id TEXT,
	timeline_position INTEGER NOT NULL DEFAULT 0,
	last_state_change TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	current_position DOUBLE NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS playlists (
	playlist_id TEXT PRIMARY KEY,
	display_id TEXT NOT NULL,
	name TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT false,
	total_blocks INTEGER NOT NULL DEFAULT 0,
	total_videos INTEGER NOT NULL DEFAULT 0,
	loop_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS playlist_blocks (
	block_id TEXT PRIMARY KEY,
	playlist_id TEXT NOT NULL,
	search_term TEXT NOT NULL,
	video_count INTEGER NOT NULL,
	fetch_mode TEXT NOT NULL,
	orientation TEXT NOT NULL,
	block_order INTEGER NOT NULL,
	times_played INTEGER NOT NULL DEFAULT 0,
	last_played_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS timeline_videos (
	entry_id TEXT PRIMARY KEY,
	display_id TEXT NOT NULL,
	playlist_id TEXT NOT NULL,
	block_id TEXT NOT NULL,
	video_id TEXT NOT NULL,
	block_position INTEGER NOT NULL,
	timeline_position INTEGER NOT NULL,
	loop_iteration INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'queued',
	played_at TIMESTAMP,
	video_payload TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS video_history (
	history_id TEXT PRIMARY KEY,
	display_id TEXT NOT NULL,
	video_id TEXT NOT NULL,
	block_id TEXT NOT NULL,
	loop_iteration INTEGER NOT NULL,
	played_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS commands (
	command_id TEXT PRIMARY KEY,
	display_id TEXT NOT NULL,
	type TEXT NOT NULL,
	payload TEXT,
	enqueued_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// createIndexesSQL creates the indexes named in SPEC_FULL.md §3.2, each
// matching an access pattern used by the Timeline Engine or Command Queue.
const createIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_timeline_display_status_position
	ON timeline_videos (display_id, status, timeline_position);
CREATE INDEX IF NOT EXISTS idx_history_display_block
	ON video_history (display_id, block_id);
CREATE INDEX IF NOT EXISTS idx_blocks_playlist_order
	ON playlist_blocks (playlist_id, block_order);
CREATE INDEX IF NOT EXISTS idx_commands_display_enqueued
	ON commands (display_id, enqueued_at);
CREATE INDEX IF NOT EXISTS idx_playlists_display
	ON playlists (display_id);
`
