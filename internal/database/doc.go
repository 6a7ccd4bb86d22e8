// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package database provides the two DuckDB-backed stores named in
// spec.md §5: CatalogStore, a read-only view over the externally-ingested
// video_posts table, and SchedulingStore, the read/write source of truth
// for displays, playlists, blocks, timelines, history and commands. Both
// are explicitly constructed values, not process-wide singletons
// (SPEC_FULL.md §9 "Ad-hoc global database handle").
package database
