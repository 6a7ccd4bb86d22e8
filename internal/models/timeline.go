// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package models

import "time"

// EntryStatus is the lifecycle state of a Timeline Entry. The only legal
// transition is queued -> played, exactly once (spec.md §3).
type EntryStatus string

const (
	EntryQueued EntryStatus = "queued"
	EntryPlayed EntryStatus = "played"
)

// TimelineEntry is one queued or played slot of a display's current-loop
// timeline (spec.md §3, §4.3). JSON tags match the wire shape spec.md §6
// mandates for `nextVideo`: id, video_id, timeline_position,
// block_position, block_id, video_data.
type TimelineEntry struct {
	EntryID          string       `json:"id"`
	DisplayID        string       `json:"display_id"`
	PlaylistID       string       `json:"playlist_id"`
	BlockID          string       `json:"block_id"`
	VideoID          string       `json:"video_id"`
	BlockPosition    int          `json:"block_position"` // 0..k-1 within the owning block's produced entries
	TimelinePosition int          `json:"timeline_position"` // 0..total-1 within the loop, dense and unique
	LoopIteration    int          `json:"loop_iteration"`
	Status           EntryStatus  `json:"status"`
	PlayedAt         *time.Time   `json:"played_at,omitempty"`
	VideoPayload     VideoPayload `json:"video_data"`
}

// HistoryEntry is a long-term, never-deleted record used to exclude videos
// already played for the same block across future loops (spec.md §3).
type HistoryEntry struct {
	HistoryID     string    `json:"history_id"`
	DisplayID     string    `json:"display_id"`
	VideoID       string    `json:"video_id"`
	BlockID       string    `json:"block_id"`
	LoopIteration int       `json:"loop_iteration"`
	PlayedAt      time.Time `json:"played_at"`
}
