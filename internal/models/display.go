// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package models

import "time"

// Liveness is the display's self-reported playback state, clamped to this
// set on every poll (spec.md §3, §4.4).
type Liveness string

const (
	LivenessOffline Liveness = "offline"
	LivenessIdle    Liveness = "idle"
	LivenessLoading Liveness = "loading"
	LivenessPlaying Liveness = "playing"
	LivenessPaused  Liveness = "paused"
)

// ClampLiveness maps an arbitrary reported status string onto the allowed
// set, defaulting to LivenessIdle for anything unrecognized so a display
// reporting a future/unknown status never corrupts persisted state.
func ClampLiveness(reported string) Liveness {
	switch Liveness(reported) {
	case LivenessOffline, LivenessIdle, LivenessLoading, LivenessPlaying, LivenessPaused:
		return Liveness(reported)
	default:
		return LivenessIdle
	}
}

// Display is a single remote playback client, keyed by a 6-char pairing
// code. It exclusively owns its Playlists, Blocks, Timeline Entries,
// History Entries and Commands (spec.md §3). JSON tags match the wire
// shape spec.md §6 mandates for `GET /displays/{id}`: id, name, liveness,
// last_ping.
type Display struct {
	DisplayID         string     `json:"id"`
	Name              string     `json:"name"`
	CreatedAt         time.Time  `json:"created_at"`
	LastPing          *time.Time `json:"last_ping"`
	Liveness          Liveness   `json:"liveness"`
	CurrentVideoID    *string    `json:"current_video_id,omitempty"`
	CurrentPlaylistID *string    `json:"current_playlist_id,omitempty"`
	TimelinePosition  int        `json:"timeline_position"`
	LastStateChange   time.Time  `json:"last_state_change"`
	CurrentPosition   float64    `json:"current_position"` // display-reported playback seconds
}

// IsOnline reports whether the display last pinged within threshold of now,
// per spec.md §5 ("a display is considered online if last_ping is within a
// short threshold").
func (d Display) IsOnline(now time.Time, threshold time.Duration) bool {
	if d.LastPing == nil {
		return false
	}
	return now.Sub(*d.LastPing) <= threshold
}
