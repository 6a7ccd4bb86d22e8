// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package models

import "time"

// CommandType is the tagged variant of an operator-to-display command
// (spec.md §3, §6).
type CommandType string

const (
	CommandPlay   CommandType = "play"
	CommandPause  CommandType = "pause"
	CommandMute   CommandType = "mute"
	CommandUnmute CommandType = "unmute"
	CommandNext   CommandType = "next"
	CommandSeek   CommandType = "seek"
)

// Valid reports whether t is a recognized command type.
func (t CommandType) Valid() bool {
	switch t {
	case CommandPlay, CommandPause, CommandMute, CommandUnmute, CommandNext, CommandSeek:
		return true
	default:
		return false
	}
}

// Command is an operator-enqueued instruction drained at-least-once by the
// target display's next poll (spec.md §3, §4.5).
type Command struct {
	CommandID  string      `json:"id"`
	DisplayID  string      `json:"display_id"`
	Type       CommandType `json:"type"`
	Payload    *string     `json:"payload,omitempty"` // opaque JSON, e.g. {"position": 12.5} for seek
	EnqueuedAt time.Time   `json:"enqueued_at"`
}
