// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package eventprocessor publishes scheduling domain events onto an
// optional NATS JetStream event bus (A6) for external observers and audit
// consumers. It never gates scheduling itself: every publish is
// best-effort and degrades to a no-op when NATS is disabled or down.
package eventprocessor

import (
	"time"

	"github.com/goccy/go-json"
)

// Event type discriminators, each mapped to its own JetStream subject
// under the configured stream name (e.g. "wallreel-events.mark_played").
const (
	EventMarkPlayed        = "mark_played"
	EventRollover          = "rollover"
	EventCommandEnqueued   = "command_enqueued"
	EventCommandsDrained   = "commands_drained"
	EventPlaylistActivated = "playlist_activated"
	EventDisplayPaired     = "display_paired"
)

// Event is the envelope published for every domain event. Payload carries
// the event-specific fields as a JSON object so subscribers can filter on
// Type and DisplayID without decoding Payload.
type Event struct {
	Type      string      `json:"type"`
	DisplayID string      `json:"display_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Subject returns the JetStream subject an event of this type publishes
// to, namespaced under streamName (spec.md §5 A6: one subject per event
// type keeps subscriber filtering simple).
func (e Event) Subject(streamName string) string {
	return streamName + "." + e.Type
}

// Marshal serializes the event envelope to JSON.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// MarkPlayedPayload is the Payload shape for EventMarkPlayed.
type MarkPlayedPayload struct {
	VideoID  string `json:"video_id"`
	Position int    `json:"position"`
}

// RolloverPayload is the Payload shape for EventRollover.
type RolloverPayload struct {
	LoopCount int `json:"loop_count"`
}

// CommandPayload is the Payload shape for EventCommandEnqueued and
// EventCommandsDrained.
type CommandPayload struct {
	CommandType string `json:"command_type,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// PlaylistActivatedPayload is the Payload shape for EventPlaylistActivated.
type PlaylistActivatedPayload struct {
	PlaylistID string `json:"playlist_id"`
}

// DisplayPairedPayload is the Payload shape for EventDisplayPaired.
type DisplayPairedPayload struct {
	Name string `json:"name"`
}
