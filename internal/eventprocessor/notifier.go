// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package eventprocessor

import (
	"context"
	"time"

	"github.com/wallreel/scheduler/internal/logging"
)

// Notifier adapts a *Publisher to the Notify* method names
// internal/scheduler's EventNotifier, CommandNotifier and DisplayNotifier
// interfaces expect, the same structural-satisfaction pattern
// internal/websocket.Notifier uses for the ops feed. A nil Publisher (the
// event bus disabled) makes every Notify* call a no-op.
type Notifier struct {
	pub *Publisher
}

// NewNotifier wraps a Publisher as a scheduler notifier. pub may be nil.
func NewNotifier(pub *Publisher) *Notifier {
	return &Notifier{pub: pub}
}

func (n *Notifier) publish(displayID string, eventType string, payload interface{}) {
	if n.pub == nil {
		return
	}
	event := Event{Type: eventType, DisplayID: displayID, Timestamp: time.Now().UTC(), Payload: payload}
	if err := n.pub.Publish(context.Background(), event); err != nil {
		logging.Warn().Err(err).Str("display_id", displayID).Str("event_type", eventType).Msg("event bus publish failed")
	}
}

func (n *Notifier) NotifyMarkPlayed(displayID, videoID string, position int) {
	n.publish(displayID, EventMarkPlayed, MarkPlayedPayload{VideoID: videoID, Position: position})
}

func (n *Notifier) NotifyRollover(displayID string, loopCount int) {
	n.publish(displayID, EventRollover, RolloverPayload{LoopCount: loopCount})
}

func (n *Notifier) NotifyPlaylistActivated(displayID, playlistID string) {
	n.publish(displayID, EventPlaylistActivated, PlaylistActivatedPayload{PlaylistID: playlistID})
}

func (n *Notifier) NotifyCommandEnqueued(displayID, commandType string) {
	n.publish(displayID, EventCommandEnqueued, CommandPayload{CommandType: commandType})
}

func (n *Notifier) NotifyCommandsDrained(displayID string, count int) {
	n.publish(displayID, EventCommandsDrained, CommandPayload{Count: count})
}

func (n *Notifier) NotifyDisplayPaired(displayID, name string) {
	n.publish(displayID, EventDisplayPaired, DisplayPairedPayload{Name: name})
}
