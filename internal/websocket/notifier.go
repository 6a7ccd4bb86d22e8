// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package websocket

// Notifier adapts a Hub's Broadcast* methods to the Notify* method names
// internal/scheduler's EventNotifier, CommandNotifier and DisplayNotifier
// interfaces expect. The interfaces are satisfied structurally; this type
// exists purely to rename the call sites, not to add behavior.
type Notifier struct {
	hub *Hub
}

// NewNotifier wraps a Hub as a scheduler event/command/display notifier.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) NotifyMarkPlayed(displayID, videoID string, position int) {
	n.hub.BroadcastMarkPlayed(displayID, videoID, position)
}

func (n *Notifier) NotifyRollover(displayID string, loopCount int) {
	n.hub.BroadcastRollover(displayID, loopCount)
}

func (n *Notifier) NotifyPlaylistActivated(displayID, playlistID string) {
	n.hub.BroadcastPlaylistActivated(displayID, playlistID)
}

func (n *Notifier) NotifyCommandEnqueued(displayID, commandType string) {
	n.hub.BroadcastCommandEnqueued(displayID, commandType)
}

func (n *Notifier) NotifyCommandsDrained(displayID string, count int) {
	n.hub.BroadcastCommandsDrained(displayID, count)
}

func (n *Notifier) NotifyDisplayPaired(displayID, name string) {
	n.hub.BroadcastDisplayPaired(displayID, name)
}
