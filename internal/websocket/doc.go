// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package websocket implements the read-only ops feed: a broadcast hub that
// mirrors poll-driven and operator-driven state changes (mark_played,
// rollover, command enqueue/drain, playlist activation, display pairing) to
// connected operator dashboards. It does not accept commands from clients;
// the only inbound message it recognizes is a ping/pong keepalive.
package websocket
