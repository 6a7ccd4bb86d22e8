// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package models defines the domain entities of the scheduler: the
// read-only Video Record, and the Scheduling Store's Display, Playlist,
// Block, Timeline Entry, History Entry and Command Envelope. Wire-facing
// request/response shapes live alongside their owning entity.
package models
