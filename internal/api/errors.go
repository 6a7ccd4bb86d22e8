// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package api provides HTTP handlers for the Wallreel application.
//
// errors.go - Common API error definitions
//
// This file contains sentinel errors for common API error conditions.
package api

import "errors"

// Common API errors.
var (
	// ErrMissingDisplayID indicates a route parameter that should carry a
	// display id was empty.
	ErrMissingDisplayID = errors.New("display_id must not be empty")

	// ErrMissingPlaylistID indicates a route parameter that should carry a
	// playlist id was empty.
	ErrMissingPlaylistID = errors.New("playlist_id must not be empty")

	// ErrInvalidPaginationLimit indicates a ?limit= query parameter failed
	// to parse as a positive integer.
	ErrInvalidPaginationLimit = errors.New("limit must be a positive integer")
)
