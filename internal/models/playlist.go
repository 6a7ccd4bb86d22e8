// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package models

import "time"

// Playlist is an ordered list of Blocks bound to a single display. At most
// one Playlist per display may have IsActive set (spec.md §3).
type Playlist struct {
	PlaylistID   string
	DisplayID    string
	Name         string
	IsActive     bool
	TotalBlocks  int
	TotalVideos  int // sum of block.VideoCount, the configured target not the produced count
	LoopCount    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Block is a named search within a Playlist with a target count, a fetch
// mode, and an orientation filter (spec.md §3, GLOSSARY).
type Block struct {
	BlockID      string
	PlaylistID   string
	SearchTerm   string
	VideoCount   int
	FetchMode    FetchMode
	Orientation  Orientation
	BlockOrder   int
	TimesPlayed  int
	LastPlayedAt *time.Time
}

// BlockInput is the operator-supplied shape for creating a block, before a
// BlockID or BlockOrder has been assigned.
type BlockInput struct {
	SearchTerm  string
	VideoCount  int
	FetchMode   FetchMode
	Orientation Orientation
}
