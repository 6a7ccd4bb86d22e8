// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package models

// BlockProgress is the read-only projection of how far a display has
// advanced through one configured block (spec.md §4.4.1).
type BlockProgress struct {
	BlockID          string  `json:"block_id"`
	BlockOrder       int     `json:"block_order"`
	SearchTerm       string  `json:"search_term"`
	PositionInBlock  int     `json:"position_in_block"`
	VideoCount       int     `json:"video_count"`
	Progress         float64 `json:"progress"` // 0..1, computed from the configured target, not produced entries
}

// Progress is the full progress snapshot returned alongside a poll
// response (spec.md §4.4.1).
type Progress struct {
	LoopCount         int            `json:"loop_count"`
	TotalBlocks       int            `json:"total_blocks"`
	TotalVideos       int            `json:"total_videos"`
	TimelinePosition  int            `json:"timeline_position"`
	CurrentBlockIndex int            `json:"current_block_index"`
	CurrentBlock      *BlockProgress `json:"current_block,omitempty"`
}

// DeriveProgress computes the §4.4.1 projection from the active playlist's
// blocks (in block_order) and the display's current timeline_position. It
// is computed purely from each block's configured VideoCount (the target),
// not the number of entries actually produced, so progress stays
// meaningful even when a block ran short after exclusion (spec.md §4.4.1).
func DeriveProgress(playlist Playlist, blocks []Block, timelinePosition int) Progress {
	p := Progress{
		LoopCount:        playlist.LoopCount,
		TotalBlocks:      playlist.TotalBlocks,
		TotalVideos:      playlist.TotalVideos,
		TimelinePosition: timelinePosition,
	}

	cursor := 0
	for i, b := range blocks {
		next := cursor + b.VideoCount
		if timelinePosition >= cursor && timelinePosition < next {
			p.CurrentBlockIndex = i
			positionInBlock := timelinePosition - cursor
			progress := 0.0
			if b.VideoCount > 0 {
				progress = float64(positionInBlock) / float64(b.VideoCount)
			}
			p.CurrentBlock = &BlockProgress{
				BlockID:         b.BlockID,
				BlockOrder:      b.BlockOrder,
				SearchTerm:      b.SearchTerm,
				PositionInBlock: positionInBlock,
				VideoCount:      b.VideoCount,
				Progress:        progress,
			}
			return p
		}
		cursor = next
	}

	// No blocks, or timelinePosition beyond every block's target (e.g. every
	// block under-produced this loop): leave CurrentBlock nil.
	return p
}
