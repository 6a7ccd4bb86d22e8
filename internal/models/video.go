// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package models

// Orientation classifies a video's aspect ratio for block filtering.
type Orientation string

const (
	OrientationMixed Orientation = "mixed"
	OrientationWide   Orientation = "wide"
	OrientationTall   Orientation = "tall"
)

// Valid reports whether o is one of the wire-level orientation strings.
func (o Orientation) Valid() bool {
	switch o {
	case OrientationMixed, OrientationWide, OrientationTall:
		return true
	default:
		return false
	}
}

// Video is a read-only record from the Catalog Store. Core never writes
// to this table; it is owned by the external ingestion crawler.
type Video struct {
	VideoID            string
	CreatorID          string
	Text               string
	PostedAt           int64 // epoch seconds
	Permalink          string
	Width              int
	Height             int
	URLSource          string
	URLMd              string
	URLThumbnail       string
	URLGif             string
	CreatorUsername    string
	CreatorDisplayName string
}

// DerivedOrientation computes the orientation implied by width/height, per
// spec.md §3: wide iff width>height, tall iff height>width, else square
// (square videos never match a wide/tall block filter, only mixed).
func (v Video) DerivedOrientation() Orientation {
	switch {
	case v.Width > v.Height:
		return OrientationWide
	case v.Height > v.Width:
		return OrientationTall
	default:
		return "square"
	}
}

// MatchesOrientation reports whether v satisfies the given block filter.
func (v Video) MatchesOrientation(filter Orientation) bool {
	switch filter {
	case OrientationMixed, "":
		return true
	case OrientationWide:
		return v.Width > v.Height
	case OrientationTall:
		return v.Height > v.Width
	default:
		return false
	}
}

// VideoPayload is the closed, denormalized record captured into a Timeline
// Entry at population time so playback never needs to re-read the catalog.
// Per spec.md §9, this is a fixed set of fields, not a
// passthrough of whatever the catalog happens to carry.
type VideoPayload struct {
	VideoID            string `json:"video_id"`
	Text               string `json:"text"`
	Permalink          string `json:"permalink"`
	URLSource          string `json:"url_source"`
	URLMd              string `json:"url_md"`
	URLThumbnail       string `json:"url_thumbnail"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	CreatorID          string `json:"creator_id"`
	CreatorUsername    string `json:"creator_username"`
	CreatorDisplayName string `json:"creator_display_name"`
}

// ToPayload projects a catalog Video into the closed playback record.
func (v Video) ToPayload() VideoPayload {
	return VideoPayload{
		VideoID:            v.VideoID,
		Text:                v.Text,
		Permalink:           v.Permalink,
		URLSource:           v.URLSource,
		URLMd:               v.URLMd,
		URLThumbnail:        v.URLThumbnail,
		Width:               v.Width,
		Height:              v.Height,
		CreatorID:           v.CreatorID,
		CreatorUsername:     v.CreatorUsername,
		CreatorDisplayName:  v.CreatorDisplayName,
	}
}

// FetchMode selects how the Catalog Search Service orders/samples matches.
type FetchMode string

const (
	FetchModeNewest FetchMode = "newest"
	FetchModeRandom FetchMode = "random"
)

// Valid reports whether m is a recognized fetch mode.
func (m FetchMode) Valid() bool {
	return m == FetchModeNewest || m == FetchModeRandom
}
