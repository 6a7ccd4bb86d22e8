// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package api provides HTTP handlers for the Wallreel application.
//
// requests.go - request payload shapes and validation for operator and
// display-facing endpoints.
package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/go-playground/validator/v10"

	"github.com/wallreel/scheduler/internal/models"
)

var validate = validator.New()

// maxRequestBodyBytes bounds every decoded request body to guard against
// oversized payloads from misbehaving displays or operator clients.
const maxRequestBodyBytes = 1 << 20

// decodeJSON decodes a size-bounded request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	return decoder.Decode(dst)
}

// encodeBareJSON writes a JSON-encoded body without the APIResponse
// envelope, for the display-facing poll endpoint (spec.md §6).
func encodeBareJSON(w http.ResponseWriter, body interface{}) error {
	return json.NewEncoder(w).Encode(body)
}

// PollRequest is the display-facing poll body (spec.md §4.4, §6 POST
// /poll/{display_id}).
type PollRequest struct {
	Liveness       string  `json:"status" validate:"required,oneof=offline idle loading playing paused"`
	CurrentVideoID *string `json:"currentVideoId"`
	Position       float64 `json:"position" validate:"gte=0"`
}

// MarkPlayedRequest is the display-facing mark-played body (spec.md §6
// POST /timeline/mark-played).
type MarkPlayedRequest struct {
	TimelineVideoID string `json:"timelineVideoId" validate:"required"`
}

// RegisterDisplayRequest creates a new paired display (operator-facing).
type RegisterDisplayRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// BlockInputRequest is one block within a CreatePlaylistRequest.
type BlockInputRequest struct {
	SearchTerm  string `json:"searchTerm" validate:"required,min=1"`
	VideoCount  int    `json:"videoCount" validate:"required,gt=0"`
	FetchMode   string `json:"fetchMode" validate:"required,oneof=newest random"`
	Orientation string `json:"orientation" validate:"omitempty,oneof=mixed wide tall"`
}

// CreatePlaylistRequest creates a new, inactive playlist for a display.
type CreatePlaylistRequest struct {
	Name   string              `json:"name" validate:"required,min=1,max=200"`
	Blocks []BlockInputRequest `json:"blocks" validate:"required,min=1,dive"`
}

// RenamePlaylistRequest renames an existing playlist.
type RenamePlaylistRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// EnqueueCommandRequest enqueues an operator command for a display.
type EnqueueCommandRequest struct {
	Type    string  `json:"type" validate:"required,oneof=play pause mute unmute next seek"`
	Payload *string `json:"payload"`
}

// parseCommandType converts a validated command type string to its model
// type. Validation already constrains t to the oneof set.
func parseCommandType(t string) models.CommandType {
	return models.CommandType(t)
}

// toBlockInputs converts validated request blocks to models.BlockInput.
func (r CreatePlaylistRequest) toBlockInputs() []models.BlockInput {
	blocks := make([]models.BlockInput, len(r.Blocks))
	for i, b := range r.Blocks {
		orientation := models.Orientation(b.Orientation)
		if orientation == "" {
			orientation = models.OrientationMixed
		}
		blocks[i] = models.BlockInput{
			SearchTerm:  b.SearchTerm,
			VideoCount:  b.VideoCount,
			FetchMode:   models.FetchMode(b.FetchMode),
			Orientation: orientation,
		}
	}
	return blocks
}
