// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/wallreel/scheduler/internal/logging"
	ws "github.com/wallreel/scheduler/internal/websocket"
)

// opsFeedUpgrader is shared across upgrades; CheckOrigin delegates to the
// CORS configuration already enforced by the chi middleware stack in front
// of this handler, so every origin is accepted here.
var opsFeedUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// OpsFeedHandler upgrades an operator dashboard connection onto the
// read-only ops feed (spec.md Non-goals exclude a write-capable control
// channel; this is observation only, per A9).
type OpsFeedHandler struct {
	hub *ws.Hub
}

// NewOpsFeedHandler wires the handler to the shared Hub.
func NewOpsFeedHandler(hub *ws.Hub) *OpsFeedHandler {
	return &OpsFeedHandler{hub: hub}
}

// ServeHTTP handles GET /ops/feed.
func (h *OpsFeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := opsFeedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("ops feed websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
