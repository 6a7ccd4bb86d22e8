// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/wallreel/scheduler/internal/logging"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	// This may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Ops feed message types. The ops feed is a read-only stream for operator
// dashboards; it mirrors state changes made through the poll endpoint and
// the operator API, it does not accept input.
const (
	MessageTypePing              = "ping"
	MessageTypePong              = "pong"
	MessageTypeMarkPlayed        = "mark_played"
	MessageTypeRollover          = "rollover"
	MessageTypeCommandEnqueued   = "command_enqueued"
	MessageTypeCommandsDrained   = "commands_drained"
	MessageTypePlaylistActivated = "playlist_activated"
	MessageTypeDisplayPaired     = "display_paired"
)

// Message represents a WebSocket message on the ops feed.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active ops-feed clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext starts the hub with context support for graceful shutdown.
// This method is designed for use with suture supervision.
//
// When the context is canceled:
//  1. All connected clients are gracefully closed
//  2. The method returns ctx.Err()
//
// DETERMINISM: Uses priority-based selection to ensure predictable behavior:
// - Priority 1: Context cancellation (shutdown)
// - Priority 2: Client lifecycle events (Register/Unregister)
// - Priority 3: Broadcast messages
// Serve implements suture.Service so the Hub can be added directly to a
// SupervisorTree's realtime layer.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture's service logging.
func (h *Hub) String() string {
	return "ops-feed-hub"
}

func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("ops feed client connected")
			continue
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("ops feed client disconnected")
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("ops feed client connected")

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("ops feed client disconnected")

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// logGracefulShutdown logs the shutdown with structured fields for observability.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()
	reason := getShutdownReason(ctx)

	logging.Info().
		Str("component", "ops-feed-hub").
		Str("reason", string(reason)).
		Int("clients_closed", clientCount).
		Msg("ops feed hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.Canceled:
		return ShutdownReasonContextCanceled
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// broadcastToClients sends a message to all connected clients in a deterministic order.
// DETERMINISM: sorts clients by ID to avoid non-reproducible delivery order in tests.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
}

// closeAllClients gracefully closes all connected WebSocket clients.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	logging.Info().Msg("closed all ops feed clients during shutdown")
}

// BroadcastJSON sends an arbitrary typed message to all connected ops feed clients.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{Type: messageType, Data: data}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// MarkPlayedData is broadcast whenever a display reports a video as played.
type MarkPlayedData struct {
	DisplayID string `json:"display_id"`
	VideoID   string `json:"video_id"`
	Position  int    `json:"position"`
	Timestamp string `json:"timestamp"`
}

// BroadcastMarkPlayed notifies ops feed clients that a display advanced its timeline.
func (h *Hub) BroadcastMarkPlayed(displayID, videoID string, position int) {
	data := MarkPlayedData{
		DisplayID: displayID,
		VideoID:   videoID,
		Position:  position,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	h.BroadcastJSON(MessageTypeMarkPlayed, data)
}

// RolloverData is broadcast whenever a display's timeline completes a loop.
type RolloverData struct {
	DisplayID string `json:"display_id"`
	LoopCount int    `json:"loop_count"`
	Timestamp string `json:"timestamp"`
}

// BroadcastRollover notifies ops feed clients that a display's timeline rolled over.
func (h *Hub) BroadcastRollover(displayID string, loopCount int) {
	data := RolloverData{
		DisplayID: displayID,
		LoopCount: loopCount,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	h.BroadcastJSON(MessageTypeRollover, data)
	logging.Info().Str("display_id", displayID).Int("loop_count", loopCount).Msg("broadcast rollover")
}

// CommandData is broadcast whenever a command is enqueued for, or drained by, a display.
type CommandData struct {
	DisplayID   string `json:"display_id"`
	CommandType string `json:"command_type,omitempty"`
	Count       int    `json:"count,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// BroadcastCommandEnqueued notifies ops feed clients that an operator enqueued a command.
func (h *Hub) BroadcastCommandEnqueued(displayID, commandType string) {
	data := CommandData{
		DisplayID:   displayID,
		CommandType: commandType,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	h.BroadcastJSON(MessageTypeCommandEnqueued, data)
}

// BroadcastCommandsDrained notifies ops feed clients that a poll drained pending commands.
func (h *Hub) BroadcastCommandsDrained(displayID string, count int) {
	if count == 0 {
		return
	}
	data := CommandData{
		DisplayID: displayID,
		Count:     count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	h.BroadcastJSON(MessageTypeCommandsDrained, data)
}

// PlaylistActivatedData is broadcast whenever an operator activates a playlist for a display.
type PlaylistActivatedData struct {
	DisplayID  string `json:"display_id"`
	PlaylistID string `json:"playlist_id"`
	Timestamp  string `json:"timestamp"`
}

// BroadcastPlaylistActivated notifies ops feed clients of a playlist activation.
func (h *Hub) BroadcastPlaylistActivated(displayID, playlistID string) {
	data := PlaylistActivatedData{
		DisplayID:  displayID,
		PlaylistID: playlistID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	h.BroadcastJSON(MessageTypePlaylistActivated, data)
	logging.Info().Str("display_id", displayID).Str("playlist_id", playlistID).Msg("broadcast playlist_activated")
}

// DisplayPairedData is broadcast whenever a new display completes pairing.
type DisplayPairedData struct {
	DisplayID string `json:"display_id"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}

// BroadcastDisplayPaired notifies ops feed clients that a display finished pairing.
func (h *Hub) BroadcastDisplayPaired(displayID, name string) {
	data := DisplayPairedData{
		DisplayID: displayID,
		Name:      name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	h.BroadcastJSON(MessageTypeDisplayPaired, data)
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
