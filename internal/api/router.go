// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/wallreel/scheduler/internal/auth"
	"github.com/wallreel/scheduler/internal/database"
	mw "github.com/wallreel/scheduler/internal/middleware"
	"github.com/wallreel/scheduler/internal/scheduler"
	ws "github.com/wallreel/scheduler/internal/websocket"
)

// RouterDeps collects everything the route tree needs to construct its
// handlers. Nothing here is owned by the router; it is assembled and
// shut down by the caller.
type RouterDeps struct {
	Catalog    *database.CatalogStore
	Scheduling *database.SchedulingStore
	Displays   *scheduler.DisplayManager
	Playlists  *scheduler.PlaylistManager
	Commands   *scheduler.CommandQueue
	Engine     *scheduler.Engine
	Dispatcher *scheduler.Dispatcher
	Hub        *ws.Hub
	Auth       *auth.Middleware
	Chi        *ChiMiddleware
}

// adaptHandlerFunc lifts a func(http.HandlerFunc) http.HandlerFunc-style
// middleware (the shape internal/auth and internal/middleware export) into
// chi's func(http.Handler) http.Handler shape.
func adaptHandlerFunc(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter builds the full chi route tree: display-facing poll,
// mark-played and self-lookup endpoints (no operator auth), the operator
// CRUD API including display pairing (behind auth.Middleware), the
// read-only ops feed, health checks, and Swagger UI.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	perf := mw.NewPerformanceMonitor(1000)

	r.Use(RequestIDWithLogging())
	r.Use(adaptHandlerFunc(mw.Compression))
	r.Use(adaptHandlerFunc(mw.PrometheusMetrics))
	r.Use(perf.Middleware)
	r.Use(deps.Chi.CORS())
	r.Use(APISecurityHeaders())
	r.Use(E2EDebugLogging())

	pollHandler := NewPollHandler(deps.Dispatcher)
	displayHandlers := NewDisplayHandlers(deps.Displays, deps.Engine, deps.Commands)
	playlistHandlers := NewPlaylistHandlers(deps.Playlists, deps.Engine)
	healthHandlers := NewHealthHandlers(deps.Catalog, deps.Scheduling, perf)
	opsFeedHandler := NewOpsFeedHandler(deps.Hub)

	// Health checks: never behind operator auth, lightly rate limited.
	r.Group(func(r chi.Router) {
		r.Use(deps.Chi.RateLimitHealth())
		r.Get("/healthz", healthHandlers.Live)
		r.Get("/readyz", healthHandlers.Ready)
		r.Get("/ops/performance", healthHandlers.Performance)
	})

	// Display-facing surface: polling, mark-played, and self-lookup. Never
	// gated by operator auth (spec.md §6 "Display endpoints" - a display
	// only ever knows its own display id, never an operator credential).
	r.Group(func(r chi.Router) {
		r.Use(deps.Chi.RateLimitPoll())
		r.Post("/poll/{display_id}", pollHandler.ServeHTTP)
		r.Post("/timeline/mark-played", pollHandler.MarkPlayed)
		r.Get("/displays/{display_id}", displayHandlers.Get)
	})

	// Ops feed: read-only dashboard stream, no operator auth required to
	// observe, but upgrade attempts are rate limited.
	r.Group(func(r chi.Router) {
		r.Use(deps.Chi.RateLimitWS())
		r.Get("/ops/feed", opsFeedHandler.ServeHTTP)
	})

	// requireOperator gates mutating operator endpoints behind the
	// "operator" role; "admin" always passes per auth.Middleware.RequireRole.
	requireOperator := func(h http.HandlerFunc) http.HandlerFunc {
		return deps.Auth.RequireRole("operator", h)
	}

	// Operator API: full CRUD over displays/playlists/commands, gated by
	// the configured auth mode (none/basic/jwt). Reads require any
	// authenticated caller; writes require the operator role.
	r.Group(func(r chi.Router) {
		r.Use(deps.Chi.RateLimitByIP())
		r.Use(adaptHandlerFunc(deps.Auth.Authenticate))

		r.Route("/displays", func(r chi.Router) {
			r.Get("/", displayHandlers.List)
			r.With(deps.Chi.RateLimitWrite()).Post("/", requireOperator(displayHandlers.Register))
			r.Get("/{display_id}/queue", displayHandlers.Queue)
			r.Get("/{display_id}/commands", displayHandlers.Commands)

			r.With(deps.Chi.RateLimitWrite()).Delete("/{display_id}", requireOperator(displayHandlers.Delete))
			r.With(deps.Chi.RateLimitWrite()).Post("/{display_id}/commands", requireOperator(displayHandlers.EnqueueCommand))

			r.Get("/{display_id}/playlists", playlistHandlers.ListForDisplay)
			r.With(deps.Chi.RateLimitWrite()).Post("/{display_id}/playlists", requireOperator(playlistHandlers.Create))
			r.With(deps.Chi.RateLimitWrite()).Post("/{display_id}/playlists/{playlist_id}/activate", requireOperator(playlistHandlers.Activate))
			r.With(deps.Chi.RateLimitWrite()).Post("/{display_id}/playlists/{playlist_id}/blocks/{block_id}/reset-to-target", requireOperator(playlistHandlers.ResetToTarget))
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/{playlist_id}", playlistHandlers.Get)
			r.Get("/{playlist_id}/blocks", playlistHandlers.Blocks)
			r.With(deps.Chi.RateLimitWrite()).Patch("/{playlist_id}", requireOperator(playlistHandlers.Rename))
			r.With(deps.Chi.RateLimitWrite()).Delete("/{playlist_id}", requireOperator(playlistHandlers.Delete))
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
