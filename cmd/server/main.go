// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package main is the entry point for the Wallreel scheduler server.
//
// Wallreel coordinates video playlists across multiple unattended
// displays. Each display polls /poll/{display_id} on a short fixed
// interval; the server tracks each display's position in its active
// playlist's timeline and hands back the next video plus any queued
// operator commands.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults -> config.yaml -> environment (Koanf v2)
//  2. Catalog Store: read-only DuckDB connection to the pre-populated video catalog
//  3. Scheduling Store: read/write DuckDB connection for displays/playlists/timeline
//  4. Catalog Search Service: count-query cache + circuit breaker in front of the catalog
//  5. Ops Feed: WebSocket hub broadcasting scheduler events to operator dashboards
//  6. Scheduler components: Timeline Engine, Playlist Manager, Command Queue, Dispatcher
//  7. Authentication: JWT, Basic Auth, or no-auth mode for the operator API
//  8. HTTP Server: chi router serving the display poll endpoint and the operator API
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests to complete,
// and closes both DuckDB stores before exiting.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wallreel/scheduler/internal/api"
	"github.com/wallreel/scheduler/internal/auth"
	"github.com/wallreel/scheduler/internal/cache"
	"github.com/wallreel/scheduler/internal/catalog"
	"github.com/wallreel/scheduler/internal/config"
	"github.com/wallreel/scheduler/internal/database"
	"github.com/wallreel/scheduler/internal/eventprocessor"
	"github.com/wallreel/scheduler/internal/logging"
	"github.com/wallreel/scheduler/internal/scheduler"
	"github.com/wallreel/scheduler/internal/supervisor"
	"github.com/wallreel/scheduler/internal/supervisor/services"
	ws "github.com/wallreel/scheduler/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("catalog_path", cfg.CatalogStore.Path).
		Str("scheduling_path", cfg.SchedulingStore.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("starting wallreel scheduler")

	catalogStore, err := database.NewCatalogStore(cfg.CatalogStore)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open catalog store")
	}
	defer func() {
		if err := catalogStore.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing catalog store")
		}
	}()

	schedulingStore, err := database.NewSchedulingStore(cfg.SchedulingStore)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open scheduling store")
	}
	defer func() {
		if err := schedulingStore.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing scheduling store")
		}
	}()

	countCache := cache.NewCacher(cache.CacheConfig{TTL: cfg.Cache.CountTTL})
	catalogSvc := catalog.NewService(catalogStore, countCache)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create supervisor tree")
	}

	hub := ws.NewHub()
	wsNotifier := ws.NewNotifier(hub)

	eventPublisher, err := eventprocessor.NewPublisher(cfg.NATS)
	if err != nil {
		logging.Error().Err(err).Msg("failed to connect event bus publisher, scheduling events will not be published")
	}
	if eventPublisher != nil {
		defer func() {
			if err := eventPublisher.Close(); err != nil {
				logging.Error().Err(err).Msg("error closing event bus publisher")
			}
		}()
	}
	eventNotifier := eventprocessor.NewNotifier(eventPublisher)

	notifier := &fanoutNotifier{ws: wsNotifier, bus: eventNotifier}

	engine := scheduler.NewEngine(schedulingStore, catalogSvc, notifier)
	displays := scheduler.NewDisplayManager(schedulingStore, notifier)
	playlists := scheduler.NewPlaylistManager(schedulingStore, engine)
	commands := scheduler.NewCommandQueue(schedulingStore, notifier)
	dispatcher := scheduler.NewDispatcher(schedulingStore, engine, commands)

	var jwtManager *auth.JWTManager
	var basicAuthManager *auth.BasicAuthManager
	switch cfg.Security.AuthMode {
	case "jwt":
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled for the operator API")
	case "basic":
		basicAuthManager, err = auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to initialize Basic Auth manager")
		}
		logging.Info().Msg("Basic authentication enabled for the operator API")
	default:
		logging.Warn().Msg("operator API authentication is DISABLED (AUTH_MODE=none) - use only for local development")
	}

	authMiddleware := auth.NewMiddleware(
		jwtManager,
		basicAuthManager,
		cfg.Security.AuthMode,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
		cfg.Security.CORSOrigins,
		cfg.Security.TrustedProxies,
		"viewer",
		cfg.Security.AdminUsername,
	)

	chiMW := api.NewChiMiddlewareFromAuth(cfg.Security.CORSOrigins, cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow, cfg.Security.RateLimitDisabled)

	router := api.NewRouter(api.RouterDeps{
		Catalog:    catalogStore,
		Scheduling: schedulingStore,
		Displays:   displays,
		Playlists:  playlists,
		Commands:   commands,
		Engine:     engine,
		Dispatcher: dispatcher,
		Hub:        hub,
		Auth:       authMiddleware,
		Chi:        chiMW,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddRealtimeService(hub)
	rolloverSweep := scheduler.NewRolloverSweep(schedulingStore, engine)
	tree.AddSchedulingService(rolloverSweep)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("supervisor tree starting")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop")
		}
	}

	logging.Info().Msg("wallreel scheduler stopped gracefully")
}

// fanoutNotifier delivers every scheduler notification to both the ops feed
// (always live) and the event bus (no-op when NATS is disabled), so the two
// concerns can be wired into the scheduler components as a single notifier.
type fanoutNotifier struct {
	ws  *ws.Notifier
	bus *eventprocessor.Notifier
}

func (n *fanoutNotifier) NotifyMarkPlayed(displayID, videoID string, position int) {
	n.ws.NotifyMarkPlayed(displayID, videoID, position)
	n.bus.NotifyMarkPlayed(displayID, videoID, position)
}

func (n *fanoutNotifier) NotifyRollover(displayID string, loopCount int) {
	n.ws.NotifyRollover(displayID, loopCount)
	n.bus.NotifyRollover(displayID, loopCount)
}

func (n *fanoutNotifier) NotifyPlaylistActivated(displayID, playlistID string) {
	n.ws.NotifyPlaylistActivated(displayID, playlistID)
	n.bus.NotifyPlaylistActivated(displayID, playlistID)
}

func (n *fanoutNotifier) NotifyCommandEnqueued(displayID, commandType string) {
	n.ws.NotifyCommandEnqueued(displayID, commandType)
	n.bus.NotifyCommandEnqueued(displayID, commandType)
}

func (n *fanoutNotifier) NotifyCommandsDrained(displayID string, count int) {
	n.ws.NotifyCommandsDrained(displayID, count)
	n.bus.NotifyCommandsDrained(displayID, count)
}

func (n *fanoutNotifier) NotifyDisplayPaired(displayID, name string) {
	n.ws.NotifyDisplayPaired(displayID, name)
	n.bus.NotifyDisplayPaired(displayID, name)
}
