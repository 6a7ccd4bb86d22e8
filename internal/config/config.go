// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package config holds all application configuration loaded from a YAML
// file, environment variables, and built-in defaults. It follows a layered
// loading order: defaults, then an optional config file, then environment
// variables (highest priority).
//
// Configuration Categories:
//
//  1. Storage: CatalogStore (read-only video_posts view) and SchedulingStore
//     (displays, playlists, timelines, commands) - both backed by DuckDB.
//  2. Server: HTTP listener settings for the poll endpoint and operator API.
//  3. Cache: TTL for the catalog count cache.
//  4. Security: operator authentication mode, JWT/Basic credentials, rate
//     limiting, CORS, trusted proxies.
//  5. Logging: zerolog level/format/caller settings.
//  6. NATS: optional event bus configuration (nats build tag).
//
// Example - Load configuration:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("failed to load config:", err)
//	}
//
// Config is immutable after load and safe for concurrent read access.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	CatalogStore   CatalogStoreConfig   `koanf:"catalog_store"`
	SchedulingStore SchedulingStoreConfig `koanf:"scheduling_store"`
	Cache          CacheConfig          `koanf:"cache"`
	Server         ServerConfig         `koanf:"server"`
	Security       SecurityConfig       `koanf:"security"`
	Logging        LoggingConfig        `koanf:"logging"`
	NATS           NATSConfig           `koanf:"nats"`
}

// CatalogStoreConfig holds settings for the read-only video catalog store.
type CatalogStoreConfig struct {
	// Path is the DuckDB file backing the video_posts catalog.
	Path string `koanf:"path"`
	// ReadOnly opens the database in read-only mode; the catalog store never
	// writes, it only runs count/select queries against a pre-populated catalog.
	ReadOnly bool `koanf:"read_only"`
	// Threads is the number of DuckDB worker threads (0 = runtime.NumCPU()).
	Threads int `koanf:"threads"`
}

// SchedulingStoreConfig holds settings for the read/write scheduling store
// (displays, playlists, playlist_blocks, timeline_videos, video_history, commands).
type SchedulingStoreConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// CacheConfig holds settings for the in-memory catalog count cache.
type CacheConfig struct {
	// CountTTL is how long a catalog count result is cached before
	// re-querying the catalog store.
	CountTTL time.Duration `koanf:"count_ttl"`
	// CleanupInterval is how often expired cache entries are swept.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// SecurityConfig holds operator authentication and rate limiting settings.
// The auth settings gate only the operator API (which includes display
// pairing); the display-facing poll, mark-played and self-lookup endpoints
// are never authenticated.
type SecurityConfig struct {
	// AuthMode selects how operator endpoints authenticate: "none", "basic", or "jwt".
	AuthMode string `koanf:"auth_mode"`

	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`

	// PollRateLimitReqs/Window bound the unauthenticated display poll endpoint
	// separately from the operator API, keyed by client IP.
	PollRateLimitReqs   int           `koanf:"poll_rate_limit_reqs"`
	PollRateLimitWindow time.Duration `koanf:"poll_rate_limit_window"`
}

// LoggingConfig holds logging settings for zerolog.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is the output format: json or console.
	Format string `koanf:"format"`
	// Caller includes caller file:line in log entries.
	Caller bool `koanf:"caller"`
}

// NATSConfig holds optional event bus configuration. Only used when the
// binary is built with the "nats" build tag; the event bus publishes
// mark-played/rollover/command lifecycle events for external consumers.
type NATSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	StoreDir       string        `koanf:"store_dir"`
	StreamName     string        `koanf:"stream_name"`
	DurableName    string        `koanf:"durable_name"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}
