// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wallreel/config.yaml",
	"/etc/wallreel/config.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		CatalogStore: CatalogStoreConfig{
			Path:     "/data/catalog.duckdb",
			ReadOnly: true,
			Threads:  0, // 0 = runtime.NumCPU()
		},
		SchedulingStore: SchedulingStoreConfig{
			Path:      "/data/scheduling.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Cache: CacheConfig{
			CountTTL:        2 * time.Hour,
			CleanupInterval: time.Minute,
		},
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			AuthMode:            "jwt",
			JWTSecret:           "",
			SessionTimeout:      24 * time.Hour,
			AdminUsername:       "",
			AdminPassword:       "",
			RateLimitReqs:       100,
			RateLimitWindow:     time.Minute,
			RateLimitDisabled:   false,
			CORSOrigins:         []string{"*"},
			TrustedProxies:      []string{},
			PollRateLimitReqs:   120,
			PollRateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "/data/nats/jetstream",
			StreamName:     "wallreel-events",
			DurableName:    "wallreel-eventbus",
			ConnectTimeout: 10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config File: optional YAML config file (if found)
//  3. Environment Variables: override any setting (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values (from env vars)
// to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - CATALOG_STORE_PATH -> catalog_store.path
//   - AUTH_MODE -> security.auth_mode
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		"catalog_store_path":      "catalog_store.path",
		"catalog_store_read_only": "catalog_store.read_only",
		"catalog_store_threads":   "catalog_store.threads",

		"scheduling_store_path":       "scheduling_store.path",
		"scheduling_store_max_memory": "scheduling_store.max_memory",
		"scheduling_store_threads":    "scheduling_store.threads",

		"cache_count_ttl":        "cache.count_ttl",
		"cache_cleanup_interval": "cache.cleanup_interval",

		"http_port":   "server.port",
		"http_host":   "server.host",
		"http_timeout": "server.timeout",
		"environment": "server.environment",

		"auth_mode":                   "security.auth_mode",
		"jwt_secret":                  "security.jwt_secret",
		"session_timeout":             "security.session_timeout",
		"admin_username":              "security.admin_username",
		"admin_password":              "security.admin_password",
		"rate_limit_requests":         "security.rate_limit_reqs",
		"rate_limit_window":           "security.rate_limit_window",
		"disable_rate_limit":          "security.rate_limit_disabled",
		"cors_origins":                "security.cors_origins",
		"trusted_proxies":             "security.trusted_proxies",
		"poll_rate_limit_requests":    "security.poll_rate_limit_reqs",
		"poll_rate_limit_window":      "security.poll_rate_limit_window",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		"nats_enabled":         "nats.enabled",
		"nats_url":             "nats.url",
		"nats_embedded":        "nats.embedded_server",
		"nats_store_dir":       "nats.store_dir",
		"nats_stream_name":     "nats.stream_name",
		"nats_durable_name":    "nats.durable_name",
		"nats_connect_timeout": "nats.connect_timeout",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped to avoid random environment variables
	// polluting the config tree.
	return ""
}

// WatchConfigFile watches the given config file path for changes using
// fsnotify and invokes callback whenever the file is rewritten. Callers are
// responsible for re-running LoadWithKoanf and swapping the active Config
// under their own lock; this only detects the change.
func WatchConfigFile(path string, callback func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					callback()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return nil
}
