// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.CatalogStore.Path != "/data/catalog.duckdb" {
		t.Errorf("CatalogStore.Path = %q, want /data/catalog.duckdb", cfg.CatalogStore.Path)
	}
	if !cfg.CatalogStore.ReadOnly {
		t.Errorf("CatalogStore.ReadOnly should default to true")
	}
	if cfg.SchedulingStore.Path != "/data/scheduling.duckdb" {
		t.Errorf("SchedulingStore.Path = %q, want /data/scheduling.duckdb", cfg.SchedulingStore.Path)
	}
	if cfg.Cache.CountTTL != 2*time.Hour {
		t.Errorf("Cache.CountTTL = %v, want 2h", cfg.Cache.CountTTL)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Server.Environment = %q, want development", cfg.Server.Environment)
	}
	if cfg.Security.AuthMode != "jwt" {
		t.Errorf("Security.AuthMode = %q, want jwt", cfg.Security.AuthMode)
	}
	if cfg.Security.PollRateLimitReqs != 120 {
		t.Errorf("Security.PollRateLimitReqs = %d, want 120", cfg.Security.PollRateLimitReqs)
	}
	if cfg.NATS.Enabled {
		t.Errorf("NATS.Enabled should default to false")
	}
}

func TestValidate_RequiresStorePaths(t *testing.T) {
	cfg := defaultConfig()
	cfg.CatalogStore.Path = ""
	cfg.Security.AuthMode = "none"
	cfg.Server.Environment = "development"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when CatalogStore.Path is empty")
	}

	cfg = defaultConfig()
	cfg.SchedulingStore.Path = ""
	cfg.Security.AuthMode = "none"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when SchedulingStore.Path is empty")
	}
}

func TestValidate_AuthModeRequirements(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name: "jwt requires secret",
			mutate: func(c *Config) {
				c.Security.AuthMode = "jwt"
				c.Security.JWTSecret = ""
			},
			wantErr: true,
		},
		{
			name: "jwt with short secret",
			mutate: func(c *Config) {
				c.Security.AuthMode = "jwt"
				c.Security.JWTSecret = "short"
			},
			wantErr: true,
		},
		{
			name: "jwt with valid secret",
			mutate: func(c *Config) {
				c.Security.AuthMode = "jwt"
				c.Security.JWTSecret = "a-sufficiently-long-secret-value"
			},
			wantErr: false,
		},
		{
			name: "basic requires credentials",
			mutate: func(c *Config) {
				c.Security.AuthMode = "basic"
				c.Security.AdminUsername = ""
				c.Security.AdminPassword = ""
			},
			wantErr: true,
		},
		{
			name: "basic with short password",
			mutate: func(c *Config) {
				c.Security.AuthMode = "basic"
				c.Security.AdminUsername = "admin"
				c.Security.AdminPassword = "short"
			},
			wantErr: true,
		},
		{
			name: "basic with valid credentials",
			mutate: func(c *Config) {
				c.Security.AuthMode = "basic"
				c.Security.AdminUsername = "admin"
				c.Security.AdminPassword = "a-long-enough-password"
			},
			wantErr: false,
		},
		{
			name: "none disallowed in production",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Server.Environment = "production"
			},
			wantErr: true,
		},
		{
			name: "none allowed in development",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Server.Environment = "development"
			},
			wantErr: false,
		},
		{
			name: "invalid auth mode rejected",
			mutate: func(c *Config) {
				c.Security.AuthMode = "oauth2"
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidate_ServerPortRange(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.AuthMode = "none"
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 0")
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port 70000")
	}
}

func TestValidate_NATSRequiresStreamNameWhenEnabled(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.AuthMode = "none"
	cfg.NATS.Enabled = true
	cfg.NATS.StreamName = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when NATS enabled without a stream name")
	}
}

func TestValidate_LoggingLevelAndFormat(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.AuthMode = "none"
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid log level")
	}

	cfg = defaultConfig()
	cfg.Security.AuthMode = "none"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid log format")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	cases := map[string]string{
		"CATALOG_STORE_PATH": "catalog_store.path",
		"AUTH_MODE":          "security.auth_mode",
		"HTTP_PORT":          "server.port",
		"SOME_RANDOM_VAR":    "",
	}
	for in, want := range cases {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
