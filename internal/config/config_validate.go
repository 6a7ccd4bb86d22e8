// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package config

import "fmt"

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateCatalogStore(); err != nil {
		return err
	}
	if err := c.validateSchedulingStore(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalogStore() error {
	if c.CatalogStore.Path == "" {
		return fmt.Errorf("CATALOG_STORE_PATH is required")
	}
	if c.CatalogStore.Threads < 0 {
		return fmt.Errorf("CATALOG_STORE_THREADS must be >= 0")
	}
	return nil
}

func (c *Config) validateSchedulingStore() error {
	if c.SchedulingStore.Path == "" {
		return fmt.Errorf("SCHEDULING_STORE_PATH is required")
	}
	if c.SchedulingStore.Threads < 0 {
		return fmt.Errorf("SCHEDULING_STORE_THREADS must be >= 0")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, staging, production")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "none", "basic", "jwt":
	default:
		return fmt.Errorf("AUTH_MODE must be one of none, basic, jwt (got %q)", c.Security.AuthMode)
	}

	if c.Server.Environment == "production" && c.Security.AuthMode == "none" {
		return fmt.Errorf("AUTH_MODE=none is not permitted when ENVIRONMENT=production")
	}

	switch c.Security.AuthMode {
	case "jwt":
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=jwt")
		}
		if len(c.Security.JWTSecret) < 16 {
			return fmt.Errorf("JWT_SECRET must be at least 16 characters")
		}
	case "basic":
		if c.Security.AdminUsername == "" || c.Security.AdminPassword == "" {
			return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required when AUTH_MODE=basic")
		}
		if len(c.Security.AdminPassword) < 8 {
			return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
		}
	}

	if !c.Security.RateLimitDisabled && c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive unless RATE_LIMIT_DISABLED=true")
	}
	if c.Security.PollRateLimitReqs <= 0 {
		return fmt.Errorf("POLL_RATE_LIMIT_REQUESTS must be positive")
	}

	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.URL == "" && !c.NATS.EmbeddedServer {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true and NATS_EMBEDDED=false")
	}
	if c.NATS.StreamName == "" {
		return fmt.Errorf("NATS_STREAM_NAME is required when NATS_ENABLED=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}
