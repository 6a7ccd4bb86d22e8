// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

//go:build !nats

package eventprocessor

import (
	"context"

	"github.com/wallreel/scheduler/internal/config"
	"github.com/wallreel/scheduler/internal/logging"
)

// Publisher is the no-op stand-in used in builds without the "nats" tag.
// NewPublisher always returns nil, nil so callers treat the event bus as
// disabled without a build-tag-conditional call site.
type Publisher struct{}

// NewPublisher logs and returns nil when cfg.Enabled, since this build
// was not compiled with NATS support.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	if cfg.Enabled {
		logging.Warn().Msg("event bus requested (NATS_ENABLED=true) but this binary was built without the \"nats\" tag; publishing is disabled")
	}
	return nil, nil
}

// Publish is unreachable; NewPublisher never returns a non-nil Publisher
// in this build.
func (p *Publisher) Publish(ctx context.Context, event Event) error { return nil }

// Close is unreachable for the same reason.
func (p *Publisher) Close() error { return nil }
