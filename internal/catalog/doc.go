// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package catalog implements the Catalog Search Service (spec.md §4.1,
// Component C3): it translates a (term, count, mode, orientation,
// exclude-set) request into a deterministic list of Video Records, fronted
// by a TTL count cache and a circuit breaker over the underlying
// CatalogStore so a slow or unavailable catalog degrades the poll path
// instead of blocking it.
package catalog
