// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package api

import (
	"net/http"

	"github.com/wallreel/scheduler/internal/database"
	mw "github.com/wallreel/scheduler/internal/middleware"
)

// HealthHandlers reports liveness/readiness for the two DuckDB-backed
// stores that back the whole scheduler, plus a rolling view of in-process
// request latency.
type HealthHandlers struct {
	catalog    *database.CatalogStore
	scheduling *database.SchedulingStore
	perf       *mw.PerformanceMonitor
}

// NewHealthHandlers wires the handler to both stores and the shared
// performance monitor the router's middleware stack feeds.
func NewHealthHandlers(catalog *database.CatalogStore, scheduling *database.SchedulingStore, perf *mw.PerformanceMonitor) *HealthHandlers {
	return &HealthHandlers{catalog: catalog, scheduling: scheduling, perf: perf}
}

// Live handles GET /healthz: process is up, no dependency checks.
func (h *HealthHandlers) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}

// Ready handles GET /readyz: both stores must answer a trivial query.
func (h *HealthHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.catalog.Ping(r.Context()); err != nil {
		rw.ServiceUnavailable("catalog store unavailable: " + err.Error())
		return
	}
	if err := h.scheduling.Ping(r.Context()); err != nil {
		rw.ServiceUnavailable("scheduling store unavailable: " + err.Error())
		return
	}
	rw.Success(map[string]string{"status": "ok"})
}

// Performance handles GET /ops/performance: per-endpoint latency
// percentiles from the in-process sliding window, for operator dashboards
// that want more than Prometheus scrape-interval granularity.
func (h *HealthHandlers) Performance(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.perf.GetStats())
}
