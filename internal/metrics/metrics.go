// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Scheduling/catalog store query performance (DuckDB)
// - Poll endpoint latency and throughput
// - Timeline engine operations (populate, rollover, mark_played)
// - Catalog search and count cache efficiency
// - Circuit breaker state for catalog access
// - Command queue depth
// - Ops feed WebSocket connections

var (
	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"}, // store: "catalog", "scheduling"
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of store query errors",
		},
		[]string{"store", "operation", "error_type"},
	)

	StoreConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// Poll Endpoint Metrics
	PollRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_requests_total",
			Help: "Total number of display poll requests",
		},
		[]string{"display_id", "status_code"},
	)

	PollRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poll_request_duration_seconds",
			Help:    "Poll request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"display_id"},
	)

	// General API Metrics (operator endpoints)
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of operator API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Timeline Engine Metrics
	TimelinePopulateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "timeline_populate_duration_seconds",
			Help:    "Duration of timeline populate operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TimelineBlocksPopulated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timeline_blocks_populated_total",
			Help: "Total number of playlist blocks populated into a timeline",
		},
	)

	TimelineRolloversTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_rollovers_total",
			Help: "Total number of timeline rollovers (loop completions)",
		},
		[]string{"display_id"},
	)

	TimelineMarkPlayedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timeline_mark_played_total",
			Help: "Total number of mark_played calls, by outcome",
		},
		[]string{"display_id", "outcome"}, // outcome: "advanced", "duplicate_ignored"
	)

	// Catalog Search Metrics
	CatalogSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_search_duration_seconds",
			Help:    "Duration of catalog search queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"fetch_mode"}, // "newest", "random"
	)

	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_count_cache_hits_total",
			Help: "Total number of catalog count cache hits",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_count_cache_misses_total",
			Help: "Total number of catalog count cache misses",
		},
	)

	// Command Queue Metrics
	CommandQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "command_queue_depth",
			Help: "Current number of pending commands per display",
		},
		[]string{"display_id"},
	)

	CommandsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commands_enqueued_total",
			Help: "Total number of commands enqueued",
		},
		[]string{"display_id", "command_type"},
	)

	CommandsDrainedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commands_drained_total",
			Help: "Total number of commands drained by a poll",
		},
		[]string{"display_id"},
	)

	// WebSocket (ops feed) Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active ops feed WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of ops feed WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics (catalog store access)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics (optional, nats build tag)
	EventBusMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventbus_messages_published_total",
			Help: "Total number of ops events published to the event bus",
		},
	)

	EventBusPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventbus_publish_errors_total",
			Help: "Total number of event bus publish failures",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordStoreQuery records a store query metric.
func RecordStoreQuery(store, operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		StoreQueryErrors.WithLabelValues(store, operation, errorType).Inc()
	}
}

// RecordPollRequest records a display poll request metric.
func RecordPollRequest(displayID, statusCode string, duration time.Duration) {
	PollRequestsTotal.WithLabelValues(displayID, statusCode).Inc()
	PollRequestDuration.WithLabelValues(displayID).Observe(duration.Seconds())
}

// RecordAPIRequest records an operator API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTimelinePopulate records a timeline populate operation.
func RecordTimelinePopulate(duration time.Duration, blocksPopulated int) {
	TimelinePopulateDuration.Observe(duration.Seconds())
	TimelineBlocksPopulated.Add(float64(blocksPopulated))
}

// RecordTimelineRollover records a timeline loop rollover for a display.
func RecordTimelineRollover(displayID string) {
	TimelineRolloversTotal.WithLabelValues(displayID).Inc()
}

// RecordMarkPlayed records the outcome of a mark_played call.
func RecordMarkPlayed(displayID string, advanced bool) {
	outcome := "advanced"
	if !advanced {
		outcome = "duplicate_ignored"
	}
	TimelineMarkPlayedTotal.WithLabelValues(displayID, outcome).Inc()
}

// RecordCatalogSearch records a catalog search query's duration.
func RecordCatalogSearch(fetchMode string, duration time.Duration) {
	CatalogSearchDuration.WithLabelValues(fetchMode).Observe(duration.Seconds())
}

// RecordCatalogCacheHit records a catalog count cache hit.
func RecordCatalogCacheHit() {
	CatalogCacheHits.Inc()
}

// RecordCatalogCacheMiss records a catalog count cache miss.
func RecordCatalogCacheMiss() {
	CatalogCacheMisses.Inc()
}

// UpdateCommandQueueDepth updates the command queue depth gauge for a display.
func UpdateCommandQueueDepth(displayID string, depth int) {
	CommandQueueDepth.WithLabelValues(displayID).Set(float64(depth))
}

// RecordCommandEnqueued records a command being enqueued.
func RecordCommandEnqueued(displayID, commandType string) {
	CommandsEnqueuedTotal.WithLabelValues(displayID, commandType).Inc()
}

// RecordCommandsDrained records commands being drained by a poll.
func RecordCommandsDrained(displayID string, count int) {
	CommandsDrainedTotal.WithLabelValues(displayID).Add(float64(count))
}

// RecordEventBusPublish records an ops event publish attempt.
func RecordEventBusPublish(err error) {
	if err != nil {
		EventBusPublishErrors.Inc()
		return
	}
	EventBusMessagesPublished.Inc()
}
