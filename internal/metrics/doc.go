// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - Display poll latency and throughput
  - Operator API request latency and throughput
  - Catalog/scheduling store query performance
  - Timeline engine operations (populate, rollover, mark_played)
  - Catalog search duration and count cache hit rate
  - Command queue depth
  - Circuit breaker state transitions (catalog store access)
  - Ops feed WebSocket connections

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'wallreel'
	    static_configs:
	      - targets: ['localhost:8080']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

Example PromQL queries:

	# Poll p95 latency
	histogram_quantile(0.95, rate(poll_request_duration_seconds_bucket[5m]))

	# Catalog count cache hit rate
	sum(rate(catalog_count_cache_hits_total[5m])) /
	  (sum(rate(catalog_count_cache_hits_total[5m])) + sum(rate(catalog_count_cache_misses_total[5m])))

	# Timeline rollovers per hour
	rate(timeline_rollovers_total[1h]) * 3600

# Cardinality Management

Display-id labels are bounded by the number of registered displays, which is
expected to stay in the tens to low hundreds for a deployment. The endpoint
label set by middleware.PrometheusMetrics is the raw request path
(r.URL.Path), so paths that embed ids each form their own series.

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/catalog: catalog search, count cache and circuit breaker metrics
  - internal/scheduler: timeline engine and command queue metrics
*/
package metrics
