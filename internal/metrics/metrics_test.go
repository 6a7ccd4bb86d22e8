// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordStoreQuery(t *testing.T) {
	tests := []struct {
		name      string
		store     string
		operation string
		duration  time.Duration
		err       error
	}{
		{"successful catalog select", "catalog", "select", 10 * time.Millisecond, nil},
		{"successful scheduling insert", "scheduling", "insert", 5 * time.Millisecond, nil},
		{"failed query with short error", "scheduling", "update", 100 * time.Millisecond, errors.New("connection refused")},
		{
			"failed query with long error truncates to 50 chars",
			"catalog", "select", 50 * time.Millisecond,
			errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordStoreQuery(tt.store, tt.operation, tt.duration, tt.err)
		})
	}
}

func TestRecordStoreQuery_ErrorTruncation(t *testing.T) {
	err50 := errors.New(strings.Repeat("a", 50))
	RecordStoreQuery("catalog", "select", time.Millisecond, err50)

	err100 := errors.New(strings.Repeat("c", 100))
	RecordStoreQuery("catalog", "select", time.Millisecond, err100)

	errShort := errors.New("err")
	RecordStoreQuery("catalog", "select", time.Millisecond, errShort)
}

func TestRecordPollRequest(t *testing.T) {
	tests := []struct {
		name       string
		displayID  string
		statusCode string
		duration   time.Duration
	}{
		{"successful poll", "lobby-1", "200", 5 * time.Millisecond},
		{"unknown display", "ghost-9", "404", 1 * time.Millisecond},
		{"rate limited poll", "lobby-1", "429", 1 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordPollRequest(tt.displayID, tt.statusCode, tt.duration)
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{"successful GET list displays", "GET", "/displays", "200", 25 * time.Millisecond},
		{"successful POST activate playlist", "POST", "/displays/{id}/playlists/{pid}/activate", "200", 15 * time.Millisecond},
		{"unauthorized request", "GET", "/displays", "401", 5 * time.Millisecond},
		{"not found request", "GET", "/displays/unknown", "404", 2 * time.Millisecond},
		{"internal server error", "POST", "/displays/{id}/commands", "500", 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	TrackActiveRequest(true)
	TrackActiveRequest(false)
}

func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	for i := 0; i < 10; i++ {
		TrackActiveRequest(true)
	}
	for i := 0; i < 5; i++ {
		TrackActiveRequest(false)
	}
	for i := 0; i < 3; i++ {
		TrackActiveRequest(true)
	}
	for i := 0; i < 8; i++ {
		TrackActiveRequest(false)
	}
}

func TestRecordTimelinePopulate(t *testing.T) {
	RecordTimelinePopulate(200*time.Millisecond, 12)
	RecordTimelinePopulate(10*time.Millisecond, 0)
}

func TestRecordTimelineRollover(t *testing.T) {
	RecordTimelineRollover("lobby-1")
	RecordTimelineRollover("lobby-2")
}

func TestRecordMarkPlayed(t *testing.T) {
	RecordMarkPlayed("lobby-1", true)
	RecordMarkPlayed("lobby-1", false)
}

func TestRecordCatalogSearch(t *testing.T) {
	RecordCatalogSearch("newest", 5*time.Millisecond)
	RecordCatalogSearch("random", 8*time.Millisecond)
}

func TestCatalogCacheMetrics(t *testing.T) {
	RecordCatalogCacheHit()
	RecordCatalogCacheMiss()
}

func TestUpdateCommandQueueDepth(t *testing.T) {
	UpdateCommandQueueDepth("lobby-1", 3)
	UpdateCommandQueueDepth("lobby-1", 0)
}

func TestRecordCommandEnqueued(t *testing.T) {
	RecordCommandEnqueued("lobby-1", "refresh")
	RecordCommandEnqueued("lobby-1", "reload")
}

func TestRecordCommandsDrained(t *testing.T) {
	RecordCommandsDrained("lobby-1", 2)
	RecordCommandsDrained("lobby-1", 0)
}

func TestRecordEventBusPublish(t *testing.T) {
	RecordEventBusPublish(nil)
	RecordEventBusPublish(errors.New("nats: no responders"))
}

func TestCircuitBreakerMetrics(t *testing.T) {
	cbName := "catalog-store"

	CircuitBreakerState.WithLabelValues(cbName).Set(0)
	CircuitBreakerState.WithLabelValues(cbName).Set(2)
	CircuitBreakerState.WithLabelValues(cbName).Set(1)

	CircuitBreakerRequests.WithLabelValues(cbName, "success").Inc()
	CircuitBreakerRequests.WithLabelValues(cbName, "failure").Inc()
	CircuitBreakerRequests.WithLabelValues(cbName, "rejected").Inc()

	CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open").Inc()
	CircuitBreakerTransitions.WithLabelValues(cbName, "open", "half-open").Inc()
	CircuitBreakerTransitions.WithLabelValues(cbName, "half-open", "closed").Inc()
}

func TestWebSocketMetrics(t *testing.T) {
	WSConnections.Set(10)
	WSConnections.Inc()
	WSConnections.Dec()

	WSMessagesSent.Add(100)

	WSErrors.WithLabelValues("connection_closed").Inc()
	WSErrors.WithLabelValues("write_timeout").Inc()
}

func TestAppMetrics(t *testing.T) {
	AppInfo.WithLabelValues("1.0.0", "go1.25.5").Set(1)
	AppUptime.Set(3600)
	AppUptime.Add(60)
}

func TestAPIRateLimitHits(t *testing.T) {
	endpoints := []string{"/displays", "/poll/{display_id}", "/displays/{id}/commands"}
	for _, endpoint := range endpoints {
		APIRateLimitHits.WithLabelValues(endpoint).Inc()
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 100
	operationsPerGoroutine := 50

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordStoreQuery("catalog", "select", time.Duration(j)*time.Millisecond, nil)
			}
		}()
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordAPIRequest("GET", "/displays", "200", time.Duration(j)*time.Millisecond)
			}
		}()
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordMarkPlayed("lobby-1", j%2 == 0)
			}
		}(i)
	}

	wg.Wait()
}

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		StoreQueryDuration,
		StoreQueryErrors,
		StoreConnectionPoolSize,
		PollRequestsTotal,
		PollRequestDuration,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		TimelinePopulateDuration,
		TimelineBlocksPopulated,
		TimelineRolloversTotal,
		TimelineMarkPlayedTotal,
		CatalogSearchDuration,
		CatalogCacheHits,
		CatalogCacheMisses,
		CommandQueueDepth,
		CommandsEnqueuedTotal,
		CommandsDrainedTotal,
		WSConnections,
		WSMessagesSent,
		WSErrors,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerTransitions,
		EventBusMessagesPublished,
		EventBusPublishErrors,
		AppInfo,
		AppUptime,
	}

	for _, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("metric has no descriptors")
		}
	}
}

func TestMetricGathering(t *testing.T) {
	RecordStoreQuery("catalog", "select", time.Millisecond, nil)
	RecordAPIRequest("GET", "/displays", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("metric lint problem: %s", p.Text)
	}
}

func BenchmarkRecordStoreQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordStoreQuery("catalog", "select", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/displays", "200", 25*time.Millisecond)
	}
}

func BenchmarkTrackActiveRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TrackActiveRequest(true)
		TrackActiveRequest(false)
	}
}
