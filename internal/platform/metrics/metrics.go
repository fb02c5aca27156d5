// Package metrics provides observability for the arena server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Match metrics
	MatchCount      int64
	MatchLatencySum int64 // nanoseconds
	MatchLatencyMax int64
	RoundsSimulated int64
	LastMatchTime   time.Time

	// Event metrics
	EventsWritten    int64
	EventWriteLatSum int64
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// Run metrics
	RunsCompleted int64
	RunsFailed    int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordMatch records a completed match.
func (c *Collector) RecordMatch(rounds int, latency time.Duration) {
	atomic.AddInt64(&c.MatchCount, 1)
	atomic.AddInt64(&c.RoundsSimulated, int64(rounds))
	atomic.AddInt64(&c.MatchLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.MatchLatencyMax) {
		atomic.StoreInt64(&c.MatchLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastMatchTime = time.Now()
	c.mu.Unlock()
}

// RecordEventWrite records an event write to the database.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.EventWriteLatMax) {
		atomic.StoreInt64(&c.EventWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordRun records a finished tournament run.
func (c *Collector) RecordRun(err error) {
	if err != nil {
		atomic.AddInt64(&c.RunsFailed, 1)
		return
	}
	atomic.AddInt64(&c.RunsCompleted, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matchCount := atomic.LoadInt64(&c.MatchCount)
	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	// Calculate averages
	var matchAvg, eventAvg float64
	if matchCount > 0 {
		matchAvg = float64(atomic.LoadInt64(&c.MatchLatencySum)) / float64(matchCount) / 1e6 // ms
	}
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"matches": map[string]interface{}{
			"count":            matchCount,
			"rounds_simulated": atomic.LoadInt64(&c.RoundsSimulated),
			"avg_latency_ms":   matchAvg,
			"max_latency_ms":   float64(atomic.LoadInt64(&c.MatchLatencyMax)) / 1e6,
			"last_match":       c.LastMatchTime.Format(time.RFC3339),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"runs": map[string]interface{}{
			"completed": atomic.LoadInt64(&c.RunsCompleted),
			"failed":    atomic.LoadInt64(&c.RunsFailed),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		// Match metrics
		fmt.Fprintf(w, "# HELP torneo_match_count Total matches played\n")
		fmt.Fprintf(w, "# TYPE torneo_match_count counter\n")
		fmt.Fprintf(w, "torneo_match_count %d\n\n", atomic.LoadInt64(&c.MatchCount))

		fmt.Fprintf(w, "# HELP torneo_rounds_simulated Total rounds simulated\n")
		fmt.Fprintf(w, "# TYPE torneo_rounds_simulated counter\n")
		fmt.Fprintf(w, "torneo_rounds_simulated %d\n\n", atomic.LoadInt64(&c.RoundsSimulated))

		fmt.Fprintf(w, "# HELP torneo_match_latency_max_ms Maximum match latency\n")
		fmt.Fprintf(w, "# TYPE torneo_match_latency_max_ms gauge\n")
		fmt.Fprintf(w, "torneo_match_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.MatchLatencyMax))/1e6)

		// Event metrics
		fmt.Fprintf(w, "# HELP torneo_events_written Total events written\n")
		fmt.Fprintf(w, "# TYPE torneo_events_written counter\n")
		fmt.Fprintf(w, "torneo_events_written %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP torneo_event_write_errors Total event write errors\n")
		fmt.Fprintf(w, "# TYPE torneo_event_write_errors counter\n")
		fmt.Fprintf(w, "torneo_event_write_errors %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP torneo_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE torneo_ws_connections gauge\n")
		fmt.Fprintf(w, "torneo_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP torneo_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE torneo_ws_messages_total counter\n")
		fmt.Fprintf(w, "torneo_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "torneo_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		// Run metrics
		fmt.Fprintf(w, "# HELP torneo_runs_total Total tournament runs\n")
		fmt.Fprintf(w, "# TYPE torneo_runs_total counter\n")
		fmt.Fprintf(w, "torneo_runs_total{status=\"completed\"} %d\n", atomic.LoadInt64(&c.RunsCompleted))
		fmt.Fprintf(w, "torneo_runs_total{status=\"failed\"} %d\n", atomic.LoadInt64(&c.RunsFailed))
	}
}
