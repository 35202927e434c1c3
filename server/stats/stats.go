// Package stats keeps lightweight in-memory usage counters for a single
// instance. It is not a metrics pipeline; it answers "is anyone using this"
// without external dependencies.
package stats

import (
	"sync/atomic"
	"time"
)

// Stats is one point-in-time snapshot of the instance counters.
type Stats struct {
	TotalRequests    int64 `json:"total_requests"`
	GraphSessions    int64 `json:"graph_sessions"`
	AIQueries        int64 `json:"ai_queries"`
	StartedTs        int64 `json:"started_ts"`
	UptimeSeconds    int64 `json:"uptime_seconds"`
	LastActivityTs   int64 `json:"last_activity_ts"`
}

// Collector accumulates usage counters. All methods are safe for concurrent
// use from request handlers.
type Collector struct {
	startedTs      int64
	totalRequests  atomic.Int64
	graphSessions  atomic.Int64
	aiQueries      atomic.Int64
	lastActivityTs atomic.Int64
}

// NewCollector creates a collector anchored at the current time.
func NewCollector() *Collector {
	return &Collector{startedTs: time.Now().Unix()}
}

// RecordRequest counts one API request.
func (c *Collector) RecordRequest() {
	c.totalRequests.Add(1)
	c.lastActivityTs.Store(time.Now().Unix())
}

// RecordGraphSession counts one created layout session.
func (c *Collector) RecordGraphSession() {
	c.graphSessions.Add(1)
}

// RecordAIQuery counts one chat or analysis call.
func (c *Collector) RecordAIQuery() {
	c.aiQueries.Add(1)
}

// Snapshot returns the current counters.
func (c *Collector) Snapshot() *Stats {
	return &Stats{
		TotalRequests:  c.totalRequests.Load(),
		GraphSessions:  c.graphSessions.Load(),
		AIQueries:      c.aiQueries.Load(),
		StartedTs:      c.startedTs,
		UptimeSeconds:  time.Now().Unix() - c.startedTs,
		LastActivityTs: c.lastActivityTs.Load(),
	}
}
