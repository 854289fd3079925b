// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Prometheus metrics of the logging pipeline.

// Package metrics implements the ils metrics API.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/getoutreach/ilslog/pkg/orerr"
	"github.com/getoutreach/ilslog/pkg/statuscodes"
)

// Drop reasons.
const (
	DropWriteFailed = "write_failed"
	DropPanic       = "panic"
	DropNotStarted  = "not_started"
	DropUnavailable = "unavailable"
)

// nolint:gochecknoglobals
var (
	eventsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ils_events_appended_total",
			Help: "The number of events written by an appender",
		},
		[]string{"appender"},
	)

	eventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ils_events_dropped_total",
			Help: "The number of events an appender failed to write",
		},
		[]string{"appender", "reason"},
	)

	crashFlushes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ils_crash_flushes_total",
			Help: "The number of crash buffer flushes",
		},
	)

	crashFlushedEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ils_crash_flushed_events_total",
			Help: "The number of events forwarded by crash buffer flushes",
		},
	)

	insertLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ils_db_insert_seconds",
			Help: "The latency of a log row insert, in seconds",
			// use prometheus.DefBuckets which is
			// []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
		},
		[]string{"driver", "status"},
	)

	rowsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ils_rows_purged_total",
			Help: "The number of log rows deleted after their retention ended",
		},
	)

	rpcLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ils_rpc_request_seconds",
			Help: "The latency of an rpc call, in seconds",
		},
		[]string{"method", "side", "status", "statuscode", "statuscategory"},
	)
)

// ReportAppended counts an event written by appender.
func ReportAppended(appender string) {
	eventsAppended.WithLabelValues(appender).Inc()
}

// ReportDropped counts an event appender failed to write.
func ReportDropped(appender, reason string) {
	eventsDropped.WithLabelValues(appender, reason).Inc()
}

// ReportCrashFlush counts a crash flush that forwarded n events.
func ReportCrashFlush(n int) {
	crashFlushes.Inc()
	crashFlushedEvents.Add(float64(n))
}

// ReportInsertLatency reports the latency of a row insert.
func ReportInsertLatency(driver string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	insertLatency.WithLabelValues(driver, status).Observe(d.Seconds())
}

// ReportPurged counts n purged rows.
func ReportPurged(n int64) {
	rowsPurged.Add(float64(n))
}

// Side tells which end of an rpc call reported its latency.
type Side string

const (
	SideServer Side = "server"
	SideClient Side = "client"
)

// ReportRPCLatency reports the latency of an rpc call.
func ReportRPCLatency(method string, side Side, d time.Duration, err error) {
	statusCode := orerr.ExtractErrorStatusCode(err)

	statusStr := "ok"
	if statusCode != statuscodes.OK {
		statusStr = "error"
	}

	rpcLatency.WithLabelValues(method, string(side), strings.ToLower(statusStr), statusCode.String(), statusCode.Category().String()).Observe(d.Seconds())
}
