// Package metrics provides Prometheus metrics for ReCircle: counters and
// histograms for XP awards, logins, reports, recycling, and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Gamification ───────────────────────────────────────────────────────────

// XPAwarded tracks XP credited, labeled by event kind.
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recircle",
	Name:      "xp_awarded_total",
	Help:      "Total XP credited to users.",
}, []string{"kind"})

// Logins tracks accepted daily-login events.
var Logins = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "recircle",
	Name:      "logins_total",
	Help:      "Total accepted login events.",
})

// ReportsFiled tracks filed location reports.
var ReportsFiled = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "recircle",
	Name:      "reports_filed_total",
	Help:      "Total location reports filed.",
})

// ItemsRecycled tracks recycled item counts by material.
var ItemsRecycled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recircle",
	Name:      "items_recycled_total",
	Help:      "Total recycled items by material.",
}, []string{"material"})

// ─── API ────────────────────────────────────────────────────────────────────

// RequestDuration tracks HTTP handler latency by route.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "recircle",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request duration in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route"})

// RequestErrors tracks HTTP error responses by route and status.
var RequestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recircle",
	Name:      "http_request_errors_total",
	Help:      "Total HTTP error responses.",
}, []string{"route", "status"})

// ─── Store ──────────────────────────────────────────────────────────────────

// StoreErrors tracks failed reads/writes against the backing store.
var StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recircle",
	Name:      "store_errors_total",
	Help:      "Total store operation failures.",
}, []string{"op"})
