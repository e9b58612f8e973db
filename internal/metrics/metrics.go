// Package metrics declares the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshTotal counts inventory refreshes by result (applied, stale, error).
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appviz_refresh_total",
		Help: "Inventory refreshes by result",
	}, []string{"result"})

	// RefreshDuration tracks how long a fetch takes.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "appviz_refresh_duration_seconds",
		Help:    "Inventory fetch duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	// GraphNodes is the node count of the last build, by group.
	GraphNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "appviz_graph_nodes",
		Help: "Nodes in the current topology graph by group",
	}, []string{"group"})

	// LaunchTotal counts diagnostic launches by result (success, error, rejected).
	LaunchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appviz_diagnostic_launch_total",
		Help: "Diagnostic command launches by result",
	}, []string{"result"})

	// RulesReloadTotal counts rule table reloads by result.
	RulesReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "appviz_rules_reload_total",
		Help: "Diagnostic rule table reloads by result",
	}, []string{"result"})
)
