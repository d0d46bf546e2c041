package view

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	menuOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menuboard_menu_operations_total",
			Help: "Menu fetch and save operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "menuboard_active_sessions",
			Help: "Number of page sessions currently held in memory",
		},
	)

	sessionEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "menuboard_session_evictions_total",
			Help: "Sessions dropped to stay under the session limit",
		},
	)
)
