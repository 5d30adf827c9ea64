package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safestreet_reports_submitted_total",
			Help: "Total hazard reports accepted and persisted",
		},
	)

	ReportsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safestreet_reports_rejected_total",
			Help: "Total hazard reports rejected by validation",
		},
	)

	HazardQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safestreet_hazard_queries_total",
			Help: "Total hazard lookup queries served",
		},
	)

	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safestreet_predictions_total",
			Help: "Total risk predictions served",
		},
		[]string{"should_avoid"},
	)
)
