package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reviewsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_created_total",
			Help: "Total number of reviews successfully created",
		},
	)

	ratingIncrementFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rating_increment_failures_total",
			Help: "Reviews persisted whose rating counter increment failed",
		},
	)

	summaryCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_summary_cache_requests_total",
			Help: "Rating summary cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)
