package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Spotify API Metrics
var (
	// SpotifyRequestsTotal tracks outgoing Spotify API requests by operation and status
	SpotifyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotify_requests_total",
			Help: "Total Spotify API requests by operation and status",
		},
		[]string{"operation", "status"},
	)

	// SpotifyRequestDuration tracks Spotify API request latency in seconds
	SpotifyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spotify_request_duration_seconds",
			Help:    "Spotify API request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// TokenRefreshesTotal tracks access token refreshes by outcome
	TokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refreshes_total",
			Help: "Total Spotify token refreshes by outcome (success/failed/revoked)",
		},
		[]string{"outcome"},
	)
)

// Roast Metrics
var (
	// RoastsGeneratedTotal tracks generated roasts by category and source
	RoastsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roasts_generated_total",
			Help: "Total roasts generated by category and source (model/fallback)",
		},
		[]string{"category", "source"},
	)

	// RoastGenerationDuration tracks end-to-end roast generation latency in seconds
	RoastGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roast_generation_duration_seconds",
			Help:    "End-to-end roast generation duration in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	// ModelFallbacksTotal tracks roasts that fell back to templates after a model failure
	ModelFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roast_model_fallbacks_total",
			Help: "Roasts served from templates after the model call failed",
		},
	)
)

// Auth Metrics
var (
	// LoginsTotal tracks completed OAuth logins by result
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Completed OAuth callback flows by result (success/state_mismatch/exchange_failed)",
		},
		[]string{"result"},
	)
)
