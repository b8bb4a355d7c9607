// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

// Package metrics provides Prometheus instrumentation for FilmTrack.
//
// Instrumented surfaces:
//   - Completion-service (LLM) analysis calls and failures
//   - Fingerprint cache hit/miss rates
//   - Profile recomputation latency
//   - Curation pipeline latency and candidate resolution outcomes
//   - Recommendation cache efficiency
//   - Feedback actions and replacement quota denials
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysisCalls counts mood analysis requests to the completion service.
	AnalysisCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmtrack_analysis_calls_total",
			Help: "Total number of mood analysis calls to the completion service",
		},
		[]string{"outcome"}, // "ok", "unavailable", "unparsable"
	)

	// AnalysisDuration tracks how long a single title analysis takes.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmtrack_analysis_duration_seconds",
			Help:    "Duration of a single title mood analysis in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FingerprintCacheHits counts AnalyzedTitle cache hits.
	FingerprintCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmtrack_fingerprint_cache_hits_total",
			Help: "Total number of fingerprint cache hits (no re-analysis needed)",
		},
	)

	// FingerprintCacheMisses counts AnalyzedTitle cache misses.
	FingerprintCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmtrack_fingerprint_cache_misses_total",
			Help: "Total number of fingerprint cache misses (analysis triggered)",
		},
	)

	// ProfileRecomputations counts user mood profile recomputations.
	ProfileRecomputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmtrack_profile_recomputations_total",
			Help: "Total number of user mood profile recomputations",
		},
	)

	// ProfileDuration tracks profile recomputation latency.
	ProfileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmtrack_profile_duration_seconds",
			Help:    "Duration of user mood profile recomputation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CurationDuration tracks end-to-end curation pipeline latency per mode.
	CurationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmtrack_curation_duration_seconds",
			Help:    "Duration of the curation pipeline in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"mode"}, // "match", "shift"
	)

	// CandidateResolutions counts per-candidate resolution outcomes.
	CandidateResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmtrack_candidate_resolutions_total",
			Help: "Total number of curated candidate resolution attempts",
		},
		[]string{"outcome"}, // "resolved", "excluded", "not_found", "error"
	)

	// RecommendationCacheHits counts served-from-cache recommendation sets.
	RecommendationCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmtrack_recommendation_cache_hits_total",
			Help: "Total number of recommendation requests served from cache",
		},
		[]string{"mode"},
	)

	// RecommendationCacheMisses counts regenerated recommendation sets.
	RecommendationCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmtrack_recommendation_cache_misses_total",
			Help: "Total number of recommendation requests requiring regeneration",
		},
		[]string{"mode"},
	)

	// FeedbackActions counts like and dislike submissions.
	FeedbackActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmtrack_feedback_actions_total",
			Help: "Total number of feedback actions applied to user profiles",
		},
		[]string{"action"}, // "like", "dislike"
	)

	// QuotaDenials counts replacement requests rejected for exhausted quota.
	QuotaDenials = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmtrack_quota_denials_total",
			Help: "Total number of replacement requests denied by the monthly quota",
		},
	)

	// CircuitBreakerState tracks external client breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filmtrack_circuit_breaker_state",
			Help: "Circuit breaker state per external client (0=closed, 1=half-open, 2=open)",
		},
		[]string{"client"},
	)

	// HTTPRequestDuration tracks API endpoint latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmtrack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// StoreOperations counts document store operations by collection.
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmtrack_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"collection", "operation"},
	)
)
