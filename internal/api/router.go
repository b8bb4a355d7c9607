// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YldzBerkay/film-track-be-sub000/internal/config"
)

// NewRouter assembles the chi router with the standard middleware stack and
// every API route.
func NewRouter(s *Server, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.WriteTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if cfg.RateLimitReqs > 0 {
		window := cfg.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, window))
	}
	r.Use(prometheusMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/health/live", s.handleLive)
		r.Get("/health/ready", s.handleReady)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/mood", s.handleUserMood)
			r.Get("/mood/history", s.handleMoodHistory)
			r.Get("/recommendations", s.handleRecommendations)
			r.Post("/feedback", s.handleFeedback)
			r.Post("/replacement", s.handleReplacement)
		})

		r.Post("/titles/analyze", s.handleAnalyzeTitle)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
