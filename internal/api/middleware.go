// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/YldzBerkay/film-track-be-sub000/internal/metrics"
)

// prometheusMetrics records request duration per method, route pattern, and
// status. The chi route pattern keeps label cardinality bounded regardless of
// path parameters.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method, pattern, strconv.Itoa(ww.Status()),
		).Observe(time.Since(start).Seconds())
	})
}
