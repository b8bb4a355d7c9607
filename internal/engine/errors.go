// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package engine

import "errors"

// Sentinel errors distinguishing engine failure modes. Handlers map these to
// HTTP status codes; an empty recommendation result is NOT an error.
var (
	// ErrAnalysisUnavailable indicates the completion service failed or
	// returned an unusable mood analysis.
	ErrAnalysisUnavailable = errors.New("mood analysis unavailable")

	// ErrTitleNotFound indicates the catalog could not resolve the title.
	ErrTitleNotFound = errors.New("title not found in catalog")

	// ErrQuotaExceeded indicates the monthly replacement quota is spent.
	ErrQuotaExceeded = errors.New("monthly replacement quota exceeded")

	// ErrNoValidMovies indicates no replacement candidate survived
	// resolution and exclusion filtering.
	ErrNoValidMovies = errors.New("no valid replacement candidates")

	// ErrNoSuggestions indicates the completion service produced no
	// candidate titles at all.
	ErrNoSuggestions = errors.New("completion service returned no suggestions")
)
