// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package models

import "time"

// APIResponse is the standard envelope for every API response.
type APIResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data carries the payload on success.
	Data interface{} `json:"data,omitempty"`

	// Metadata carries timing information.
	Metadata Metadata `json:"metadata"`

	// Error carries error details when Status is "error".
	Error *APIError `json:"error,omitempty"`
}

// Metadata carries response timing information.
type Metadata struct {
	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is the server-side processing time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms,omitempty"`
}

// APIError describes an API-level failure.
type APIError struct {
	// Code is a stable machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}
