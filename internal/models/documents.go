// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

// Package models defines the persistent document types shared between the
// store, the engine, and the API layer.
package models

import (
	"time"

	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
)

// MediaKind identifies the catalog media type of a title.
type MediaKind string

const (
	// MediaMovie is a feature film.
	MediaMovie MediaKind = "movie"
	// MediaSeries is an episodic series.
	MediaSeries MediaKind = "series"
)

// Valid reports whether the media kind is one the engine understands.
func (k MediaKind) Valid() bool {
	return k == MediaMovie || k == MediaSeries
}

// TitleMetadata is the display metadata of a title in one language.
type TitleMetadata struct {
	// Title is the localized display title.
	Title string `json:"title"`

	// Overview is the localized synopsis.
	Overview string `json:"overview"`

	// PosterPath is the poster image reference.
	PosterPath string `json:"poster_path,omitempty"`
}

// AnalyzedTitle is a catalog title with its analyzed mood fingerprint.
//
// The record is created on first resolution of a title and owned by the
// fingerprint cache: all writes go through the store's atomic upsert keyed by
// (CatalogID, Kind), so concurrent resolution of the same title converges to
// a single record. The MoodVector is set once and only overwritten by an
// explicit re-analysis.
type AnalyzedTitle struct {
	// CatalogID is the canonical catalog identifier.
	CatalogID int `json:"catalog_id"`

	// Kind is the media kind (movie or series).
	Kind MediaKind `json:"kind"`

	// Title is the canonical display title.
	Title string `json:"title"`

	// Overview is the canonical synopsis.
	Overview string `json:"overview,omitempty"`

	// PosterPath is the poster image reference.
	PosterPath string `json:"poster_path,omitempty"`

	// Genres is the catalog genre list.
	Genres []string `json:"genres,omitempty"`

	// ReleaseDate is the catalog release date (YYYY-MM-DD).
	ReleaseDate string `json:"release_date,omitempty"`

	// Vector is the analyzed mood fingerprint.
	Vector mood.Vector `json:"vector"`

	// Translations caches localized display metadata per language code.
	// Entries are fetched lazily and replaced per-code on force refresh.
	Translations map[string]TitleMetadata `json:"translations,omitempty"`

	// AnalyzedAt is when the mood vector was computed.
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Localized returns the display metadata for the given language code, falling
// back to the canonical metadata when no cached variant exists. The second
// return reports whether the requested variant was present.
func (t *AnalyzedTitle) Localized(language string) (TitleMetadata, bool) {
	if language != "" {
		if meta, ok := t.Translations[language]; ok {
			return meta, true
		}
	}
	return TitleMetadata{Title: t.Title, Overview: t.Overview, PosterPath: t.PosterPath}, language == ""
}

// WatchEntry is one rated watch-history record consumed by the profile
// engine. The watch-history collaborator owns the full record; the engine
// only reads the fields below.
type WatchEntry struct {
	// UserID identifies the owner of the entry.
	UserID string `json:"user_id"`

	// CatalogID is the catalog identifier of the watched title.
	CatalogID int `json:"catalog_id"`

	// Kind is the media kind of the watched title.
	Kind MediaKind `json:"kind"`

	// Title is the display title at watch time.
	Title string `json:"title"`

	// Rating is the 1-5 star rating; 0 means unrated.
	Rating int `json:"rating,omitempty"`

	// WatchedAt is when the title was watched.
	WatchedAt time.Time `json:"watched_at"`
}

// UserMoodProfile is a user's current aggregate mood fingerprint.
// One record per user, overwritten wholesale on recomputation or feedback.
type UserMoodProfile struct {
	// UserID identifies the profile owner.
	UserID string `json:"user_id"`

	// Vector is the current aggregate fingerprint.
	Vector mood.Vector `json:"vector"`

	// ComputedAt is when the vector was last computed or adjusted.
	ComputedAt time.Time `json:"computed_at"`
}

// MoodSnapshot is a dated point on a user's mood timeline. At most one
// snapshot exists per user per calendar day; same-day recomputation
// overwrites rather than appends.
type MoodSnapshot struct {
	// UserID identifies the snapshot owner.
	UserID string `json:"user_id"`

	// Vector is the fingerprint at snapshot time.
	Vector mood.Vector `json:"vector"`

	// TakenAt is when the snapshot was recorded.
	TakenAt time.Time `json:"taken_at"`

	// Trigger optionally references what caused the snapshot
	// (profile recomputation, feedback action).
	Trigger string `json:"trigger,omitempty"`
}

// RecommendMode selects how titles are ranked against the user.
type RecommendMode string

const (
	// ModeMatch recommends titles similar to the user's fingerprint.
	ModeMatch RecommendMode = "match"
	// ModeShift recommends titles similar to the inverted fingerprint.
	ModeShift RecommendMode = "shift"
)

// Valid reports whether the mode is known.
func (m RecommendMode) Valid() bool {
	return m == ModeMatch || m == ModeShift
}

// RankedTitle is one scored entry of a recommendation set.
type RankedTitle struct {
	// CatalogID references the AnalyzedTitle.
	CatalogID int `json:"catalog_id"`

	// Kind is the media kind.
	Kind MediaKind `json:"kind"`

	// Title is the display title (localized at hydration time).
	Title string `json:"title"`

	// Overview is the synopsis (localized at hydration time).
	Overview string `json:"overview,omitempty"`

	// PosterPath is the poster image reference.
	PosterPath string `json:"poster_path,omitempty"`

	// Genres is the catalog genre list.
	Genres []string `json:"genres,omitempty"`

	// Score is the computed similarity score, 0-100 with one decimal.
	Score float64 `json:"score"`
}

// RecommendationCacheEntry is a persisted ranked recommendation set.
// One entry per (user, mode); superseded wholesale on regeneration and
// deleted on feedback-driven invalidation.
type RecommendationCacheEntry struct {
	// SetID uniquely identifies this generation for log correlation.
	SetID string `json:"set_id"`

	// UserID identifies the owner.
	UserID string `json:"user_id"`

	// Mode is the recommendation mode the set was generated for.
	Mode RecommendMode `json:"mode"`

	// Titles is the ordered ranked set.
	Titles []RankedTitle `json:"titles"`

	// GeneratedAt is when the set was computed.
	GeneratedAt time.Time `json:"generated_at"`

	// ExpiresAt is GeneratedAt plus the cache lifetime (7 days).
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at the given instant.
func (e *RecommendationCacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// ReplacementQuota is the fixed monthly allotment of single-replacement
// recommendations.
const ReplacementQuota = 3

// UserFeedbackState carries a user's blacklist and replacement quota.
type UserFeedbackState struct {
	// UserID identifies the owner.
	UserID string `json:"user_id"`

	// Blacklist is the set of disliked catalog ids, excluded from
	// replacement recommendations.
	Blacklist []int `json:"blacklist,omitempty"`

	// QuotaRemaining is the replacement quota left this month.
	QuotaRemaining int `json:"quota_remaining"`

	// QuotaMonth and QuotaYear record when the quota was last reset.
	QuotaMonth int `json:"quota_month"`
	QuotaYear  int `json:"quota_year"`
}

// Blacklisted reports whether the catalog id is on the blacklist.
func (s *UserFeedbackState) Blacklisted(catalogID int) bool {
	for _, id := range s.Blacklist {
		if id == catalogID {
			return true
		}
	}
	return false
}

// AddToBlacklist appends the catalog id if not already present.
func (s *UserFeedbackState) AddToBlacklist(catalogID int) {
	if !s.Blacklisted(catalogID) {
		s.Blacklist = append(s.Blacklist, catalogID)
	}
}

// ResetQuotaIfNewMonth resets the quota to the fixed allotment the first time
// the state is consulted in a new calendar month. Returns true if reset.
func (s *UserFeedbackState) ResetQuotaIfNewMonth(now time.Time) bool {
	month := int(now.Month())
	year := now.Year()
	if s.QuotaMonth == month && s.QuotaYear == year {
		return false
	}
	s.QuotaMonth = month
	s.QuotaYear = year
	s.QuotaRemaining = ReplacementQuota
	return true
}
