// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub000/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
)

const (
	// profileStaleness is how long a computed profile stays fresh.
	profileStaleness = 24 * time.Hour

	// defaultRatingWeight applies to unrated or out-of-range entries.
	defaultRatingWeight = 0.5

	// Time decay is 1.0 up to freshDays, then falls linearly to decayFloor
	// at floorDays, staying at the floor beyond.
	freshDays  = 30.0
	floorDays  = 365.0
	decayFloor = 0.5
)

// ProfileEngine maintains per-user aggregate mood fingerprints from rated
// watch history, with a daily snapshot timeline.
type ProfileEngine struct {
	store    Store
	history  HistoryProvider
	analyzer *Analyzer
	now      func() time.Time
	logger   zerolog.Logger
}

// GetUserMood returns the user's current mood fingerprint, recomputing from
// watch history when the stored profile is older than a day, absent, or force
// is set.
func (p *ProfileEngine) GetUserMood(ctx context.Context, userID string, force bool) (mood.Vector, error) {
	if !force {
		profile, err := p.store.GetProfile(ctx, userID)
		if err == nil && p.now().Sub(profile.ComputedAt) < profileStaleness {
			return profile.Vector, nil
		}
	}
	return p.Recompute(ctx, userID)
}

// Recompute rebuilds the profile as the rating- and recency-weighted mean of
// the fingerprints of every rated history entry. Entries whose fingerprint
// cannot be resolved are skipped. Zero usable entries yield the neutral
// vector. The result is persisted and snapshotted.
func (p *ProfileEngine) Recompute(ctx context.Context, userID string) (mood.Vector, error) {
	start := time.Now()
	defer func() {
		metrics.ProfileDuration.Observe(time.Since(start).Seconds())
	}()
	metrics.ProfileRecomputations.Inc()

	entries, err := p.history.ListRatedHistory(ctx, userID)
	if err != nil {
		return mood.Vector{}, fmt.Errorf("list rated history: %w", err)
	}

	now := p.now()
	var sums [mood.NumDimensions]float64
	var totalWeight float64
	skipped := 0

	for i := range entries {
		entry := &entries[i]
		title, err := p.analyzer.GetOrAnalyze(ctx, &models.AnalyzedTitle{
			CatalogID: entry.CatalogID,
			Kind:      entry.Kind,
			Title:     entry.Title,
		})
		if err != nil {
			skipped++
			p.logger.Warn().Err(err).Str("user_id", userID).
				Int("catalog_id", entry.CatalogID).
				Msg("skipping history entry without fingerprint")
			continue
		}

		weight := ratingWeight(entry.Rating) * timeDecay(entry.WatchedAt, now)
		for d, val := range title.Vector.Values() {
			sums[d] += float64(val) * weight
		}
		totalWeight += weight
	}

	var vec mood.Vector
	if totalWeight == 0 {
		vec = mood.Neutral()
	} else {
		var values [mood.NumDimensions]int
		for d := range sums {
			values[d] = int(math.Round(sums[d] / totalWeight))
		}
		vec = mood.FromValues(values)
	}

	if err := p.SetUserMood(ctx, userID, vec, "history_recompute"); err != nil {
		return mood.Vector{}, err
	}
	p.logger.Info().Str("user_id", userID).Int("entries", len(entries)).
		Int("skipped", skipped).Stringer("vector", vec).Msg("profile recomputed")
	return vec, nil
}

// SetUserMood overwrites the stored profile and records a same-day snapshot
// with the given trigger.
func (p *ProfileEngine) SetUserMood(ctx context.Context, userID string, vec mood.Vector, trigger string) error {
	now := p.now().UTC()
	if err := p.store.PutProfile(ctx, &models.UserMoodProfile{
		UserID:     userID,
		Vector:     vec,
		ComputedAt: now,
	}); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	if err := p.store.UpsertSnapshot(ctx, &models.MoodSnapshot{
		UserID:  userID,
		Vector:  vec,
		TakenAt: now,
		Trigger: trigger,
	}); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// History returns the user's snapshot timeline in chronological order.
func (p *ProfileEngine) History(ctx context.Context, userID string) ([]models.MoodSnapshot, error) {
	return p.store.ListSnapshots(ctx, userID)
}

// ratingWeight maps a 1-5 star rating to rating/5. Unrated and out-of-range
// entries carry the default weight.
func ratingWeight(rating int) float64 {
	if rating < 1 || rating > 5 {
		return defaultRatingWeight
	}
	return float64(rating) / 5
}

// timeDecay weights a watch by recency: full weight within freshDays, linear
// falloff to decayFloor at floorDays, floored after.
func timeDecay(watchedAt, now time.Time) float64 {
	days := now.Sub(watchedAt).Hours() / 24
	switch {
	case days <= freshDays:
		return 1.0
	case days >= floorDays:
		return decayFloor
	default:
		return 1.0 - (1.0-decayFloor)*(days-freshDays)/(floorDays-freshDays)
	}
}
