// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub000/internal/catalog"
	"github.com/YldzBerkay/film-track-be-sub000/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
)

// FeedbackAction is a user's reaction to a recommended title.
type FeedbackAction string

const (
	// ActionLike pulls the profile toward the title's fingerprint.
	ActionLike FeedbackAction = "like"
	// ActionDislike pushes the profile away and blacklists the title.
	ActionDislike FeedbackAction = "dislike"
)

// Valid reports whether the action is known.
func (a FeedbackAction) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

const (
	// likeInfluence is the blend fraction a like moves the profile by.
	likeInfluence = 0.3

	// dislikeInfluence scales the repulsion from a disliked title's
	// displacement off the neutral midpoint.
	dislikeInfluence = 0.15

	// replacementBatch is how many candidates a single replacement
	// request fetches from the completion service.
	replacementBatch = 5
)

// FeedbackEngine applies like/dislike reactions to user profiles and serves
// quota-limited single replacement recommendations.
type FeedbackEngine struct {
	store    Store
	profiles *ProfileEngine
	curator  *Curator
	catalog  catalog.Catalog
	analyzer *Analyzer
	now      func() time.Time
	logger   zerolog.Logger
}

// Submit records a reaction to a title. A like blends the profile toward the
// title's fingerprint; a dislike repels it and blacklists the title. Either
// way the match recommendation cache is invalidated so the next request
// reflects the adjusted profile.
func (f *FeedbackEngine) Submit(ctx context.Context, userID string, catalogID int, titleName string, action FeedbackAction) error {
	title, err := f.resolveTitle(ctx, catalogID, titleName)
	if err != nil {
		return err
	}

	current, err := f.profiles.GetUserMood(ctx, userID, false)
	if err != nil {
		return err
	}

	var adjusted mood.Vector
	var trigger string
	switch action {
	case ActionLike:
		adjusted = mood.Blend(current, title.Vector, likeInfluence)
		trigger = "feedback_like"
	case ActionDislike:
		adjusted = mood.Repel(current, title.Vector, dislikeInfluence)
		trigger = "feedback_dislike"
		if err := f.blacklist(ctx, userID, catalogID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown feedback action %q", action)
	}

	if err := f.profiles.SetUserMood(ctx, userID, adjusted, trigger); err != nil {
		return err
	}
	if err := f.store.DeleteRecommendations(ctx, userID, models.ModeMatch); err != nil {
		return fmt.Errorf("invalidate match cache: %w", err)
	}

	metrics.FeedbackActions.WithLabelValues(string(action)).Inc()
	f.logger.Info().Str("user_id", userID).Int("catalog_id", catalogID).
		Str("action", string(action)).Msg("feedback applied")
	return nil
}

// SingleReplacement proposes one fresh title to swap into a recommendation
// set, consuming a unit of the user's monthly quota. The explicit exclusions
// and the user's blacklist are both filtered out.
func (f *FeedbackEngine) SingleReplacement(ctx context.Context, userID string, excludeIDs []int, language string) (*models.RankedTitle, error) {
	state, err := f.store.GetFeedbackState(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load feedback state: %w", err)
	}
	state.ResetQuotaIfNewMonth(f.now())

	if state.QuotaRemaining <= 0 {
		metrics.QuotaDenials.Inc()
		return nil, ErrQuotaExceeded
	}
	state.QuotaRemaining--
	if err := f.store.PutFeedbackState(ctx, state); err != nil {
		return nil, fmt.Errorf("persist feedback state: %w", err)
	}

	userVec, err := f.profiles.GetUserMood(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	description := mood.BuildDescription(userVec)
	dominant := mood.DominantGenres(userVec)

	names, err := f.curator.requestCandidates(ctx, description, dominant, replacementBatch)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoSuggestions
	}

	exclude := make(map[int]struct{}, len(excludeIDs)+len(state.Blacklist))
	for _, id := range excludeIDs {
		exclude[id] = struct{}{}
	}
	for _, id := range state.Blacklist {
		exclude[id] = struct{}{}
	}

	for _, name := range names {
		title := f.curator.resolveCandidate(ctx, name, exclude)
		if title == nil {
			continue
		}
		score := mood.MatchScore(userVec, title.Vector, mood.SharesGenre(title.Genres, dominant))
		ranked := f.curator.hydrate(ctx, []models.RankedTitle{rankedFrom(title, score)}, language)
		metrics.FeedbackActions.WithLabelValues("replacement").Inc()
		return &ranked[0], nil
	}
	return nil, ErrNoValidMovies
}

// resolveTitle finds the analyzed title the feedback refers to, analyzing it
// on demand when it is not yet fingerprinted.
func (f *FeedbackEngine) resolveTitle(ctx context.Context, catalogID int, titleName string) (*models.AnalyzedTitle, error) {
	stored, err := f.store.GetTitle(ctx, models.MediaMovie, catalogID)
	if err == nil && !stored.AnalyzedAt.IsZero() {
		return stored, nil
	}

	skeleton := &models.AnalyzedTitle{
		CatalogID: catalogID,
		Kind:      models.MediaMovie,
		Title:     titleName,
	}
	details, err := f.catalog.MovieDetails(ctx, catalogID, "")
	switch {
	case err == nil:
		skeleton.Title = details.Title
		skeleton.Overview = details.Overview
		skeleton.PosterPath = details.PosterPath
		skeleton.Genres = details.Genres
		skeleton.ReleaseDate = details.ReleaseDate
	case errors.Is(err, catalog.ErrNoResults):
		return nil, fmt.Errorf("%w: catalog id %d", ErrTitleNotFound, catalogID)
	default:
		// Analysis can still proceed on the name alone.
		f.logger.Warn().Err(err).Int("catalog_id", catalogID).
			Msg("catalog details unavailable, analyzing by name")
	}
	return f.analyzer.GetOrAnalyze(ctx, skeleton)
}

// blacklist adds the catalog id to the user's dislike blacklist.
func (f *FeedbackEngine) blacklist(ctx context.Context, userID string, catalogID int) error {
	state, err := f.store.GetFeedbackState(ctx, userID)
	if err != nil {
		return fmt.Errorf("load feedback state: %w", err)
	}
	state.AddToBlacklist(catalogID)
	if err := f.store.PutFeedbackState(ctx, state); err != nil {
		return fmt.Errorf("persist feedback state: %w", err)
	}
	return nil
}
