// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

// Package engine implements the mood profiling and recommendation pipeline:
// title fingerprint analysis through a completion service, time-decayed user
// profiles over rated watch history, cosine-ranked curation in match and
// shift modes, and like/dislike feedback with quota-limited replacements.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub000/internal/catalog"
	"github.com/YldzBerkay/film-track-be-sub000/internal/llm"
	"github.com/YldzBerkay/film-track-be-sub000/internal/logging"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
)

// Store is the persistence contract the engine needs. *store.Store satisfies
// it; tests may substitute an in-memory instance.
type Store interface {
	GetTitle(ctx context.Context, kind models.MediaKind, catalogID int) (*models.AnalyzedTitle, error)
	InsertTitleIfAbsent(ctx context.Context, title *models.AnalyzedTitle) (*models.AnalyzedTitle, bool, error)
	ReplaceTitle(ctx context.Context, title *models.AnalyzedTitle) error
	SetTranslation(ctx context.Context, kind models.MediaKind, catalogID int, language string, meta models.TitleMetadata) error
	FindTitleByName(ctx context.Context, kind models.MediaKind, name string) (*models.AnalyzedTitle, error)
	ListTitles(ctx context.Context, kind models.MediaKind, limit int) ([]models.AnalyzedTitle, error)

	GetProfile(ctx context.Context, userID string) (*models.UserMoodProfile, error)
	PutProfile(ctx context.Context, profile *models.UserMoodProfile) error
	UpsertSnapshot(ctx context.Context, snapshot *models.MoodSnapshot) error
	ListSnapshots(ctx context.Context, userID string) ([]models.MoodSnapshot, error)

	GetRecommendations(ctx context.Context, userID string, mode models.RecommendMode) (*models.RecommendationCacheEntry, error)
	PutRecommendations(ctx context.Context, entry *models.RecommendationCacheEntry) error
	DeleteRecommendations(ctx context.Context, userID string, mode models.RecommendMode) error

	GetFeedbackState(ctx context.Context, userID string) (*models.UserFeedbackState, error)
	PutFeedbackState(ctx context.Context, state *models.UserFeedbackState) error
}

// HistoryProvider supplies a user's watch history. The store-backed reader
// satisfies it; deployments may plug an external service instead.
type HistoryProvider interface {
	// ListWatchHistory returns every entry for the user.
	ListWatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error)

	// ListRatedHistory returns only entries with a 1-5 rating on a valid
	// media kind.
	ListRatedHistory(ctx context.Context, userID string) ([]models.WatchEntry, error)
}

// Options configures engine construction.
type Options struct {
	Store     Store
	History   HistoryProvider
	Completer llm.Completer
	Catalog   catalog.Catalog

	// ResolveWorkers bounds concurrent candidate resolutions. Defaults to 5.
	ResolveWorkers int

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time

	// Logger defaults to the process logger.
	Logger *zerolog.Logger
}

// Engine bundles the pipeline components behind one construction point.
type Engine struct {
	Analyzer *Analyzer
	Profiles *ProfileEngine
	Curator  *Curator
	Feedback *FeedbackEngine
}

// New wires the engine components against shared collaborators.
func New(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ResolveWorkers <= 0 {
		opts.ResolveWorkers = 5
	}
	logger := logging.Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	analyzer := &Analyzer{
		completer: opts.Completer,
		store:     opts.Store,
		now:       opts.Now,
		logger:    logger.With().Str("component", "analyzer").Logger(),
	}
	profiles := &ProfileEngine{
		store:    opts.Store,
		history:  opts.History,
		analyzer: analyzer,
		now:      opts.Now,
		logger:   logger.With().Str("component", "profiles").Logger(),
	}
	curator := &Curator{
		store:     opts.Store,
		history:   opts.History,
		profiles:  profiles,
		analyzer:  analyzer,
		completer: opts.Completer,
		catalog:   opts.Catalog,
		workers:   opts.ResolveWorkers,
		now:       opts.Now,
		logger:    logger.With().Str("component", "curator").Logger(),
	}
	feedback := &FeedbackEngine{
		store:    opts.Store,
		profiles: profiles,
		curator:  curator,
		catalog:  opts.Catalog,
		analyzer: analyzer,
		now:      opts.Now,
		logger:   logger.With().Str("component", "feedback").Logger(),
	}
	return &Engine{
		Analyzer: analyzer,
		Profiles: profiles,
		Curator:  curator,
		Feedback: feedback,
	}
}
