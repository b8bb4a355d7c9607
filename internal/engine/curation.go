// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub000/internal/catalog"
	"github.com/YldzBerkay/film-track-be-sub000/internal/llm"
	"github.com/YldzBerkay/film-track-be-sub000/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
)

const (
	// recommendationTTL is the lifetime of a cached ranked set.
	recommendationTTL = 7 * 24 * time.Hour

	// extraCandidates over-fetches beyond the requested limit so drops
	// during resolution still fill the set.
	extraCandidates = 5

	// popularFallbackLimit bounds how many popular titles supplement a
	// thin shift ranking.
	popularFallbackLimit = 40
)

// Curator generates ranked recommendation sets in match and shift modes,
// caching results per (user, mode) for a week.
type Curator struct {
	store     Store
	history   HistoryProvider
	profiles  *ProfileEngine
	analyzer  *Analyzer
	completer llm.Completer
	catalog   catalog.Catalog
	workers   int
	now       func() time.Time
	logger    zerolog.Logger
}

// Recommend returns the ranked set for the user in the given mode, serving
// from cache when a fresh non-empty entry exists and force is unset. Results
// are hydrated into the requested display language. An empty set is a valid
// result, not an error.
func (c *Curator) Recommend(ctx context.Context, userID string, mode models.RecommendMode, limit int, language string, force bool) ([]models.RankedTitle, error) {
	start := time.Now()
	defer func() {
		metrics.CurationDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}()

	if !force {
		entry, err := c.store.GetRecommendations(ctx, userID, mode)
		if err == nil && !entry.Expired(c.now()) && len(entry.Titles) > 0 {
			metrics.RecommendationCacheHits.WithLabelValues(string(mode)).Inc()
			return c.hydrate(ctx, truncate(entry.Titles, limit), language), nil
		}
	}
	metrics.RecommendationCacheMisses.WithLabelValues(string(mode)).Inc()

	var ranked []models.RankedTitle
	var err error
	switch mode {
	case models.ModeShift:
		ranked, err = c.curateShift(ctx, userID, limit)
	default:
		ranked, err = c.curateMatch(ctx, userID, limit)
	}
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	entry := &models.RecommendationCacheEntry{
		SetID:       uuid.NewString(),
		UserID:      userID,
		Mode:        mode,
		Titles:      ranked,
		GeneratedAt: now,
		ExpiresAt:   now.Add(recommendationTTL),
	}
	if err := c.store.PutRecommendations(ctx, entry); err != nil {
		return nil, fmt.Errorf("cache recommendations: %w", err)
	}
	c.logger.Info().Str("set_id", entry.SetID).Str("user_id", userID).
		Str("mode", string(mode)).Int("titles", len(ranked)).
		Msg("recommendation set generated")

	return c.hydrate(ctx, ranked, language), nil
}

// curateMatch builds a ranked set of unseen titles resembling the user's
// fingerprint: the completion service proposes candidates from a mood
// description, each resolves through the catalog and fingerprint cache, and
// survivors are cosine-ranked with a shared-genre bonus.
func (c *Curator) curateMatch(ctx context.Context, userID string, limit int) ([]models.RankedTitle, error) {
	userVec, err := c.profiles.GetUserMood(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	exclude, err := c.exclusionSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	description := mood.BuildDescription(userVec)
	dominant := mood.DominantGenres(userVec)

	names, err := c.requestCandidates(ctx, description, dominant, limit+extraCandidates)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		c.logger.Info().Str("user_id", userID).Msg("curation produced no candidates")
		return []models.RankedTitle{}, nil
	}

	titles := c.resolveAll(ctx, names, exclude)

	ranked := make([]models.RankedTitle, 0, len(titles))
	for _, t := range titles {
		score := mood.MatchScore(userVec, t.Vector, mood.SharesGenre(t.Genres, dominant))
		ranked = append(ranked, rankedFrom(t, score))
	}
	sortRanked(ranked)
	return truncate(ranked, limit), nil
}

// curateShift ranks the analyzed catalog against the inverted fingerprint
// with asymmetric comfort penalties, supplementing a thin ranking with
// popular titles scored on the neutral vector.
func (c *Curator) curateShift(ctx context.Context, userID string, limit int) ([]models.RankedTitle, error) {
	userVec, err := c.profiles.GetUserMood(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	target := userVec.Invert()

	exclude, err := c.exclusionSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	analyzed, err := c.store.ListTitles(ctx, models.MediaMovie, 0)
	if err != nil {
		return nil, fmt.Errorf("list analyzed titles: %w", err)
	}

	seen := make(map[int]struct{}, len(analyzed))
	ranked := make([]models.RankedTitle, 0, len(analyzed))
	for i := range analyzed {
		t := &analyzed[i]
		if t.AnalyzedAt.IsZero() {
			continue
		}
		if _, excluded := exclude[t.CatalogID]; excluded {
			continue
		}
		seen[t.CatalogID] = struct{}{}
		ranked = append(ranked, rankedFrom(t, mood.PenalizedScore(target, t.Vector)))
	}

	if len(ranked) < limit {
		ranked = append(ranked, c.popularFallbacks(ctx, target, exclude, seen, limit-len(ranked))...)
	}

	sortRanked(ranked)
	return truncate(ranked, limit), nil
}

// popularFallbacks pads a thin shift ranking with currently popular titles,
// scored as if carrying the neutral fingerprint.
func (c *Curator) popularFallbacks(ctx context.Context, target mood.Vector, exclude, seen map[int]struct{}, need int) []models.RankedTitle {
	popular, err := c.catalog.PopularMovies(ctx, "", popularFallbackLimit)
	if err != nil {
		c.logger.Warn().Err(err).Msg("popular fallback fetch failed")
		return nil
	}

	score := mood.PenalizedScore(target, mood.Neutral())
	out := make([]models.RankedTitle, 0, need)
	for _, m := range popular {
		if len(out) >= need {
			break
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		if _, excluded := exclude[m.ID]; excluded {
			continue
		}
		out = append(out, models.RankedTitle{
			CatalogID:  m.ID,
			Kind:       models.MediaMovie,
			Title:      m.Title,
			PosterPath: m.PosterPath,
			Score:      score,
		})
	}
	return out
}

// curationSystemPrompt frames the candidate request. Series are excluded
// because replacement and exclusion filtering operate on the movie catalog.
const curationSystemPrompt = `You are a film curator. Given a viewer's mood profile, suggest films that fit it. Suggest only feature films, never television series. Respond with a JSON array of film title strings and nothing else.`

// requestCandidates asks the completion service for count movie titles
// matching the mood description. An empty candidate list is returned as-is;
// only transport failures are errors.
func (c *Curator) requestCandidates(ctx context.Context, description string, genres []string, count int) ([]string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Viewer mood: %s\n", description)
	if len(genres) > 0 {
		fmt.Fprintf(&b, "Leaning toward genres: %s\n", strings.Join(genres, ", "))
	}
	fmt.Fprintf(&b, "Suggest %d films.", count)

	raw, err := c.completer.Complete(ctx, curationSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("request candidates: %w", err)
	}
	return parseCandidates(raw), nil
}

// parseCandidates extracts title strings from a completion response: a JSON
// array first, then line-by-line with list markers stripped.
func parseCandidates(raw string) []string {
	payload := stripCodeFence(raw)

	var titles []string
	if err := json.Unmarshal([]byte(payload), &titles); err == nil {
		return compactTitles(titles)
	}

	var out []string
	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.)- ")
		line = strings.Trim(line, `"`)
		if line != "" {
			out = append(out, line)
		}
	}
	return compactTitles(out)
}

func compactTitles(in []string) []string {
	out := in[:0]
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// exclusionSet collects every movie catalog id in the user's watch history.
func (c *Curator) exclusionSet(ctx context.Context, userID string) (map[int]struct{}, error) {
	entries, err := c.history.ListWatchHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list watch history: %w", err)
	}
	set := make(map[int]struct{}, len(entries))
	for i := range entries {
		if entries[i].Kind == models.MediaMovie {
			set[entries[i].CatalogID] = struct{}{}
		}
	}
	return set, nil
}

// resolveAll resolves candidate names concurrently, bounded by the worker
// count, deduplicating by catalog id. Per-candidate failures drop the
// candidate rather than failing the batch.
func (c *Curator) resolveAll(ctx context.Context, names []string, exclude map[int]struct{}) []*models.AnalyzedTitle {
	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	byID := make(map[int]*models.AnalyzedTitle, len(names))

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			t := c.resolveCandidate(ctx, name, exclude)
			if t == nil {
				return
			}
			mu.Lock()
			if _, dup := byID[t.CatalogID]; !dup {
				byID[t.CatalogID] = t
			}
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	out := make([]*models.AnalyzedTitle, 0, len(byID))
	for _, t := range byID {
		out = append(out, t)
	}
	return out
}

// resolveCandidate turns a suggested title name into an analyzed title, or
// nil when the candidate is excluded, unknown to the catalog, or its
// analysis fails.
func (c *Curator) resolveCandidate(ctx context.Context, name string, exclude map[int]struct{}) *models.AnalyzedTitle {
	// Stored fingerprints first: no catalog round trip for known names.
	if stored, err := c.store.FindTitleByName(ctx, models.MediaMovie, name); err == nil && !stored.AnalyzedAt.IsZero() {
		if _, excluded := exclude[stored.CatalogID]; excluded {
			metrics.CandidateResolutions.WithLabelValues("excluded").Inc()
			return nil
		}
		metrics.CandidateResolutions.WithLabelValues("resolved").Inc()
		return stored
	}

	match, err := c.catalog.SearchMovie(ctx, name, 0, "")
	if err != nil {
		if errors.Is(err, catalog.ErrNoResults) {
			metrics.CandidateResolutions.WithLabelValues("not_found").Inc()
		} else {
			metrics.CandidateResolutions.WithLabelValues("error").Inc()
			c.logger.Warn().Err(err).Str("candidate", name).Msg("candidate search failed")
		}
		return nil
	}
	if _, excluded := exclude[match.ID]; excluded {
		metrics.CandidateResolutions.WithLabelValues("excluded").Inc()
		return nil
	}

	details, err := c.catalog.MovieDetails(ctx, match.ID, "")
	if err != nil {
		metrics.CandidateResolutions.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Int("catalog_id", match.ID).Msg("candidate details failed")
		return nil
	}

	title, err := c.analyzer.GetOrAnalyze(ctx, &models.AnalyzedTitle{
		CatalogID:   details.ID,
		Kind:        models.MediaMovie,
		Title:       details.Title,
		Overview:    details.Overview,
		PosterPath:  details.PosterPath,
		Genres:      details.Genres,
		ReleaseDate: details.ReleaseDate,
	})
	if err != nil {
		metrics.CandidateResolutions.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Str("candidate", name).Msg("candidate analysis failed")
		return nil
	}
	metrics.CandidateResolutions.WithLabelValues("resolved").Inc()
	return title
}

// hydrate localizes ranked titles into the requested language, fetching and
// caching missing translations. Localization failures fall back to the
// canonical metadata.
func (c *Curator) hydrate(ctx context.Context, ranked []models.RankedTitle, language string) []models.RankedTitle {
	if language == "" {
		return ranked
	}
	out := make([]models.RankedTitle, len(ranked))
	copy(out, ranked)
	for i := range out {
		r := &out[i]
		stored, err := c.store.GetTitle(ctx, r.Kind, r.CatalogID)
		if err != nil {
			continue
		}
		meta, ok := stored.Localized(language)
		if !ok {
			fetched, err := c.fetchTranslation(ctx, stored, language)
			if err != nil {
				c.logger.Warn().Err(err).Int("catalog_id", r.CatalogID).
					Str("language", language).Msg("translation fetch failed")
				continue
			}
			meta = fetched
		}
		if meta.Title != "" {
			r.Title = meta.Title
		}
		if meta.Overview != "" {
			r.Overview = meta.Overview
		}
		if meta.PosterPath != "" {
			r.PosterPath = meta.PosterPath
		}
	}
	return out
}

// fetchTranslation pulls localized metadata from the catalog and caches it on
// the stored title.
func (c *Curator) fetchTranslation(ctx context.Context, title *models.AnalyzedTitle, language string) (models.TitleMetadata, error) {
	details, err := c.catalog.MovieDetails(ctx, title.CatalogID, language)
	if err != nil {
		return models.TitleMetadata{}, err
	}
	meta := models.TitleMetadata{
		Title:      details.Title,
		Overview:   details.Overview,
		PosterPath: details.PosterPath,
	}
	if err := c.store.SetTranslation(ctx, title.Kind, title.CatalogID, language, meta); err != nil {
		return models.TitleMetadata{}, err
	}
	return meta, nil
}

// rankedFrom projects an analyzed title onto a ranked entry with the given
// score.
func rankedFrom(t *models.AnalyzedTitle, score float64) models.RankedTitle {
	return models.RankedTitle{
		CatalogID:  t.CatalogID,
		Kind:       t.Kind,
		Title:      t.Title,
		Overview:   t.Overview,
		PosterPath: t.PosterPath,
		Genres:     t.Genres,
		Score:      score,
	}
}

// sortRanked orders by descending score, breaking ties on title then catalog
// id so equal inputs rank deterministically.
func sortRanked(ranked []models.RankedTitle) {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Title != ranked[j].Title {
			return ranked[i].Title < ranked[j].Title
		}
		return ranked[i].CatalogID < ranked[j].CatalogID
	})
}

func truncate(ranked []models.RankedTitle, limit int) []models.RankedTitle {
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
