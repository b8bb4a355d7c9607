// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub000/internal/llm"
	"github.com/YldzBerkay/film-track-be-sub000/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
)

// Analyzer computes mood fingerprints for titles through the completion
// service, with a store-backed read-through cache keyed on (catalog id,
// media kind).
type Analyzer struct {
	completer llm.Completer
	store     Store
	now       func() time.Time
	logger    zerolog.Logger
}

// analysisSystemPrompt instructs the model on the scoring task. The contrast
// mandate counters the model's tendency to hedge every dimension toward 50,
// which would flatten cosine rankings into noise.
const analysisSystemPrompt = `You are a film mood analyst. Given a title and its context, score its emotional fingerprint on ten dimensions, each an integer from 0 to 100:

- adrenaline: action intensity, pace, physical thrill
- melancholy: sadness, grief, wistfulness
- joy: humor, warmth, lightness
- tension: suspense, dread, unease
- intellect: ideas, puzzles, cerebral engagement
- romance: romantic and emotional intimacy
- wonder: awe, spectacle, imagination
- nostalgia: longing for the past, period warmth
- darkness: violence, cruelty, moral bleakness
- inspiration: uplift, triumph, hope

Commit to a distinctive profile. At least 4 dimensions must be at or below 30 or at or above 70, and at least 2 of those at or below 20 or at or above 80. A profile hovering near 50 everywhere is wrong for any real film.

Respond with JSON only, in this exact shape:
{"reasoning": "<one or two sentences>", "scores": {"adrenaline": 0, "melancholy": 0, "joy": 0, "tension": 0, "intellect": 0, "romance": 0, "wonder": 0, "nostalgia": 0, "darkness": 0, "inspiration": 0}}`

// AnalysisInput carries the context handed to the completion service.
type AnalysisInput struct {
	Title    string
	Year     string
	Overview string
	Genres   []string
}

// Analyze scores the title's mood fingerprint. Fails closed with
// ErrAnalysisUnavailable when the completion service errs or its response
// cannot be parsed into scores.
func (a *Analyzer) Analyze(ctx context.Context, in AnalysisInput) (mood.Vector, error) {
	start := time.Now()

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", in.Title)
	if in.Year != "" {
		fmt.Fprintf(&b, "Year: %s\n", in.Year)
	}
	if len(in.Genres) > 0 {
		fmt.Fprintf(&b, "Genres: %s\n", strings.Join(in.Genres, ", "))
	}
	if in.Overview != "" {
		fmt.Fprintf(&b, "Synopsis: %s\n", in.Overview)
	}

	raw, err := a.completer.Complete(ctx, analysisSystemPrompt, b.String())
	if err != nil {
		metrics.AnalysisCalls.WithLabelValues("error").Inc()
		a.logger.Warn().Err(err).Str("title", in.Title).Msg("completion request failed")
		return mood.Vector{}, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	vec, err := parseAnalysis(raw)
	if err != nil {
		metrics.AnalysisCalls.WithLabelValues("unparsable").Inc()
		a.logger.Warn().Err(err).Str("title", in.Title).Msg("unparsable analysis response")
		return mood.Vector{}, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}

	if isSuspectAnalysis(vec) {
		// Accepted but logged: a flat mid-range profile usually means the
		// model hedged despite the contrast mandate.
		metrics.AnalysisCalls.WithLabelValues("suspect").Inc()
		a.logger.Warn().Str("title", in.Title).Stringer("vector", vec).
			Msg("suspect mid-range analysis accepted")
	} else {
		metrics.AnalysisCalls.WithLabelValues("ok").Inc()
	}
	return vec, nil
}

// GetOrAnalyze returns the stored fingerprint for the title, analyzing and
// persisting it on a cache miss. Concurrent misses for the same title race
// benignly: set-on-insert keeps the first completed analysis and every caller
// converges on it.
func (a *Analyzer) GetOrAnalyze(ctx context.Context, title *models.AnalyzedTitle) (*models.AnalyzedTitle, error) {
	stored, err := a.store.GetTitle(ctx, title.Kind, title.CatalogID)
	if err == nil && !stored.AnalyzedAt.IsZero() {
		metrics.FingerprintCacheHits.Inc()
		return stored, nil
	}
	metrics.FingerprintCacheMisses.Inc()

	vec, err := a.Analyze(ctx, AnalysisInput{
		Title:    title.Title,
		Year:     releaseYear(title.ReleaseDate),
		Overview: title.Overview,
		Genres:   title.Genres,
	})
	if err != nil {
		return nil, err
	}

	title.Vector = vec
	title.AnalyzedAt = a.now().UTC()
	winner, inserted, err := a.store.InsertTitleIfAbsent(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("persist analyzed title: %w", err)
	}
	if !inserted {
		a.logger.Debug().Int("catalog_id", title.CatalogID).
			Msg("lost analysis race, using stored fingerprint")
	}
	return winner, nil
}

// Reanalyze forces a fresh analysis, overwriting the stored fingerprint while
// keeping cached translations.
func (a *Analyzer) Reanalyze(ctx context.Context, title *models.AnalyzedTitle) (*models.AnalyzedTitle, error) {
	vec, err := a.Analyze(ctx, AnalysisInput{
		Title:    title.Title,
		Year:     releaseYear(title.ReleaseDate),
		Overview: title.Overview,
		Genres:   title.Genres,
	})
	if err != nil {
		return nil, err
	}
	title.Vector = vec
	title.AnalyzedAt = a.now().UTC()
	if err := a.store.ReplaceTitle(ctx, title); err != nil {
		return nil, fmt.Errorf("replace analyzed title: %w", err)
	}
	return title, nil
}

type nestedAnalysis struct {
	Reasoning string             `json:"reasoning"`
	Scores    map[string]float64 `json:"scores"`
}

// parseAnalysis extracts dimension scores from a completion response. The
// nested reasoning+scores shape is tried first, then a flat score object.
// Absent dimensions default to 0; out-of-range values are clamped.
func parseAnalysis(raw string) (mood.Vector, error) {
	payload := stripCodeFence(raw)

	var scores map[string]float64

	var nested nestedAnalysis
	if err := json.Unmarshal([]byte(payload), &nested); err == nil && len(nested.Scores) > 0 {
		scores = nested.Scores
	} else {
		var flat map[string]float64
		if err := json.Unmarshal([]byte(payload), &flat); err != nil || len(flat) == 0 {
			return mood.Vector{}, errors.New("response matches neither nested nor flat score shape")
		}
		scores = flat
	}

	var values [mood.NumDimensions]int
	for i, name := range mood.DimensionNames {
		values[i] = int(math.Round(scores[name]))
	}
	return mood.FromValues(values), nil
}

// isSuspectAnalysis reports whether every dimension sits in the hedged 40-60
// band.
func isSuspectAnalysis(v mood.Vector) bool {
	for _, val := range v.Values() {
		if val < 40 || val > 60 {
			return false
		}
	}
	return true
}

// stripCodeFence removes a surrounding markdown code fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// releaseYear extracts the year from a YYYY-MM-DD release date.
func releaseYear(releaseDate string) string {
	if len(releaseDate) >= 4 {
		return releaseDate[:4]
	}
	return ""
}
