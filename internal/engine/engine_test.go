// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub000/internal/catalog"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
	"github.com/YldzBerkay/film-track-be-sub000/internal/store"
)

// testNow is the fixed clock used by engine tests.
var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

// mockCompleter dispatches on the system prompt so one mock can serve both
// analysis and curation requests.
type mockCompleter struct {
	mu       sync.Mutex
	calls    int
	complete func(system, user string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.complete(system, user)
}

func (m *mockCompleter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockCatalog serves canned search and detail responses. Details are keyed
// by "id|language" with "" as the canonical language.
type mockCatalog struct {
	searches map[string]catalog.SearchMatch
	details  map[string]catalog.Details
	popular  []catalog.SearchMatch
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		searches: map[string]catalog.SearchMatch{},
		details:  map[string]catalog.Details{},
	}
}

func (m *mockCatalog) addMovie(id int, title string, genres ...string) {
	m.searches[title] = catalog.SearchMatch{ID: id, Title: title}
	m.details[detailKey(id, "")] = catalog.Details{ID: id, Title: title, Genres: genres}
}

func detailKey(id int, language string) string {
	return fmt.Sprintf("%d|%s", id, language)
}

func (m *mockCatalog) SearchMovie(ctx context.Context, title string, year int, language string) (*catalog.SearchMatch, error) {
	match, ok := m.searches[title]
	if !ok {
		return nil, catalog.ErrNoResults
	}
	return &match, nil
}

func (m *mockCatalog) MovieDetails(ctx context.Context, id int, language string) (*catalog.Details, error) {
	details, ok := m.details[detailKey(id, language)]
	if !ok {
		if details, ok = m.details[detailKey(id, "")]; !ok {
			return nil, catalog.ErrNoResults
		}
	}
	return &details, nil
}

func (m *mockCatalog) PopularMovies(ctx context.Context, language string, limit int) ([]catalog.SearchMatch, error) {
	out := m.popular
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// scoresResponse renders the nested analysis shape with the given dimension
// overrides, every other dimension at 0.
func scoresResponse(overrides map[string]int) string {
	parts := make([]string, 0, mood.NumDimensions)
	for _, name := range mood.DimensionNames {
		parts = append(parts, fmt.Sprintf("%q: %d", name, overrides[name]))
	}
	return fmt.Sprintf(`{"reasoning": "test", "scores": {%s}}`, strings.Join(parts, ", "))
}

// candidateResponse renders a JSON array of candidate titles.
func candidateResponse(titles ...string) string {
	quoted := make([]string, len(titles))
	for i, t := range titles {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// isCurationPrompt distinguishes curation requests from analysis requests in
// a shared mock.
func isCurationPrompt(system string) bool {
	return strings.Contains(system, "curator")
}

// newTestEngine builds an engine over an in-memory store with a fixed clock.
func newTestEngine(t *testing.T, completer *mockCompleter, cat *mockCatalog) (*Engine, *store.Store) {
	t.Helper()
	st, err := store.Open(store.Options{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	nop := zerolog.Nop()
	eng := New(Options{
		Store:          st,
		History:        st,
		Completer:      completer,
		Catalog:        cat,
		ResolveWorkers: 2,
		Now:            func() time.Time { return testNow },
		Logger:         &nop,
	})
	return eng, st
}

// seedAnalyzedTitle stores a fingerprinted movie.
func seedAnalyzedTitle(t *testing.T, st *store.Store, id int, title string, vec mood.Vector, genres ...string) {
	t.Helper()
	_, _, err := st.InsertTitleIfAbsent(context.Background(), &models.AnalyzedTitle{
		CatalogID:  id,
		Kind:       models.MediaMovie,
		Title:      title,
		Genres:     genres,
		Vector:     vec,
		AnalyzedAt: testNow.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("seed title %d: %v", id, err)
	}
}

// seedProfile stores a fresh profile so curation does not recompute.
func seedProfile(t *testing.T, st *store.Store, userID string, vec mood.Vector) {
	t.Helper()
	err := st.PutProfile(context.Background(), &models.UserMoodProfile{
		UserID:     userID,
		Vector:     vec,
		ComputedAt: testNow.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

// seedWatch records a watch-history entry.
func seedWatch(t *testing.T, st *store.Store, userID string, id int, title string, rating int, watchedAt time.Time) {
	t.Helper()
	err := st.PutWatchEntry(context.Background(), &models.WatchEntry{
		UserID:    userID,
		CatalogID: id,
		Kind:      models.MediaMovie,
		Title:     title,
		Rating:    rating,
		WatchedAt: watchedAt,
	})
	if err != nil {
		t.Fatalf("seed watch %d: %v", id, err)
	}
}
