// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/YldzBerkay/film-track-be-sub000/internal/catalog"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
)

func TestParseCandidates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "json array",
			raw:  `["Heat", "Collateral"]`,
			want: []string{"Heat", "Collateral"},
		},
		{
			name: "fenced json array",
			raw:  "```json\n[\"Heat\"]\n```",
			want: []string{"Heat"},
		},
		{
			name: "numbered lines",
			raw:  "1. Heat\n2. Collateral\n",
			want: []string{"Heat", "Collateral"},
		},
		{
			name: "bulleted quoted lines",
			raw:  "- \"Heat\"\n- \"Collateral\"",
			want: []string{"Heat", "Collateral"},
		},
		{
			name: "empty response",
			raw:  "",
			want: nil,
		},
		{
			name: "empty array",
			raw:  "[]",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCandidates(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("parseCandidates() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("candidate[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// matchCompleter serves candidates for curation prompts and fixed scores for
// analysis prompts.
func matchCompleter(candidates string, scores map[string]int) *mockCompleter {
	return &mockCompleter{complete: func(system, user string) (string, error) {
		if isCurationPrompt(system) {
			return candidates, nil
		}
		return scoresResponse(scores), nil
	}}
}

func TestRecommendMatchRanksAndCaches(t *testing.T) {
	ctx := context.Background()
	userVec := mood.Vector{Darkness: 90, Tension: 80, Joy: 10}

	completer := matchCompleter(candidateResponse("Grim Film", "Bright Film"), nil)
	cat := newMockCatalog()
	cat.addMovie(1, "Grim Film", "Horror")
	cat.addMovie(2, "Bright Film", "Comedy")

	eng, st := newTestEngine(t, completer, cat)
	seedProfile(t, st, "u1", userVec)
	seedAnalyzedTitle(t, st, 1, "Grim Film", mood.Vector{Darkness: 95, Tension: 85, Joy: 5}, "Horror")
	seedAnalyzedTitle(t, st, 2, "Bright Film", mood.Vector{Joy: 95, Inspiration: 80}, "Comedy")

	got, err := eng.Curator.Recommend(ctx, "u1", models.ModeMatch, 10, "", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].CatalogID != 1 {
		t.Errorf("top recommendation = %d (%s), want the mood-adjacent title 1", got[0].CatalogID, got[0].Title)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %v then %v", got[0].Score, got[1].Score)
	}

	// Second call serves the cache without another curation request.
	calls := completer.callCount()
	again, err := eng.Curator.Recommend(ctx, "u1", models.ModeMatch, 10, "", false)
	if err != nil {
		t.Fatalf("cached Recommend: %v", err)
	}
	if completer.callCount() != calls {
		t.Errorf("completer calls grew from %d to %d on cache hit", calls, completer.callCount())
	}
	if len(again) != 2 || again[0].CatalogID != got[0].CatalogID {
		t.Errorf("cached result %v differs from original %v", again, got)
	}

	// Force regenerates.
	if _, err := eng.Curator.Recommend(ctx, "u1", models.ModeMatch, 10, "", true); err != nil {
		t.Fatalf("forced Recommend: %v", err)
	}
	if completer.callCount() == calls {
		t.Error("force refresh did not re-request candidates")
	}
}

func TestRecommendMatchExcludesWatched(t *testing.T) {
	ctx := context.Background()
	completer := matchCompleter(candidateResponse("Seen Film", "New Film"), nil)
	cat := newMockCatalog()
	cat.addMovie(1, "Seen Film", "Drama")
	cat.addMovie(2, "New Film", "Drama")

	eng, st := newTestEngine(t, completer, cat)
	seedProfile(t, st, "u1", mood.Vector{Melancholy: 70})
	seedAnalyzedTitle(t, st, 1, "Seen Film", mood.Vector{Melancholy: 80}, "Drama")
	seedAnalyzedTitle(t, st, 2, "New Film", mood.Vector{Melancholy: 75}, "Drama")
	seedWatch(t, st, "u1", 1, "Seen Film", 5, testNow.Add(-time.Hour))

	got, err := eng.Curator.Recommend(ctx, "u1", models.ModeMatch, 10, "", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 || got[0].CatalogID != 2 {
		t.Errorf("result = %v, want only unwatched title 2", got)
	}
}

func TestRecommendMatchEmptyCandidatesIsNotAnError(t *testing.T) {
	completer := matchCompleter("[]", nil)
	eng, st := newTestEngine(t, completer, newMockCatalog())
	seedProfile(t, st, "u1", mood.Vector{Joy: 70})

	got, err := eng.Curator.Recommend(context.Background(), "u1", models.ModeMatch, 10, "", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("result = %v, want empty", got)
	}
}

func TestRecommendMatchDropsUnknownCandidates(t *testing.T) {
	completer := matchCompleter(candidateResponse("Real Film", "Hallucinated Film"), nil)
	cat := newMockCatalog()
	cat.addMovie(1, "Real Film", "Drama")

	eng, st := newTestEngine(t, completer, cat)
	seedProfile(t, st, "u1", mood.Vector{Melancholy: 70})
	seedAnalyzedTitle(t, st, 1, "Real Film", mood.Vector{Melancholy: 80}, "Drama")

	got, err := eng.Curator.Recommend(context.Background(), "u1", models.ModeMatch, 10, "", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 || got[0].CatalogID != 1 {
		t.Errorf("result = %v, want only the resolvable title", got)
	}
}

func TestRecommendShiftPrefersOppositeMood(t *testing.T) {
	ctx := context.Background()
	completer := &mockCompleter{complete: func(system, user string) (string, error) {
		t.Fatal("shift mode must not call the completion service")
		return "", nil
	}}
	cat := newMockCatalog()

	eng, st := newTestEngine(t, completer, cat)
	// Grim profile: shift should surface the bright title first.
	seedProfile(t, st, "u1", mood.Vector{Darkness: 90, Tension: 85, Joy: 10})
	seedAnalyzedTitle(t, st, 1, "Grim Film", mood.Vector{Darkness: 95, Tension: 90, Joy: 5})
	seedAnalyzedTitle(t, st, 2, "Bright Film", mood.Vector{Joy: 90, Inspiration: 85, Darkness: 5})

	got, err := eng.Curator.Recommend(ctx, "u1", models.ModeShift, 10, "", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].CatalogID != 2 {
		t.Errorf("top shift recommendation = %d, want bright title 2", got[0].CatalogID)
	}
}

func TestRecommendShiftPadsWithPopularFallbacks(t *testing.T) {
	completer := &mockCompleter{complete: func(system, user string) (string, error) {
		t.Fatal("unexpected completer call")
		return "", nil
	}}
	cat := newMockCatalog()
	cat.popular = []catalog.SearchMatch{
		{ID: 10, Title: "Popular One"},
		{ID: 1, Title: "Already Analyzed"}, // duplicate of a ranked title
		{ID: 11, Title: "Popular Two"},
	}

	eng, st := newTestEngine(t, completer, cat)
	seedProfile(t, st, "u1", mood.Vector{Darkness: 90})
	seedAnalyzedTitle(t, st, 1, "Already Analyzed", mood.Vector{Joy: 90})

	got, err := eng.Curator.Recommend(context.Background(), "u1", models.ModeShift, 3, "", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (1 analyzed + 2 fallbacks)", len(got))
	}
	ids := map[int]bool{}
	for _, r := range got {
		ids[r.CatalogID] = true
	}
	if !ids[1] || !ids[10] || !ids[11] {
		t.Errorf("ids = %v, want {1, 10, 11}", ids)
	}
}

func TestRecommendHydratesLanguage(t *testing.T) {
	ctx := context.Background()
	completer := matchCompleter(candidateResponse("Grim Film"), nil)
	cat := newMockCatalog()
	cat.addMovie(1, "Grim Film", "Horror")
	cat.details[detailKey(1, "tr-TR")] = catalog.Details{
		ID: 1, Title: "Karanlik Film", Overview: "Cok karanlik.",
	}

	eng, st := newTestEngine(t, completer, cat)
	seedProfile(t, st, "u1", mood.Vector{Darkness: 90})
	seedAnalyzedTitle(t, st, 1, "Grim Film", mood.Vector{Darkness: 95}, "Horror")

	got, err := eng.Curator.Recommend(ctx, "u1", models.ModeMatch, 10, "tr-TR", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Title != "Karanlik Film" {
		t.Errorf("title = %q, want localized Karanlik Film", got[0].Title)
	}

	// The fetched translation is cached on the stored title.
	stored, err := st.GetTitle(ctx, models.MediaMovie, 1)
	if err != nil {
		t.Fatalf("GetTitle: %v", err)
	}
	if meta, ok := stored.Localized("tr-TR"); !ok || meta.Title != "Karanlik Film" {
		t.Errorf("cached translation = %v (ok=%v), want Karanlik Film", meta, ok)
	}
}

func TestRecommendLimitTruncates(t *testing.T) {
	completer := matchCompleter(candidateResponse("A Film", "B Film", "C Film"), nil)
	cat := newMockCatalog()
	cat.addMovie(1, "A Film", "Drama")
	cat.addMovie(2, "B Film", "Drama")
	cat.addMovie(3, "C Film", "Drama")

	eng, st := newTestEngine(t, completer, cat)
	seedProfile(t, st, "u1", mood.Vector{Melancholy: 70})
	seedAnalyzedTitle(t, st, 1, "A Film", mood.Vector{Melancholy: 80}, "Drama")
	seedAnalyzedTitle(t, st, 2, "B Film", mood.Vector{Melancholy: 70}, "Drama")
	seedAnalyzedTitle(t, st, 3, "C Film", mood.Vector{Melancholy: 60}, "Drama")

	got, err := eng.Curator.Recommend(context.Background(), "u1", models.ModeMatch, 2, "", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want limit 2", len(got))
	}
}
