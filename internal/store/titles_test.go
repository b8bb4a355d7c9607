// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func testTitle(catalogID int, vector mood.Vector) *models.AnalyzedTitle {
	return &models.AnalyzedTitle{
		CatalogID:  catalogID,
		Kind:       models.MediaMovie,
		Title:      "Blade Runner",
		Overview:   "A blade runner must pursue replicants.",
		Genres:     []string{"Science Fiction", "Thriller"},
		Vector:     vector,
		AnalyzedAt: time.Now().UTC(),
	}
}

func TestStore_GetTitle_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetTitle(context.Background(), models.MediaMovie, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTitle() error = %v, want ErrNotFound", err)
	}
}

func TestStore_InsertTitleIfAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testTitle(78, mood.Vector{Darkness: 80, Intellect: 75, Wonder: 70})
	stored, inserted, err := s.InsertTitleIfAbsent(ctx, first)
	if err != nil {
		t.Fatalf("InsertTitleIfAbsent() error = %v", err)
	}
	if !inserted {
		t.Error("first insert: inserted = false, want true")
	}
	if stored.Vector != first.Vector {
		t.Errorf("first insert: stored vector = %v, want %v", stored.Vector, first.Vector)
	}

	// A second writer with a different analysis must lose to the committed
	// record but still get the stored one back.
	second := testTitle(78, mood.Vector{Joy: 90})
	stored, inserted, err = s.InsertTitleIfAbsent(ctx, second)
	if err != nil {
		t.Fatalf("InsertTitleIfAbsent() second error = %v", err)
	}
	if inserted {
		t.Error("second insert: inserted = true, want false")
	}
	if stored.Vector != first.Vector {
		t.Errorf("second insert: stored vector = %v, want first writer's %v", stored.Vector, first.Vector)
	}

	got, err := s.GetTitle(ctx, models.MediaMovie, 78)
	if err != nil {
		t.Fatalf("GetTitle() error = %v", err)
	}
	if got.Vector != first.Vector {
		t.Errorf("persisted vector = %v, want %v", got.Vector, first.Vector)
	}
}

func TestStore_InsertTitleIfAbsent_ConcurrentConvergence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Five parallel callers resolving the same unseen title must converge to
	// exactly one persisted record.
	const callers = 5
	var wg sync.WaitGroup
	vectors := make([]mood.Vector, callers)
	for i := 0; i < callers; i++ {
		vectors[i] = mood.Vector{Adrenaline: 10 * (i + 1), Tension: 50}
	}

	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = s.InsertTitleIfAbsent(ctx, testTitle(550, vectors[i]))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: InsertTitleIfAbsent() error = %v", i, err)
		}
	}

	got, err := s.GetTitle(ctx, models.MediaMovie, 550)
	if err != nil {
		t.Fatalf("GetTitle() error = %v", err)
	}
	found := false
	for _, v := range vectors {
		if got.Vector == v {
			found = true
		}
	}
	if !found {
		t.Errorf("persisted vector %v is not one of the writers' vectors", got.Vector)
	}
}

func TestStore_ReplaceTitle_PreservesTranslations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := testTitle(100, mood.Vector{Tension: 60})
	if _, _, err := s.InsertTitleIfAbsent(ctx, title); err != nil {
		t.Fatalf("InsertTitleIfAbsent() error = %v", err)
	}
	meta := models.TitleMetadata{Title: "Bıçak Sırtı", Overview: "çeviri"}
	if err := s.SetTranslation(ctx, models.MediaMovie, 100, "tr-TR", meta); err != nil {
		t.Fatalf("SetTranslation() error = %v", err)
	}

	reanalyzed := testTitle(100, mood.Vector{Tension: 95, Darkness: 85})
	if err := s.ReplaceTitle(ctx, reanalyzed); err != nil {
		t.Fatalf("ReplaceTitle() error = %v", err)
	}

	got, err := s.GetTitle(ctx, models.MediaMovie, 100)
	if err != nil {
		t.Fatalf("GetTitle() error = %v", err)
	}
	if got.Vector != reanalyzed.Vector {
		t.Errorf("vector after replace = %v, want %v", got.Vector, reanalyzed.Vector)
	}
	if got.Translations["tr-TR"] != meta {
		t.Errorf("translations lost on replace: %v", got.Translations)
	}
}

func TestStore_SetTranslation_MissingTitle(t *testing.T) {
	s := newTestStore(t)
	err := s.SetTranslation(context.Background(), models.MediaMovie, 9999, "fr-FR", models.TitleMetadata{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("SetTranslation() error = %v, want ErrNotFound", err)
	}
}

func TestStore_FindTitleByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, _, err := s.InsertTitleIfAbsent(ctx, testTitle(78, mood.Vector{Wonder: 80})); err != nil {
		t.Fatalf("InsertTitleIfAbsent() error = %v", err)
	}

	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"exact match", "Blade Runner", false},
		{"case-insensitive match", "bLaDe RUNNER", false},
		{"surrounding whitespace trimmed", "  Blade Runner  ", false},
		{"no match", "Blase Runner", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindTitleByName(ctx, models.MediaMovie, tt.query)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("FindTitleByName() error = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindTitleByName() error = %v", err)
			}
			if got.CatalogID != 78 {
				t.Errorf("FindTitleByName() catalog id = %d, want 78", got.CatalogID)
			}
		})
	}
}

func TestStore_ListTitles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		title := testTitle(i, mood.Vector{Joy: i * 10})
		title.Title = title.Title + " " + string(rune('0'+i))
		if _, _, err := s.InsertTitleIfAbsent(ctx, title); err != nil {
			t.Fatalf("InsertTitleIfAbsent() error = %v", err)
		}
	}

	all, err := s.ListTitles(ctx, models.MediaMovie, 0)
	if err != nil {
		t.Fatalf("ListTitles() error = %v", err)
	}
	if len(all) != 4 {
		t.Errorf("ListTitles(0) returned %d titles, want 4", len(all))
	}

	limited, err := s.ListTitles(ctx, models.MediaMovie, 2)
	if err != nil {
		t.Fatalf("ListTitles() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListTitles(2) returned %d titles, want 2", len(limited))
	}

	series, err := s.ListTitles(ctx, models.MediaSeries, 0)
	if err != nil {
		t.Fatalf("ListTitles() error = %v", err)
	}
	if len(series) != 0 {
		t.Errorf("ListTitles(series) returned %d titles, want 0", len(series))
	}
}
