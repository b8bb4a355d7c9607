// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    mood.Vector
		wantErr bool
	}{
		{
			name: "nested shape",
			raw:  `{"reasoning": "grim thriller", "scores": {"adrenaline": 70, "darkness": 85, "joy": 10}}`,
			want: mood.Vector{Adrenaline: 70, Darkness: 85, Joy: 10},
		},
		{
			name: "flat shape",
			raw:  `{"adrenaline": 70, "darkness": 85, "joy": 10}`,
			want: mood.Vector{Adrenaline: 70, Darkness: 85, Joy: 10},
		},
		{
			name: "fenced nested shape",
			raw:  "```json\n{\"reasoning\": \"x\", \"scores\": {\"wonder\": 90}}\n```",
			want: mood.Vector{Wonder: 90},
		},
		{
			name: "out of range values clamped",
			raw:  `{"scores": {"adrenaline": 150, "melancholy": -20, "joy": 100}}`,
			want: mood.Vector{Adrenaline: 100, Melancholy: 0, Joy: 100},
		},
		{
			name: "absent dimensions default to zero",
			raw:  `{"scores": {"romance": 60}}`,
			want: mood.Vector{Romance: 60},
		},
		{
			name:    "prose is rejected",
			raw:     "Sure! Here is the analysis you asked for.",
			wantErr: true,
		},
		{
			name:    "empty object is rejected",
			raw:     `{}`,
			wantErr: true,
		},
		{
			name:    "empty string is rejected",
			raw:     "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnalysis(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAnalysis() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseAnalysis() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSuspectAnalysis(t *testing.T) {
	flat := mood.Neutral()
	if !isSuspectAnalysis(flat) {
		t.Error("all-50 vector should be suspect")
	}
	committed := mood.Vector{Adrenaline: 50, Darkness: 85, Joy: 50}
	if isSuspectAnalysis(committed) {
		t.Error("vector with a dimension outside 40-60 should not be suspect")
	}
	low := mood.Vector{} // all zero
	if isSuspectAnalysis(low) {
		t.Error("all-zero vector should not be suspect")
	}
}

func TestAnalyzeFailsClosedOnCompleterError(t *testing.T) {
	completer := &mockCompleter{complete: func(system, user string) (string, error) {
		return "", errors.New("upstream down")
	}}
	eng, _ := newTestEngine(t, completer, newMockCatalog())

	_, err := eng.Analyzer.Analyze(context.Background(), AnalysisInput{Title: "Heat"})
	if !errors.Is(err, ErrAnalysisUnavailable) {
		t.Errorf("Analyze() error = %v, want ErrAnalysisUnavailable", err)
	}
}

func TestAnalyzeFailsClosedOnGarbage(t *testing.T) {
	completer := &mockCompleter{complete: func(system, user string) (string, error) {
		return "I cannot help with that.", nil
	}}
	eng, _ := newTestEngine(t, completer, newMockCatalog())

	_, err := eng.Analyzer.Analyze(context.Background(), AnalysisInput{Title: "Heat"})
	if !errors.Is(err, ErrAnalysisUnavailable) {
		t.Errorf("Analyze() error = %v, want ErrAnalysisUnavailable", err)
	}
}

func TestGetOrAnalyzeCaches(t *testing.T) {
	completer := &mockCompleter{complete: func(system, user string) (string, error) {
		return scoresResponse(map[string]int{"adrenaline": 90, "tension": 80}), nil
	}}
	eng, _ := newTestEngine(t, completer, newMockCatalog())
	ctx := context.Background()

	skeleton := func() *models.AnalyzedTitle {
		return &models.AnalyzedTitle{CatalogID: 603, Kind: models.MediaMovie, Title: "The Matrix"}
	}

	first, err := eng.Analyzer.GetOrAnalyze(ctx, skeleton())
	if err != nil {
		t.Fatalf("first GetOrAnalyze: %v", err)
	}
	if first.Vector.Adrenaline != 90 {
		t.Errorf("adrenaline = %d, want 90", first.Vector.Adrenaline)
	}
	if completer.callCount() != 1 {
		t.Fatalf("completer calls after first = %d, want 1", completer.callCount())
	}

	second, err := eng.Analyzer.GetOrAnalyze(ctx, skeleton())
	if err != nil {
		t.Fatalf("second GetOrAnalyze: %v", err)
	}
	if completer.callCount() != 1 {
		t.Errorf("completer calls after second = %d, want 1 (cache hit)", completer.callCount())
	}
	if second.Vector != first.Vector {
		t.Errorf("cached vector %v differs from first %v", second.Vector, first.Vector)
	}
}

func TestReanalyzeOverwrites(t *testing.T) {
	response := scoresResponse(map[string]int{"joy": 95})
	completer := &mockCompleter{complete: func(system, user string) (string, error) {
		return response, nil
	}}
	eng, st := newTestEngine(t, completer, newMockCatalog())
	ctx := context.Background()

	seedAnalyzedTitle(t, st, 603, "The Matrix", mood.Vector{Adrenaline: 90})

	updated, err := eng.Analyzer.Reanalyze(ctx, &models.AnalyzedTitle{
		CatalogID: 603, Kind: models.MediaMovie, Title: "The Matrix",
	})
	if err != nil {
		t.Fatalf("Reanalyze: %v", err)
	}
	if updated.Vector.Joy != 95 {
		t.Errorf("joy = %d, want 95", updated.Vector.Joy)
	}

	stored, err := st.GetTitle(ctx, models.MediaMovie, 603)
	if err != nil {
		t.Fatalf("GetTitle: %v", err)
	}
	if stored.Vector.Joy != 95 || stored.Vector.Adrenaline != 0 {
		t.Errorf("stored vector = %v, want overwritten by reanalysis", stored.Vector)
	}
}
