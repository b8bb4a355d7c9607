// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package mood

import (
	"math"
	"strings"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want float64
		tol  float64
	}{
		{
			name: "identical non-zero vectors are maximally similar",
			a:    Vector{Adrenaline: 80, Joy: 20, Darkness: 60},
			b:    Vector{Adrenaline: 80, Joy: 20, Darkness: 60},
			want: 1.0,
			tol:  1e-9,
		},
		{
			name: "zero vector on the left yields zero",
			a:    Vector{},
			b:    Neutral(),
			want: 0,
			tol:  0,
		},
		{
			name: "zero vector on the right yields zero",
			a:    Neutral(),
			b:    Vector{},
			want: 0,
			tol:  0,
		},
		{
			name: "orthogonal vectors yield zero",
			a:    Vector{Adrenaline: 100},
			b:    Vector{Joy: 100},
			want: 0,
			tol:  1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("CosineSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_Range(t *testing.T) {
	vectors := []Vector{
		Neutral(),
		{Adrenaline: 100, Darkness: 100},
		{Joy: 5, Melancholy: 95, Tension: 40},
		{Romance: 1},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			sim := CosineSimilarity(a, b)
			if sim < -1 || sim > 1 {
				t.Errorf("CosineSimilarity(%v, %v) = %f, outside [-1,1]", a, b, sim)
			}
		}
	}
}

func TestToPercentage(t *testing.T) {
	tests := []struct {
		sim  float64
		want float64
	}{
		{-1, 0},
		{0, 50},
		{1, 100},
		{0.5, 75},
	}
	for _, tt := range tests {
		if got := ToPercentage(tt.sim); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ToPercentage(%f) = %f, want %f", tt.sim, got, tt.want)
		}
	}
}

func TestToPercentage_Monotonic(t *testing.T) {
	prev := math.Inf(-1)
	for sim := -1.0; sim <= 1.0; sim += 0.01 {
		got := ToPercentage(sim)
		if got <= prev {
			t.Fatalf("ToPercentage not strictly increasing at sim=%f", sim)
		}
		prev = got
	}
}

func TestPenalizedScore_PolarityRules(t *testing.T) {
	// Shift-mode scenario: user profile darkness=90, joy=10, others 50.
	// The shift target is the inverted profile (darkness=10, joy=90).
	profile := Neutral()
	profile.Darkness = 90
	profile.Joy = 10
	target := profile.Invert()

	bright := Neutral()
	bright.Joy = 90
	bright.Darkness = 10

	grim := Neutral()
	grim.Joy = 10
	grim.Darkness = 90

	brightScore := PenalizedScore(target, bright)
	grimScore := PenalizedScore(target, grim)
	if brightScore <= grimScore {
		t.Errorf("shift ranking: bright title scored %f, grim title %f; want bright > grim",
			brightScore, grimScore)
	}
}

func TestPenalizedScore_AppliesPenalties(t *testing.T) {
	tests := []struct {
		name      string
		target    Vector
		candidate Vector
		penalty   float64
	}{
		{
			name:      "dark target vs light candidate",
			target:    Vector{Darkness: 85, Tension: 50, Joy: 50},
			candidate: Vector{Darkness: 30, Tension: 50, Joy: 50},
			penalty:   darknessPenalty,
		},
		{
			name:      "joyless target vs joyful candidate",
			target:    Vector{Joy: 10, Darkness: 50, Tension: 50},
			candidate: Vector{Joy: 90, Darkness: 50, Tension: 50},
			penalty:   joyPenalty,
		},
		{
			name:      "tense target vs slack candidate",
			target:    Vector{Tension: 90, Darkness: 50, Joy: 50},
			candidate: Vector{Tension: 20, Darkness: 50, Joy: 50},
			penalty:   tensionPenalty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PenalizedScore(tt.target, tt.candidate)
			raw := CosineSimilarity(tt.target, tt.candidate)
			want := Round1(ClampPercent(ToPercentage(raw - tt.penalty)))
			if got != want {
				t.Errorf("PenalizedScore() = %f, want %f (raw sim %f minus %f)",
					got, want, raw, tt.penalty)
			}
		})
	}
}

func TestPenalizedScore_ClampedAndRounded(t *testing.T) {
	// Strong mismatch on every penalized axis can push below zero; the final
	// score must stay in [0,100].
	target := Vector{Darkness: 100, Tension: 100, Joy: 0}
	candidate := Vector{Darkness: 0, Tension: 0, Joy: 100}
	got := PenalizedScore(target, candidate)
	if got < 0 || got > 100 {
		t.Errorf("PenalizedScore() = %f, outside [0,100]", got)
	}
	if got != Round1(got) {
		t.Errorf("PenalizedScore() = %f, not rounded to one decimal", got)
	}
}

func TestMatchScore(t *testing.T) {
	user := Vector{Adrenaline: 80, Tension: 70, Joy: 30}

	base := MatchScore(user, user, false)
	if math.Abs(base-100.0) > 0.11 {
		t.Errorf("MatchScore(v, v, false) = %f, want ~100", base)
	}

	// Bonus pushes score but remains clamped.
	bonus := MatchScore(user, user, true)
	if bonus != 100.0 {
		t.Errorf("MatchScore(v, v, true) = %f, want clamped 100", bonus)
	}

	other := Vector{Adrenaline: 40, Tension: 40, Joy: 60}
	without := MatchScore(user, other, false)
	with := MatchScore(user, other, true)
	if math.Abs((with-without)-GenreBonus) > 0.11 {
		t.Errorf("genre bonus delta = %f, want %f", with-without, GenreBonus)
	}
}

func TestBuildDescription(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector
		contains []string
		excludes []string
	}{
		{
			name:     "balanced vector falls back",
			v:        Neutral(),
			contains: []string{"balanced mood"},
		},
		{
			name:     "high and low dimensions phrased",
			v:        Vector{Adrenaline: 90, Tension: 85, Joy: 10, Melancholy: 55, Darkness: 45},
			contains: []string{"high adrenaline", "high tension", "low joy"},
			excludes: []string{"melancholy"},
		},
		{
			name: "at most three highs, strongest first",
			v: Vector{
				Adrenaline: 95, Tension: 90, Darkness: 85, Wonder: 80, Intellect: 75,
				Melancholy: 50, Joy: 50, Romance: 50, Nostalgia: 50, Inspiration: 50,
			},
			contains: []string{"high adrenaline", "high tension", "high darkness"},
			excludes: []string{"wonder", "intellect"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildDescription(tt.v)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("BuildDescription() = %q, missing %q", got, want)
				}
			}
			for _, not := range tt.excludes {
				if strings.Contains(got, not) {
					t.Errorf("BuildDescription() = %q, should not mention %q", got, not)
				}
			}
		})
	}
}

func TestDominantGenres(t *testing.T) {
	v := Vector{Adrenaline: 95, Darkness: 90, Tension: 85, Joy: 10}
	genres := DominantGenres(v)

	want := map[string]bool{
		"Action": true, "Adventure": true, // adrenaline
		"Horror": true, "Crime": true, // darkness
		"Thriller": true, "Mystery": true, // tension
	}
	if len(genres) != len(want) {
		t.Fatalf("DominantGenres() = %v, want %d genres", genres, len(want))
	}
	for _, g := range genres {
		if !want[g] {
			t.Errorf("DominantGenres() contains unexpected genre %q", g)
		}
	}
}

func TestDominantGenres_Deduplicates(t *testing.T) {
	// intellect and nostalgia both map History; the union must not repeat it.
	v := Vector{Intellect: 95, Nostalgia: 90, Romance: 85}
	genres := DominantGenres(v)
	seen := make(map[string]int)
	for _, g := range genres {
		seen[g]++
		if seen[g] > 1 {
			t.Errorf("DominantGenres() repeats genre %q", g)
		}
	}
}

func TestSharesGenre(t *testing.T) {
	dominant := []string{"Action", "Thriller"}
	if !SharesGenre([]string{"thriller", "Comedy"}, dominant) {
		t.Error("SharesGenre() = false for case-insensitive match, want true")
	}
	if SharesGenre([]string{"Romance"}, dominant) {
		t.Error("SharesGenre() = true for disjoint genres, want false")
	}
	if SharesGenre(nil, dominant) {
		t.Error("SharesGenre() = true for empty title genres, want false")
	}
}
