// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package mood

import (
	"math"
	"sort"
	"strings"
)

// CosineSimilarity computes the standard cosine similarity between two mood
// vectors, in [-1,1]. A zero-magnitude vector on either side yields 0 rather
// than a division by zero.
func CosineSimilarity(a, b Vector) float64 {
	av := a.Values()
	bv := b.Values()

	var dot, magA, magB float64
	for i := 0; i < NumDimensions; i++ {
		x := float64(av[i])
		y := float64(bv[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// ToPercentage linearly remaps a similarity in [-1,1] to [0,100].
// The mapping is strictly monotonic.
func ToPercentage(sim float64) float64 {
	return (sim + 1) / 2 * 100
}

// Round1 rounds to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ClampPercent restricts a score to the [0,100] display range.
func ClampPercent(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

// Polarity penalty thresholds for the non-AI ranking path. A strong mismatch
// on darkness or joy costs more than one on tension.
const (
	darknessPenalty = 0.30
	joyPenalty      = 0.30
	tensionPenalty  = 0.20
)

// PenalizedScore ranks a candidate against a target vector with the polarity
// penalty rules applied to the raw similarity ratio before conversion to a
// percentage. Used only in shift/fallback ranking over the analyzed catalog;
// the AI-curated path scores without penalties. The result is clamped to
// [0,100] and rounded to one decimal.
func PenalizedScore(target, candidate Vector) float64 {
	sim := CosineSimilarity(target, candidate)

	if target.Darkness >= 80 && candidate.Darkness <= 40 {
		sim -= darknessPenalty
	}
	if target.Joy <= 20 && candidate.Joy >= 80 {
		sim -= joyPenalty
	}
	if target.Tension >= 80 && candidate.Tension <= 40 {
		sim -= tensionPenalty
	}

	return Round1(ClampPercent(ToPercentage(sim)))
}

// MatchScore ranks a resolved AI candidate against the user vector:
// cosine similarity scaled to 100 plus a flat bonus when the candidate shares
// a dominant genre, clamped to [0,100] and rounded to one decimal.
//
// The bonus is an unconditional additive constant with no normalization
// against the base score's scale; tuning it is a product decision.
const GenreBonus = 5.0

// MatchScore computes the AI-curated ranking score.
func MatchScore(user, title Vector, sharesGenre bool) float64 {
	score := CosineSimilarity(user, title) * 100
	if sharesGenre {
		score += GenreBonus
	}
	return Round1(ClampPercent(score))
}

// Description phrasing thresholds.
const (
	highThreshold = 60
	lowThreshold  = 40
	maxHighDims   = 3
	maxLowDims    = 2
)

// BuildDescription phrases a vector as a natural-language mood summary for
// candidate discovery: up to 3 dimensions at 60 or above described as high,
// up to 2 dimensions below 40 described as low. A vector with no qualifying
// dimension falls back to balanced-mood text.
func BuildDescription(v Vector) string {
	values := v.Values()

	type dim struct {
		name  string
		value int
	}

	var highs, lows []dim
	for i, value := range values {
		switch {
		case value >= highThreshold:
			highs = append(highs, dim{DimensionNames[i], value})
		case value < lowThreshold:
			lows = append(lows, dim{DimensionNames[i], value})
		}
	}

	// Strongest signals first; ties keep dimension order.
	sort.SliceStable(highs, func(i, j int) bool { return highs[i].value > highs[j].value })
	sort.SliceStable(lows, func(i, j int) bool { return lows[i].value < lows[j].value })

	if len(highs) > maxHighDims {
		highs = highs[:maxHighDims]
	}
	if len(lows) > maxLowDims {
		lows = lows[:maxLowDims]
	}

	if len(highs) == 0 && len(lows) == 0 {
		return "a balanced mood with no strongly dominant emotional dimension"
	}

	var parts []string
	for _, d := range highs {
		parts = append(parts, "high "+d.name)
	}
	for _, d := range lows {
		parts = append(parts, "low "+d.name)
	}
	return strings.Join(parts, ", ")
}

// dominantCount is how many top dimensions contribute genres.
const dominantCount = 3

// DominantGenres maps the top-3 dimensions by value through the fixed
// dimension-to-genre table and returns the union of their genres. Ties are
// broken by dimension order for determinism.
func DominantGenres(v Vector) []string {
	values := v.Values()

	indices := make([]int, NumDimensions)
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return values[indices[i]] > values[indices[j]]
	})

	seen := make(map[string]struct{})
	var genres []string
	for _, idx := range indices[:dominantCount] {
		for _, genre := range dimensionGenres[idx] {
			if _, ok := seen[genre]; ok {
				continue
			}
			seen[genre] = struct{}{}
			genres = append(genres, genre)
		}
	}
	return genres
}

// SharesGenre reports whether any of the title's genres appears in the
// dominant set. Comparison is case-insensitive.
func SharesGenre(titleGenres, dominant []string) bool {
	if len(titleGenres) == 0 || len(dominant) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(dominant))
	for _, g := range dominant {
		set[strings.ToLower(g)] = struct{}{}
	}
	for _, g := range titleGenres {
		if _, ok := set[strings.ToLower(g)]; ok {
			return true
		}
	}
	return false
}
