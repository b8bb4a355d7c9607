// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

// Package mood implements the 10-dimension mood fingerprint and the pure
// vector arithmetic used by the profiling and recommendation engine: clamped
// construction, inversion, cosine similarity, polarity penalty scoring, mood
// description phrasing, and dominant-dimension genre mapping.
//
// This package has no dependencies on other internal packages so the math can
// be exercised in isolation.
package mood

import (
	"fmt"
	"math"
)

// NumDimensions is the number of emotional dimensions in a mood vector.
const NumDimensions = 10

// Dimension indices into the ordered tuple returned by Values.
const (
	DimAdrenaline = iota
	DimMelancholy
	DimJoy
	DimTension
	DimIntellect
	DimRomance
	DimWonder
	DimNostalgia
	DimDarkness
	DimInspiration
)

// DimensionNames lists the dimension names in tuple order.
var DimensionNames = [NumDimensions]string{
	"adrenaline",
	"melancholy",
	"joy",
	"tension",
	"intellect",
	"romance",
	"wonder",
	"nostalgia",
	"darkness",
	"inspiration",
}

// Vector is an immutable 10-dimension mood fingerprint. Every field lies in
// [0,100]; construct through FromValues or Clamped to preserve the invariant.
type Vector struct {
	Adrenaline  int `json:"adrenaline"`
	Melancholy  int `json:"melancholy"`
	Joy         int `json:"joy"`
	Tension     int `json:"tension"`
	Intellect   int `json:"intellect"`
	Romance     int `json:"romance"`
	Wonder      int `json:"wonder"`
	Nostalgia   int `json:"nostalgia"`
	Darkness    int `json:"darkness"`
	Inspiration int `json:"inspiration"`
}

// Neutral returns the neutral vector: every dimension at the 50 midpoint.
func Neutral() Vector {
	return Vector{
		Adrenaline:  50,
		Melancholy:  50,
		Joy:         50,
		Tension:     50,
		Intellect:   50,
		Romance:     50,
		Wonder:      50,
		Nostalgia:   50,
		Darkness:    50,
		Inspiration: 50,
	}
}

// Clamp restricts a single dimension score to [0,100].
func Clamp(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// Values returns the dimensions as an ordered tuple.
func (v Vector) Values() [NumDimensions]int {
	return [NumDimensions]int{
		v.Adrenaline,
		v.Melancholy,
		v.Joy,
		v.Tension,
		v.Intellect,
		v.Romance,
		v.Wonder,
		v.Nostalgia,
		v.Darkness,
		v.Inspiration,
	}
}

// FromValues builds a vector from an ordered tuple, clamping each dimension.
func FromValues(values [NumDimensions]int) Vector {
	return Vector{
		Adrenaline:  Clamp(values[DimAdrenaline]),
		Melancholy:  Clamp(values[DimMelancholy]),
		Joy:         Clamp(values[DimJoy]),
		Tension:     Clamp(values[DimTension]),
		Intellect:   Clamp(values[DimIntellect]),
		Romance:     Clamp(values[DimRomance]),
		Wonder:      Clamp(values[DimWonder]),
		Nostalgia:   Clamp(values[DimNostalgia]),
		Darkness:    Clamp(values[DimDarkness]),
		Inspiration: Clamp(values[DimInspiration]),
	}
}

// Clamped returns a copy with every dimension restricted to [0,100].
func (v Vector) Clamped() Vector {
	return FromValues(v.Values())
}

// Invert mirrors every dimension around the scale: each field becomes
// 100 - value. Inversion is its own inverse for in-range vectors.
func (v Vector) Invert() Vector {
	values := v.Values()
	for i := range values {
		values[i] = 100 - values[i]
	}
	return FromValues(values)
}

// Blend pulls the current vector toward the target, each dimension moving by
// the influence fraction of the distance, rounded to the nearest integer.
// Used by like feedback with influence 0.3.
func Blend(current, target Vector, influence float64) Vector {
	cv := current.Values()
	tv := target.Values()
	var out [NumDimensions]int
	for i := 0; i < NumDimensions; i++ {
		blended := float64(cv[i])*(1-influence) + float64(tv[i])*influence
		out[i] = int(math.Round(blended))
	}
	return FromValues(out)
}

// Repel pushes the current vector away from the target relative to the
// neutral midpoint: each dimension moves by influence times the target's
// displacement from 50, clamped to [0,100]. Used by dislike feedback with
// influence 0.15.
func Repel(current, target Vector, influence float64) Vector {
	cv := current.Values()
	tv := target.Values()
	var out [NumDimensions]int
	for i := 0; i < NumDimensions; i++ {
		repelled := float64(cv[i]) - (float64(tv[i])-50)*influence
		out[i] = int(math.Round(repelled))
	}
	return FromValues(out)
}

// IsZero reports whether every dimension is 0 (zero magnitude).
func (v Vector) IsZero() bool {
	for _, value := range v.Values() {
		if value != 0 {
			return false
		}
	}
	return true
}

// String renders the vector compactly for logs.
func (v Vector) String() string {
	values := v.Values()
	s := ""
	for i, value := range values {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%d", DimensionNames[i], value)
	}
	return s
}
