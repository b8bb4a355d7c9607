// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package mood

// dimensionGenres is the fixed dimension-to-genre lookup table, indexed by
// dimension tuple position. Genre names follow catalog (TMDB-style) naming.
var dimensionGenres = [NumDimensions][]string{
	DimAdrenaline:  {"Action", "Adventure"},
	DimMelancholy:  {"Drama"},
	DimJoy:         {"Comedy", "Family"},
	DimTension:     {"Thriller", "Mystery"},
	DimIntellect:   {"Documentary", "History"},
	DimRomance:     {"Romance"},
	DimWonder:      {"Fantasy", "Science Fiction"},
	DimNostalgia:   {"Music", "History"},
	DimDarkness:    {"Horror", "Crime"},
	DimInspiration: {"Drama", "Documentary"},
}
