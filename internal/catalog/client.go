// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

// Package catalog is the client for the external title catalog (TMDB-style
// REST API). The engine consumes it through the Catalog interface: free-text
// search resolving to a best match, and detail lookups with per-language
// variants.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// ErrNoResults indicates the search matched nothing in the catalog.
var ErrNoResults = errors.New("catalog search returned no results")

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024

// SearchMatch is the best search hit for a free-text title query.
type SearchMatch struct {
	// ID is the canonical catalog identifier.
	ID int `json:"id"`

	// Title is the display title in the requested language.
	Title string `json:"title"`

	// ReleaseDate is the release date (YYYY-MM-DD), possibly empty.
	ReleaseDate string `json:"release_date"`

	// PosterPath is the poster image reference.
	PosterPath string `json:"poster_path"`
}

// Details is the full catalog metadata for a title.
type Details struct {
	// ID is the canonical catalog identifier.
	ID int `json:"id"`

	// Title is the display title in the requested language.
	Title string `json:"title"`

	// Overview is the synopsis in the requested language.
	Overview string `json:"overview"`

	// Genres is the genre name list.
	Genres []string `json:"genres"`

	// PosterPath is the poster image reference.
	PosterPath string `json:"poster_path"`

	// ReleaseDate is the release date (YYYY-MM-DD).
	ReleaseDate string `json:"release_date"`

	// Runtime is the runtime in minutes, 0 when unknown.
	Runtime int `json:"runtime"`
}

// Catalog is the catalog-service contract consumed by the engine.
type Catalog interface {
	// SearchMovie resolves a free-text title to the best catalog match.
	// Year narrows the search when non-zero; language selects localized
	// display fields. Returns ErrNoResults when nothing matches.
	SearchMovie(ctx context.Context, title string, year int, language string) (*SearchMatch, error)

	// MovieDetails fetches the full metadata for a catalog id, localized to
	// the given language when non-empty.
	MovieDetails(ctx context.Context, id int, language string) (*Details, error)

	// PopularMovies lists currently popular titles, localized to the given
	// language when non-empty. Used as a fallback candidate source.
	PopularMovies(ctx context.Context, language string, limit int) ([]SearchMatch, error)
}

// Config configures the catalog client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.themoviedb.org/3.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// RequestsPerSecond caps the request rate. 0 disables limiting.
	RequestsPerSecond int
}

// Client is the HTTP catalog client.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a catalog client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond)
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
	}
}

type searchResponse struct {
	Results []SearchMatch `json:"results"`
}

type detailsResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"`
	Runtime     int    `json:"runtime"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

// SearchMovie implements Catalog.
func (c *Client) SearchMovie(ctx context.Context, title string, year int, language string) (*SearchMatch, error) {
	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	if language != "" {
		params.Set("language", language)
	}

	var parsed searchResponse
	if err := c.get(ctx, "/search/movie", params, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Results) == 0 {
		return nil, ErrNoResults
	}
	// The catalog orders results by relevance; the first hit is the match.
	match := parsed.Results[0]
	return &match, nil
}

// MovieDetails implements Catalog.
func (c *Client) MovieDetails(ctx context.Context, id int, language string) (*Details, error) {
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	var parsed detailsResponse
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), params, &parsed); err != nil {
		return nil, err
	}

	genres := make([]string, 0, len(parsed.Genres))
	for _, g := range parsed.Genres {
		genres = append(genres, g.Name)
	}
	return &Details{
		ID:          parsed.ID,
		Title:       parsed.Title,
		Overview:    parsed.Overview,
		Genres:      genres,
		PosterPath:  parsed.PosterPath,
		ReleaseDate: parsed.ReleaseDate,
		Runtime:     parsed.Runtime,
	}, nil
}

// PopularMovies implements Catalog.
func (c *Client) PopularMovies(ctx context.Context, language string, limit int) ([]SearchMatch, error) {
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}

	var parsed searchResponse
	if err := c.get(ctx, "/movie/popular", params, &parsed); err != nil {
		return nil, err
	}
	if limit > 0 && len(parsed.Results) > limit {
		parsed.Results = parsed.Results[:limit]
	}
	return parsed.Results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("catalog rate limit wait: %w", err)
		}
	}

	params.Set("api_key", c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNoResults
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("catalog returned status %d for %s: %s", resp.StatusCode, path, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}
