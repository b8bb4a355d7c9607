// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

// Package api exposes the mood profiling and recommendation engine over a
// chi-routed HTTP API with a uniform JSON envelope.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/YldzBerkay/film-track-be-sub000/internal/config"
	"github.com/YldzBerkay/film-track-be-sub000/internal/engine"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
	"github.com/YldzBerkay/film-track-be-sub000/internal/mood"
	"github.com/YldzBerkay/film-track-be-sub000/internal/store"
)

// maxRequestBody caps decoded request bodies.
const maxRequestBody = 1 << 20

// Server holds the handler dependencies.
type Server struct {
	engine *engine.Engine
	store  *store.Store
	cfg    config.EngineConfig
}

// NewServer creates the API server over the engine and store.
func NewServer(eng *engine.Engine, st *store.Store, cfg config.EngineConfig) *Server {
	return &Server{engine: eng, store: st, cfg: cfg}
}

// handleHealth reports overall service health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "healthy"}, time.Now())
}

// handleLive is the liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// handleReady verifies the store answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	if _, err := s.store.ListTitles(r.Context(), models.MediaMovie, 1); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "store unavailable", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, started)
}

// moodResponse is the user mood payload.
type moodResponse struct {
	UserID      string      `json:"user_id"`
	Vector      mood.Vector `json:"vector"`
	Description string      `json:"description"`
}

// handleUserMood returns the user's current mood fingerprint, recomputing on
// demand when force=true.
func (s *Server) handleUserMood(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")
	force := getBoolParam(r, "force")

	vec, err := s.engine.Profiles.GetUserMood(r.Context(), userID, force)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, moodResponse{
		UserID:      userID,
		Vector:      vec,
		Description: mood.BuildDescription(vec),
	}, started)
}

// handleMoodHistory returns the user's snapshot timeline.
func (s *Server) handleMoodHistory(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	snapshots, err := s.engine.Profiles.History(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load mood history", err)
		return
	}
	respondSuccess(w, http.StatusOK, snapshots, started)
}

// recommendationsQuery validates the recommendation request parameters.
type recommendationsQuery struct {
	Mode  string `validate:"oneof=match shift"`
	Limit int    `validate:"min=1"`
}

// handleRecommendations returns the ranked set for the user.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	q := recommendationsQuery{
		Mode:  r.URL.Query().Get("mode"),
		Limit: getIntParam(r, "limit", s.cfg.DefaultLimit),
	}
	if q.Mode == "" {
		q.Mode = string(models.ModeMatch)
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if q.Limit > s.cfg.MaxLimit {
		q.Limit = s.cfg.MaxLimit
	}

	ranked, err := s.engine.Curator.Recommend(
		r.Context(), userID, models.RecommendMode(q.Mode),
		q.Limit, r.URL.Query().Get("language"), getBoolParam(r, "refresh"),
	)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, ranked, started)
}

// feedbackRequest is the reaction submission body.
type feedbackRequest struct {
	CatalogID int    `json:"catalog_id" validate:"required,gte=1"`
	Title     string `json:"title" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=like dislike"`
}

// handleFeedback applies a like or dislike to the user's profile.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	var req feedbackRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	err := s.engine.Feedback.Submit(r.Context(), userID, req.CatalogID, req.Title, engine.FeedbackAction(req.Action))
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"result": "applied"}, started)
}

// replacementRequest asks for one fresh recommendation.
type replacementRequest struct {
	ExcludeIDs []int  `json:"exclude_ids"`
	Language   string `json:"language"`
}

// handleReplacement serves a quota-limited single replacement.
func (s *Server) handleReplacement(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	var req replacementRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	title, err := s.engine.Feedback.SingleReplacement(r.Context(), userID, req.ExcludeIDs, req.Language)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, title, started)
}

// analyzeRequest asks for a title fingerprint.
type analyzeRequest struct {
	CatalogID int      `json:"catalog_id" validate:"required,gte=1"`
	Title     string   `json:"title" validate:"required"`
	Overview  string   `json:"overview"`
	Genres    []string `json:"genres"`
	Force     bool     `json:"force"`
}

// handleAnalyzeTitle fingerprints a title on demand, reusing the stored
// analysis unless force is set.
func (s *Server) handleAnalyzeTitle(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req analyzeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	skeleton := &models.AnalyzedTitle{
		CatalogID: req.CatalogID,
		Kind:      models.MediaMovie,
		Title:     req.Title,
		Overview:  req.Overview,
		Genres:    req.Genres,
	}

	var title *models.AnalyzedTitle
	var err error
	if req.Force {
		title, err = s.engine.Analyzer.Reanalyze(r.Context(), skeleton)
	} else {
		title, err = s.engine.Analyzer.GetOrAnalyze(r.Context(), skeleton)
	}
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, title, started)
}

// decodeBody decodes a JSON request body, responding with INVALID_BODY on
// failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON", err)
		return false
	}
	return true
}

// respondEngineError maps engine sentinels to HTTP statuses.
func (s *Server) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrQuotaExceeded):
		respondError(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", "monthly replacement quota exhausted", nil)
	case errors.Is(err, engine.ErrTitleNotFound):
		respondError(w, http.StatusNotFound, "TITLE_NOT_FOUND", "title not found in catalog", nil)
	case errors.Is(err, engine.ErrNoValidMovies):
		respondError(w, http.StatusNotFound, "NO_VALID_MOVIES", "no replacement candidate survived filtering", nil)
	case errors.Is(err, engine.ErrNoSuggestions):
		respondError(w, http.StatusBadGateway, "NO_SUGGESTIONS", "completion service returned no suggestions", nil)
	case errors.Is(err, engine.ErrAnalysisUnavailable):
		respondError(w, http.StatusServiceUnavailable, "ANALYSIS_UNAVAILABLE", "mood analysis temporarily unavailable", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
	}
}
