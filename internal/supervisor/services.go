// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// ValueLogGCer runs one round of store value-log garbage collection.
type ValueLogGCer interface {
	RunValueLogGC() error
}

// RecommendationSweeper removes expired recommendation cache entries.
type RecommendationSweeper interface {
	SweepExpiredRecommendations(ctx context.Context, now time.Time) (int, error)
}

// GCService periodically reclaims Badger value-log space.
type GCService struct {
	Store    ValueLogGCer
	Interval time.Duration
	Logger   zerolog.Logger
}

// Serve implements suture.Service.
func (s *GCService) Serve(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Repeat until a round reclaims nothing.
			for {
				err := s.Store.RunValueLogGC()
				if errors.Is(err, badger.ErrNoRewrite) {
					break
				}
				if err != nil {
					s.Logger.Warn().Err(err).Msg("value log GC failed")
					break
				}
			}
		}
	}
}

func (s *GCService) String() string { return "badger-gc" }

// SweepService periodically removes expired recommendation cache entries so
// stale sets do not accumulate for inactive users.
type SweepService struct {
	Store    RecommendationSweeper
	Interval time.Duration
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Serve implements suture.Service.
func (s *SweepService) Serve(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := s.Store.SweepExpiredRecommendations(ctx, now())
			if err != nil {
				s.Logger.Warn().Err(err).Msg("recommendation sweep failed")
				continue
			}
			if removed > 0 {
				s.Logger.Info().Int("removed", removed).Msg("swept expired recommendations")
			}
		}
	}
}

func (s *SweepService) String() string { return "recommendation-sweeper" }

// HTTPService runs an http.Server under supervision, shutting it down
// gracefully when the supervisor context is canceled.
type HTTPService struct {
	Server          *http.Server
	ShutdownTimeout time.Duration
	Logger          zerolog.Logger
}

// Serve implements suture.Service.
func (s *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Server.ListenAndServe()
	}()
	s.Logger.Info().Str("addr", s.Server.Addr).Msg("http server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		timeout := s.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.Server.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warn().Err(err).Msg("http server shutdown failed")
		}
		return ctx.Err()
	}
}

func (s *HTTPService) String() string { return "http-server" }
