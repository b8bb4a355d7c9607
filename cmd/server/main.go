// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

// Package main is the entry point for the FilmTrack server.
//
// FilmTrack profiles a user's emotional taste from their rated watch history
// and recommends films against it. Each title is fingerprinted on ten
// emotional dimensions through a completion service; user profiles aggregate
// those fingerprints weighted by rating and recency; curation ranks unseen
// titles by cosine similarity in match mode or against the inverted profile
// in shift mode.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml, env)
//  2. Logging: zerolog, JSON or console format
//  3. Store: Badger key-value document store
//  4. Clients: completion service (circuit-broken, rate-limited) and title
//     catalog
//  5. Engine: analyzer, profiles, curator, feedback
//  6. Supervision: suture tree running store maintenance loops and the HTTP
//     server
//
// # Configuration
//
// All settings have defaults; credentials come from the environment:
//
//	export FILMTRACK_LLM_API_KEY=sk-...
//	export FILMTRACK_CATALOG_API_KEY=...
//	export FILMTRACK_STORE_PATH=/data/filmtrack
//	./server
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, maintenance loops stop, and the store closes cleanly.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/YldzBerkay/film-track-be-sub000/internal/api"
	"github.com/YldzBerkay/film-track-be-sub000/internal/catalog"
	"github.com/YldzBerkay/film-track-be-sub000/internal/config"
	"github.com/YldzBerkay/film-track-be-sub000/internal/engine"
	"github.com/YldzBerkay/film-track-be-sub000/internal/llm"
	"github.com/YldzBerkay/film-track-be-sub000/internal/logging"
	"github.com/YldzBerkay/film-track-be-sub000/internal/store"
	"github.com/YldzBerkay/film-track-be-sub000/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).
		Msg("starting filmtrack server")

	st, err := store.Open(store.Options{
		Path:     cfg.Store.Path,
		InMemory: cfg.Store.InMemory,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("store close failed")
		}
	}()

	completer := llm.NewClient(llm.Config{
		BaseURL:           cfg.LLM.BaseURL,
		APIKey:            cfg.LLM.APIKey,
		Model:             cfg.LLM.Model,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})
	titleCatalog := catalog.NewClient(catalog.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		APIKey:            cfg.Catalog.APIKey,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
	})

	eng := engine.New(engine.Options{
		Store:          st,
		History:        st,
		Completer:      completer,
		Catalog:        titleCatalog,
		ResolveWorkers: cfg.Engine.ResolveWorkers,
	})

	router := api.NewRouter(api.NewServer(eng, st, cfg.Engine), cfg.Server)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	slogger := logging.NewSlogLogger()
	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(slogger, treeCfg)

	tree.AddMaintenanceService(&supervisor.GCService{
		Store:    st,
		Interval: cfg.Store.GCInterval,
		Logger:   logger.With().Str("service", "badger-gc").Logger(),
	})
	tree.AddMaintenanceService(&supervisor.SweepService{
		Store:    st,
		Interval: cfg.Store.SweepInterval,
		Logger:   logger.With().Str("service", "rec-sweeper").Logger(),
	})
	tree.AddAPIService(&supervisor.HTTPService{
		Server:          httpServer,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger.With().Str("service", "http").Logger(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logger.Info().Msg("shutdown complete")
	return nil
}
