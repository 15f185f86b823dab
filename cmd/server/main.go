// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package main is the entry point for the PlatePick server.
//
// PlatePick recommends restaurants by combining provider ratings with
// travel time from the user's location, and learns from feedback rounds
// submitted by registered users.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading via Koanf v2 (defaults, config file,
//     PLATEPICK_* environment variables)
//  2. Logging: zerolog global logger
//  3. Store: BadgerDB (or in-memory for tests/dev) behind the Store interface
//  4. Upstream clients: place search and distance-matrix, each with its own
//     rate limiter and circuit breaker
//  5. Recommendation service and feedback repository
//  6. HTTP API: Chi router with CORS, rate limiting and Prometheus metrics
//  7. Supervision: suture tree running the HTTP server and badger GC
//
// The server shuts down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platepick/platepick/internal/api"
	"github.com/platepick/platepick/internal/auth"
	"github.com/platepick/platepick/internal/config"
	"github.com/platepick/platepick/internal/feedback"
	"github.com/platepick/platepick/internal/logging"
	"github.com/platepick/platepick/internal/places"
	"github.com/platepick/platepick/internal/recommend"
	"github.com/platepick/platepick/internal/store"
	"github.com/platepick/platepick/internal/supervisor"
	"github.com/platepick/platepick/internal/supervisor/services"
	"github.com/platepick/platepick/internal/travel"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logging.Info().
		Str("backend", cfg.Store.Backend).
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Msg("Starting PlatePick server")

	factory, err := store.NewFactory(store.BackendType(cfg.Store.Backend), cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := factory.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close store")
		}
	}()

	st := factory.CreateStore()
	repo := feedback.NewRepository(st)

	verifier, err := auth.NewJWTVerifier(cfg.Auth)
	if err != nil {
		return fmt.Errorf("init token verifier: %w", err)
	}

	placesClient := places.NewClient(cfg.Places, cfg.Search)
	travelClient := travel.NewClient(cfg.Places)
	recommender := recommend.NewService(placesClient, travelClient, repo, cfg.Scoring)

	handler := api.NewHandler(recommender, repo, verifier, cfg.API)
	router := api.NewRouter(handler, cfg.API)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	if badgerStore, ok := st.(*store.BadgerStore); ok {
		tree.AddStorageService(services.NewStoreGCService(
			badgerStore, cfg.Store.GCInterval, cfg.Store.GCDiscardRatio))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && err != context.Canceled {
		return fmt.Errorf("supervisor: %w", err)
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Server stopped")
	return nil
}
