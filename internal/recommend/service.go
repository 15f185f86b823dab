// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package recommend orchestrates one recommendation round: fetch candidate
// places, score them with the scorer matching the user's registration
// status, and return the top results sorted by score.
package recommend

import (
	"context"
	"sort"

	"github.com/platepick/platepick/internal/config"
	"github.com/platepick/platepick/internal/logging"
	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/places"
	"github.com/platepick/platepick/internal/scorer"
	"github.com/platepick/platepick/internal/travel"
)

// Repository is the slice of the feedback repository the orchestrator needs:
// registration state and recommendation history.
type Repository interface {
	IsRegistered(ctx context.Context, userID string) (bool, error)
	PlacesRecommendedToUser(ctx context.Context, userID string, onlyChosen bool) ([]string, error)
}

// Recommendation pairs a place with its computed score.
type Recommendation struct {
	Place models.Place `json:"place"`
	Score float64      `json:"score"`
}

// Service runs the recommendation flow. Stateless per request; safe for
// concurrent use.
type Service struct {
	places    places.Fetcher
	durations travel.Fetcher
	repo      Repository
	cfg       config.ScoringConfig
}

// NewService wires the orchestrator.
func NewService(placesFetcher places.Fetcher, durations travel.Fetcher, repo Repository, cfg config.ScoringConfig) *Service {
	return &Service{
		places:    placesFetcher,
		durations: durations,
		repo:      repo,
		cfg:       cfg,
	}
}

// Recommend fetches, scores and ranks candidates for the preferences.
// userID may be empty for anonymous callers; registered users get the
// personalized scorer. k caps the result count; k <= 0 means the configured
// default. Ranking is descending by score with ties broken by candidate
// fetch order.
func (s *Service) Recommend(ctx context.Context, userID string, prefs models.UserPreferences, k int) ([]Recommendation, error) {
	if k <= 0 {
		k = s.cfg.DefaultResultCount
	}

	candidates, err := s.places.FetchPlaces(ctx, prefs)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sc, err := s.scorerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	scores, err := sc.Scores(ctx, candidates, prefs.Location)
	if err != nil {
		return nil, err
	}

	ranked := make([]Recommendation, 0, len(scores))
	for _, place := range candidates {
		score, ok := scores[place.ID]
		if !ok {
			continue // excluded by the duration fallback policy
		}
		ranked = append(ranked, Recommendation{Place: place, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	logging.Ctx(ctx).Info().
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Bool("personalized", userID != "").
		Msg("recommendation round complete")
	return ranked, nil
}

// scorerFor selects the scorer variant for the user: personalized when the
// user is known and registered, the base scorer otherwise.
func (s *Service) scorerFor(ctx context.Context, userID string) (scorer.Scorer, error) {
	base := scorer.NewUnregistered(s.durations, scorer.FromScoringConfig(s.cfg))
	if userID == "" {
		return base, nil
	}

	registered, err := s.repo.IsRegistered(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !registered {
		return base, nil
	}
	return scorer.NewPersonalized(base, s.repo, userID, s.cfg.RepeatPenalty), nil
}
