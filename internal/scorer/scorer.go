// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package scorer ranks candidate places.
//
// A Scorer turns a batch of places plus the user's location into one score
// per place in [0, 1]; higher is better. Variants share the single-method
// capability contract and are selected by the orchestrator based on
// registration status:
//
//   - Unregistered: rating and travel duration only.
//   - Personalized: the unregistered score with a repeat penalty for places
//     the user's feedback history already contains.
//
// Scorers hold no per-request state and are safe for concurrent batches.
package scorer

import (
	"context"

	"github.com/platepick/platepick/internal/config"
	"github.com/platepick/platepick/internal/models"
)

// Scorer computes a score per place. The returned map is keyed by place ID;
// it carries no ordering, and places excluded by the duration fallback
// policy are absent. Sorting is the caller's concern.
type Scorer interface {
	Scores(ctx context.Context, places []models.Place, userLocation models.Coordinates) (map[string]float64, error)
}

// Config is the scoring policy: weights, ceilings and the fallback for
// failed per-place duration lookups. Construct with FromScoringConfig or
// fill explicitly in tests.
type Config struct {
	// RatingWeight and DurationWeight combine the two sub-scores and must
	// sum to 1 (enforced by config validation).
	RatingWeight   float64
	DurationWeight float64

	// MaxRating normalizes the rating sub-score.
	MaxRating float64

	// MaxDurationSeconds is the travel time ceiling; durations at or beyond
	// it contribute a zero duration sub-score.
	MaxDurationSeconds float64

	// ExcludeOnDurationError drops places whose duration lookup reported an
	// error status instead of keeping them with a worst-case duration.
	ExcludeOnDurationError bool
}

// FromScoringConfig converts the service scoring configuration.
func FromScoringConfig(cfg config.ScoringConfig) Config {
	return Config{
		RatingWeight:           cfg.RatingWeight,
		DurationWeight:         cfg.DurationWeight,
		MaxRating:              models.MaxRating,
		MaxDurationSeconds:     cfg.MaxDurationSeconds,
		ExcludeOnDurationError: cfg.DurationFallback == config.DurationFallbackExclude,
	}
}
