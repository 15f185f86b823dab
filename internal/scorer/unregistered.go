// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package scorer

import (
	"context"

	"github.com/platepick/platepick/internal/metrics"
	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/travel"
)

// Unregistered scores places for users without feedback history:
//
//	score = ratingWeight * (rating / maxRating)
//	      + durationWeight * max(1 - duration/maxDuration, 0)
//
// Travel durations for the whole batch come from one provider round-trip.
type Unregistered struct {
	durations travel.Fetcher
	cfg       Config
}

// NewUnregistered creates the base scorer.
func NewUnregistered(durations travel.Fetcher, cfg Config) *Unregistered {
	return &Unregistered{durations: durations, cfg: cfg}
}

// Scores computes a score per place ID. A batch-level duration failure
// propagates; no partial results are produced for it. A per-place error
// status follows the configured fallback: worst-case duration (sub-score 0)
// or exclusion from the result.
func (s *Unregistered) Scores(ctx context.Context, places []models.Place, userLocation models.Coordinates) (map[string]float64, error) {
	if len(places) == 0 {
		return map[string]float64{}, nil
	}

	origins := make([]models.Coordinates, len(places))
	for i, place := range places {
		origins[i] = place.Location
	}

	durations, err := s.durations.Durations(ctx, origins, userLocation)
	if err != nil {
		return nil, err
	}
	metrics.ScoredBatchSize.Observe(float64(len(places)))

	scores := make(map[string]float64, len(places))
	for i, place := range places {
		d := durations[i]
		if !d.OK {
			if s.cfg.ExcludeOnDurationError {
				continue
			}
			// Worst case: as if the travel time hit the ceiling.
			d.Seconds = s.cfg.MaxDurationSeconds
		}
		scores[place.ID] = s.score(place, d.Seconds)
	}
	return scores, nil
}

// score applies the weighted formula for one place.
func (s *Unregistered) score(place models.Place, durationSeconds float64) float64 {
	ratingSubScore := place.Rating / s.cfg.MaxRating
	durationSubScore := max(1-durationSeconds/s.cfg.MaxDurationSeconds, 0)
	return s.cfg.RatingWeight*ratingSubScore + s.cfg.DurationWeight*durationSubScore
}
