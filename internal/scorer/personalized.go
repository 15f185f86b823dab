// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package scorer

import (
	"context"

	"github.com/platepick/platepick/internal/models"
)

// HistoryReader answers which places a user's feedback history already
// contains. Implemented by the feedback repository.
type HistoryReader interface {
	PlacesRecommendedToUser(ctx context.Context, userID string, onlyChosen bool) ([]string, error)
}

// Personalized scores places for a registered user: the base score scaled
// down by a repeat penalty for places the user has already been shown, so
// fresh candidates outrank repeats with comparable base scores.
type Personalized struct {
	base    Scorer
	history HistoryReader
	userID  string
	// repeatPenalty is the fraction removed from a repeat's score, in [0, 1].
	repeatPenalty float64
}

// NewPersonalized wraps base with history-aware scoring for userID.
func NewPersonalized(base Scorer, history HistoryReader, userID string, repeatPenalty float64) *Personalized {
	return &Personalized{
		base:          base,
		history:       history,
		userID:        userID,
		repeatPenalty: repeatPenalty,
	}
}

// Scores computes base scores, then scales every already-recommended place
// by (1 - repeatPenalty). A history lookup failure propagates: scoring
// silently without personalization would misreport what was asked for.
func (s *Personalized) Scores(ctx context.Context, places []models.Place, userLocation models.Coordinates) (map[string]float64, error) {
	scores, err := s.base.Scores(ctx, places, userLocation)
	if err != nil {
		return nil, err
	}
	if s.repeatPenalty == 0 {
		return scores, nil
	}

	seen, err := s.history.PlacesRecommendedToUser(ctx, s.userID, false)
	if err != nil {
		return nil, err
	}

	for _, placeID := range seen {
		if score, ok := scores[placeID]; ok {
			scores[placeID] = score * (1 - s.repeatPenalty)
		}
	}
	return scores, nil
}
