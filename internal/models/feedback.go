// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package models

import (
	"fmt"
	"slices"
)

// UserFeedback describes the outcome of one recommendation round: which
// places were shown to the user, which one (if any) they chose, and whether
// they rejected the whole round and asked for alternatives.
type UserFeedback struct {
	// UserID is the verified identifier of the user giving feedback.
	UserID string `json:"user_id"`

	// RecommendedPlaces is the ordered list of place IDs shown in the round.
	// Duplicates are preserved; repetition within a round is itself data.
	RecommendedPlaces []string `json:"recommended_places"`

	// ChosenPlace is the ID of the place the user picked, or empty if none.
	ChosenPlace string `json:"chosen_place,omitempty"`

	// TriedAgain is true when the user rejected the round and asked for a
	// fresh set of recommendations.
	TriedAgain bool `json:"tried_again"`
}

// NewUserFeedback validates and returns a feedback value. A chosen place, when
// present, must be a member of the recommended list; this fails before
// anything reaches the repository. The places slice is copied.
func NewUserFeedback(userID string, recommendedPlaces []string, chosenPlace string, triedAgain bool) (UserFeedback, error) {
	if userID == "" {
		return UserFeedback{}, fmt.Errorf("%w: user ID must not be empty", ErrInvalidArgument)
	}
	for _, id := range recommendedPlaces {
		if id == "" {
			return UserFeedback{}, fmt.Errorf("%w: recommended place IDs must not be empty", ErrInvalidArgument)
		}
	}
	if chosenPlace != "" && !slices.Contains(recommendedPlaces, chosenPlace) {
		return UserFeedback{}, fmt.Errorf("%w: chosen place %q is not among the recommended places",
			ErrInvalidArgument, chosenPlace)
	}

	fb := UserFeedback{
		UserID:      userID,
		ChosenPlace: chosenPlace,
		TriedAgain:  triedAgain,
	}
	if len(recommendedPlaces) > 0 {
		fb.RecommendedPlaces = make([]string, len(recommendedPlaces))
		copy(fb.RecommendedPlaces, recommendedPlaces)
	}
	return fb, nil
}
