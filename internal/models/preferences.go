// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package models

import "fmt"

// UserPreferences captures the search criteria for one recommendation round.
// Immutable value passed into the fetch and scoring pipeline.
type UserPreferences struct {
	// MinRating is the lowest acceptable rating, in [MinRating, MaxRating].
	MinRating float64 `json:"min_rating"`

	// MaxPriceLevel is the highest acceptable price level,
	// in [MinPriceLevel, MaxPriceLevel].
	MaxPriceLevel int `json:"max_price_level"`

	// Location is where the user wants to eat.
	Location Coordinates `json:"location"`

	// Cuisines is the set of desired cuisine keywords. Empty means no
	// cuisine filter.
	Cuisines []string `json:"cuisines,omitempty"`

	// OpenNow restricts results to places currently open.
	OpenNow bool `json:"open_now"`
}

// NewUserPreferences validates all fields and returns the preferences value.
// The cuisines slice is copied so later caller mutation cannot leak in.
func NewUserPreferences(minRating float64, maxPriceLevel int, location Coordinates, cuisines []string, openNow bool) (UserPreferences, error) {
	if minRating < MinRating || minRating > MaxRating {
		return UserPreferences{}, fmt.Errorf("%w: min rating %v out of range [%v, %v]",
			ErrInvalidArgument, minRating, MinRating, MaxRating)
	}
	if maxPriceLevel < MinPriceLevel || maxPriceLevel > MaxPriceLevel {
		return UserPreferences{}, fmt.Errorf("%w: max price level %d out of range [%d, %d]",
			ErrInvalidArgument, maxPriceLevel, MinPriceLevel, MaxPriceLevel)
	}
	for _, c := range cuisines {
		if c == "" {
			return UserPreferences{}, fmt.Errorf("%w: cuisine names must not be empty", ErrInvalidArgument)
		}
	}

	prefs := UserPreferences{
		MinRating:     minRating,
		MaxPriceLevel: maxPriceLevel,
		Location:      location,
		OpenNow:       openNow,
	}
	if len(cuisines) > 0 {
		prefs.Cuisines = make([]string, len(cuisines))
		copy(prefs.Cuisines, cuisines)
	}
	return prefs, nil
}
