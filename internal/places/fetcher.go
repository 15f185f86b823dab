// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package places fetches candidate restaurants from the place search
// provider. The client runs a text search built from the user's preferences,
// widens the radius when too few candidates come back, enriches each
// candidate with contact details, and maps the wire results into validated
// model values.
package places

import (
	"context"

	"github.com/platepick/platepick/internal/models"
)

// Fetcher obtains candidate places matching the user's preferences.
type Fetcher interface {
	FetchPlaces(ctx context.Context, prefs models.UserPreferences) ([]models.Place, error)
}
