// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package travel fetches travel durations from the Distance Matrix API.
//
// One call covers a whole scoring batch: N origins against a single
// destination in one provider round-trip. Per-origin failures (no route,
// unresolvable address) come back as not-OK results; batch-level failures
// (I/O, provider rejection) are returned as upstream errors.
package travel

import (
	"context"

	"github.com/platepick/platepick/internal/models"
)

// Result is the duration lookup outcome for one origin.
type Result struct {
	// Seconds is the driving duration. Meaningless when OK is false.
	Seconds float64

	// OK is false when the provider reported an error status for this
	// origin; the scorer applies its configured fallback policy.
	OK bool
}

// Fetcher obtains travel durations from each origin to a destination.
// Results align with origins by index.
type Fetcher interface {
	Durations(ctx context.Context, origins []models.Coordinates, destination models.Coordinates) ([]Result, error)
}
