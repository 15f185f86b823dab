// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package config

import (
	"fmt"
	"math"
)

// weightSumTolerance absorbs float rounding when checking that the scoring
// weights sum to 1.
const weightSumTolerance = 1e-9

// Validate checks the configuration for values that would misbehave at
// runtime. Returns the first violation found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}

	switch c.Store.Backend {
	case "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the badger backend")
		}
		if c.Store.GCDiscardRatio <= 0 || c.Store.GCDiscardRatio >= 1 {
			return fmt.Errorf("store.gc_discard_ratio %v out of range (0, 1)", c.Store.GCDiscardRatio)
		}
	case "memory":
		// nothing to check
	default:
		return fmt.Errorf("store.backend %q must be badger or memory", c.Store.Backend)
	}

	if c.Scoring.RatingWeight < 0 || c.Scoring.DurationWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if sum := c.Scoring.RatingWeight + c.Scoring.DurationWeight; math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("scoring weights must sum to 1, got %v", sum)
	}
	if c.Scoring.MaxDurationSeconds <= 0 {
		return fmt.Errorf("scoring.max_duration_seconds must be positive")
	}
	switch c.Scoring.DurationFallback {
	case DurationFallbackAssumeWorst, DurationFallbackExclude:
	default:
		return fmt.Errorf("scoring.duration_fallback %q must be %s or %s",
			c.Scoring.DurationFallback, DurationFallbackAssumeWorst, DurationFallbackExclude)
	}
	if c.Scoring.RepeatPenalty < 0 || c.Scoring.RepeatPenalty > 1 {
		return fmt.Errorf("scoring.repeat_penalty %v out of range [0, 1]", c.Scoring.RepeatPenalty)
	}
	if c.Scoring.DefaultResultCount < 1 {
		return fmt.Errorf("scoring.default_result_count must be at least 1")
	}

	if c.Search.RadiusMeters < 1 {
		return fmt.Errorf("search.radius_meters must be at least 1")
	}
	if c.Search.MaxRadiusMeters < c.Search.RadiusMeters {
		return fmt.Errorf("search.max_radius_meters must be at least search.radius_meters")
	}
	if c.Search.MinResults < 1 {
		return fmt.Errorf("search.min_results must be at least 1")
	}

	if c.Places.Timeout <= 0 {
		return fmt.Errorf("places.timeout must be positive")
	}
	if c.Places.RateLimitPerSecond <= 0 {
		return fmt.Errorf("places.rate_limit_per_second must be positive")
	}

	if c.API.MaxResultCount < 1 {
		return fmt.Errorf("api.max_result_count must be at least 1")
	}

	return nil
}
