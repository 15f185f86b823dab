// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package config loads and validates service configuration.
//
// Precedence, lowest to highest: struct defaults, YAML config file,
// PLATEPICK_-prefixed environment variables. The scoring weights and ceilings
// live here rather than as constants so deployments (and tests) can exercise
// alternate policies without recompiling.
package config

import "time"

// Config is the root configuration for the service.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Store   StoreConfig   `koanf:"store"`
	Auth    AuthConfig    `koanf:"auth"`
	Places  PlacesConfig  `koanf:"places"`
	Search  SearchConfig  `koanf:"search"`
	Scoring ScoringConfig `koanf:"scoring"`
	API     APIConfig     `koanf:"api"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	// Backend selects "badger" or "memory".
	Backend string `koanf:"backend"`
	// Path is the badger data directory.
	Path string `koanf:"path"`
	// GCInterval is the period between badger value-log GC passes.
	GCInterval time.Duration `koanf:"gc_interval"`
	// GCDiscardRatio is the badger GC rewrite threshold.
	GCDiscardRatio float64 `koanf:"gc_discard_ratio"`
}

// AuthConfig configures bearer-token verification.
type AuthConfig struct {
	// JWTSecret is the HMAC secret tokens are signed with.
	JWTSecret string `koanf:"jwt_secret"`
	// Issuer, when set, is required to match the token's iss claim.
	Issuer string `koanf:"issuer"`
	// Audience, when set, is required to match the token's aud claim.
	Audience string `koanf:"audience"`
}

// PlacesConfig configures the upstream place search and travel time APIs.
type PlacesConfig struct {
	// APIKey authenticates against the provider.
	APIKey string `koanf:"api_key"`
	// BaseURL is the provider endpoint root, overridable for tests.
	BaseURL string `koanf:"base_url"`
	// Timeout bounds a single upstream HTTP request.
	Timeout time.Duration `koanf:"timeout"`
	// RateLimitPerSecond paces outbound provider calls.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second"`
}

// SearchConfig configures candidate fetching.
type SearchConfig struct {
	// RadiusMeters is the initial search radius.
	RadiusMeters int `koanf:"radius_meters"`
	// MaxRadiusMeters caps radius widening.
	MaxRadiusMeters int `koanf:"max_radius_meters"`
	// MinResults triggers radius widening when a search returns fewer
	// candidates.
	MinResults int `koanf:"min_results"`
	// PlaceType is the provider place type to search for.
	PlaceType string `koanf:"place_type"`
}

// Duration fallback policies for places whose travel time lookup reports an
// error status.
const (
	// DurationFallbackAssumeWorst keeps the place with a zero duration
	// sub-score, as if the travel time hit the ceiling.
	DurationFallbackAssumeWorst = "assume_worst"
	// DurationFallbackExclude drops the place from the scored result.
	DurationFallbackExclude = "exclude"
)

// ScoringConfig configures the scoring policy.
type ScoringConfig struct {
	// RatingWeight and DurationWeight must sum to 1.
	RatingWeight   float64 `koanf:"rating_weight"`
	DurationWeight float64 `koanf:"duration_weight"`
	// MaxDurationSeconds is the travel time ceiling; durations at or beyond
	// it contribute nothing to the score.
	MaxDurationSeconds float64 `koanf:"max_duration_seconds"`
	// DurationFallback selects the policy for per-place travel time errors.
	DurationFallback string `koanf:"duration_fallback"`
	// RepeatPenalty scales the score of places already recommended to a
	// registered user, in [0, 1]; 0 disables the penalty.
	RepeatPenalty float64 `koanf:"repeat_penalty"`
	// DefaultResultCount is the number of recommendations returned when the
	// caller doesn't ask for a specific count.
	DefaultResultCount int `koanf:"default_result_count"`
}

// APIConfig configures the client-facing API surface.
type APIConfig struct {
	// RateLimitPerMinute caps requests per client IP.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
	// CORSAllowedOrigins lists origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	// MaxResultCount caps the per-request recommendation count.
	MaxResultCount int `koanf:"max_result_count"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Backend:        "badger",
			Path:           "/data/platepick",
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Auth: AuthConfig{
			Issuer: "platepick",
		},
		Places: PlacesConfig{
			BaseURL:            "https://maps.googleapis.com",
			Timeout:            10 * time.Second,
			RateLimitPerSecond: 10,
		},
		Search: SearchConfig{
			RadiusMeters:    5000,
			MaxRadiusMeters: 40000,
			MinResults:      10,
			PlaceType:       "restaurant",
		},
		Scoring: ScoringConfig{
			RatingWeight:       0.7,
			DurationWeight:     0.3,
			MaxDurationSeconds: 40 * 60,
			DurationFallback:   DurationFallbackAssumeWorst,
			RepeatPenalty:      0.5,
			DefaultResultCount: 3,
		},
		API: APIConfig{
			RateLimitPerMinute: 120,
			CORSAllowedOrigins: []string{"*"},
			MaxResultCount:     20,
		},
	}
}
