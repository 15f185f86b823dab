// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package travel

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/platepick/platepick/internal/config"
	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/upstream"
)

// distanceMatrixPath is the provider endpoint for batch duration lookups.
const distanceMatrixPath = "/maps/api/distancematrix/json"

// statusOK is the provider status for a usable response or element.
const statusOK = "OK"

// Client fetches driving durations from the Distance Matrix API.
type Client struct {
	http    *upstream.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Distance Matrix client from the places provider config
// (both provider APIs share one key and endpoint root).
func NewClient(cfg config.PlacesConfig) *Client {
	return &Client{
		http:    upstream.NewClient("distance-matrix", cfg.Timeout, cfg.RateLimitPerSecond),
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// distanceMatrixResponse mirrors the provider's wire format; one row per
// origin, one element per destination.
type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value float64 `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Durations fetches driving durations from every origin to the destination
// in one provider round-trip. Per-origin error statuses become not-OK
// results; a batch-level failure fails the whole call.
func (c *Client) Durations(ctx context.Context, origins []models.Coordinates, destination models.Coordinates) ([]Result, error) {
	if len(origins) == 0 {
		return nil, nil
	}

	originParams := make([]string, len(origins))
	for i, o := range origins {
		originParams[i] = formatCoordinates(o)
	}

	params := url.Values{}
	params.Set("origins", strings.Join(originParams, "|"))
	params.Set("destinations", formatCoordinates(destination))
	params.Set("mode", "driving")
	params.Set("key", c.apiKey)

	var resp distanceMatrixResponse
	if err := c.http.GetJSON(ctx, upstream.StageDurations, c.baseURL+distanceMatrixPath+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	if resp.Status != statusOK {
		return nil, upstream.Errorf(upstream.StageDurations, "provider status %s", resp.Status)
	}
	if len(resp.Rows) != len(origins) {
		return nil, upstream.Errorf(upstream.StageDurations, "provider returned %d rows for %d origins",
			len(resp.Rows), len(origins))
	}

	results := make([]Result, len(origins))
	for i, row := range resp.Rows {
		if len(row.Elements) == 0 {
			continue // leaves the zero Result, OK=false
		}
		element := row.Elements[0]
		if element.Status != statusOK {
			continue
		}
		results[i] = Result{Seconds: element.Duration.Value, OK: true}
	}
	return results, nil
}

// formatCoordinates renders a coordinate pair in the provider's
// "lat,lng" form.
func formatCoordinates(c models.Coordinates) string {
	return fmt.Sprintf("%v,%v", c.Lat, c.Lng)
}
