// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package places

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/platepick/platepick/internal/config"
	"github.com/platepick/platepick/internal/logging"
	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/upstream"
)

// Provider endpoints.
const (
	textSearchPath   = "/maps/api/place/textsearch/json"
	placeDetailsPath = "/maps/api/place/details/json"
)

// Provider statuses treated as a successful (possibly empty) search.
const (
	statusOK         = "OK"
	statusZeroResult = "ZERO_RESULTS"
)

// Client fetches candidate places over the provider's text search API.
type Client struct {
	http   *upstream.Client
	cfg    config.PlacesConfig
	search config.SearchConfig
}

// NewClient creates a place search client.
func NewClient(cfg config.PlacesConfig, search config.SearchConfig) *Client {
	return &Client{
		http:   upstream.NewClient("place-search", cfg.Timeout, cfg.RateLimitPerSecond),
		cfg:    cfg,
		search: search,
	}
}

// Wire formats for the provider responses.
type (
	searchResponse struct {
		Status  string         `json:"status"`
		Results []searchResult `json:"results"`
	}

	searchResult struct {
		PlaceID        string  `json:"place_id"`
		Name           string  `json:"name"`
		Rating         float64 `json:"rating"`
		PriceLevel     int     `json:"price_level"`
		BusinessStatus string  `json:"business_status"`
		Geometry       struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	}

	detailsResponse struct {
		Status string `json:"status"`
		Result struct {
			Website string `json:"website"`
			Phone   string `json:"formatted_phone_number"`
		} `json:"result"`
	}
)

// FetchPlaces runs the text search for the preferences, widening the radius
// (doubling, up to the configured cap) while fewer than the configured
// minimum number of candidates match, then enriches each candidate with
// contact details.
func (c *Client) FetchPlaces(ctx context.Context, prefs models.UserPreferences) ([]models.Place, error) {
	var candidates []models.Place

	radius := c.search.RadiusMeters
	for {
		results, err := c.textSearch(ctx, prefs, radius)
		if err != nil {
			return nil, err
		}

		candidates = c.toPlaces(ctx, results, prefs)
		if len(candidates) >= c.search.MinResults || radius >= c.search.MaxRadiusMeters {
			break
		}
		radius = min(radius*2, c.search.MaxRadiusMeters)
		logging.Ctx(ctx).Debug().
			Int("radius_meters", radius).
			Int("candidates", len(candidates)).
			Msg("widening search radius")
	}

	places := make([]models.Place, 0, len(candidates))
	for _, place := range candidates {
		enriched, err := c.enrich(ctx, place)
		if err != nil {
			return nil, err
		}
		places = append(places, enriched)
	}
	return places, nil
}

// textSearch performs one provider search at the given radius.
func (c *Client) textSearch(ctx context.Context, prefs models.UserPreferences, radiusMeters int) ([]searchResult, error) {
	params := url.Values{}
	params.Set("query", searchQuery(prefs, c.search.PlaceType))
	params.Set("location", fmt.Sprintf("%v,%v", prefs.Location.Lat, prefs.Location.Lng))
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("maxprice", strconv.Itoa(prefs.MaxPriceLevel))
	params.Set("type", c.search.PlaceType)
	params.Set("key", c.cfg.APIKey)
	if prefs.OpenNow {
		params.Set("opennow", "true")
	}

	var resp searchResponse
	if err := c.http.GetJSON(ctx, upstream.StageSearch, c.cfg.BaseURL+textSearchPath+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusOK && resp.Status != statusZeroResult {
		return nil, upstream.Errorf(upstream.StageSearch, "provider status %s", resp.Status)
	}
	return resp.Results, nil
}

// toPlaces maps wire results to validated model values, dropping candidates
// below the minimum rating and ones that fail validation (unrated places
// come back with rating 0 and are filtered here).
func (c *Client) toPlaces(ctx context.Context, results []searchResult, prefs models.UserPreferences) []models.Place {
	places := make([]models.Place, 0, len(results))
	for _, r := range results {
		if r.Rating < prefs.MinRating {
			continue
		}
		location, err := models.NewCoordinates(r.Geometry.Location.Lat, r.Geometry.Location.Lng)
		if err == nil {
			var place models.Place
			place, err = models.NewPlace(r.PlaceID, r.Name, r.Rating, r.PriceLevel, location)
			if err == nil {
				places = append(places, place.WithContact("", "", r.BusinessStatus))
				continue
			}
		}
		logging.Ctx(ctx).Debug().Err(err).Str("place_id", r.PlaceID).Msg("dropping invalid candidate")
	}
	return places
}

// enrich fetches contact details for one place.
func (c *Client) enrich(ctx context.Context, place models.Place) (models.Place, error) {
	params := url.Values{}
	params.Set("place_id", place.ID)
	params.Set("fields", "website,formatted_phone_number")
	params.Set("key", c.cfg.APIKey)

	var resp detailsResponse
	if err := c.http.GetJSON(ctx, upstream.StageDetails, c.cfg.BaseURL+placeDetailsPath+"?"+params.Encode(), &resp); err != nil {
		return models.Place{}, err
	}
	if resp.Status != statusOK {
		// Details are an enrichment; a missing record must not drop an
		// otherwise valid candidate.
		logging.Ctx(ctx).Debug().Str("place_id", place.ID).Str("status", resp.Status).Msg("no details for place")
		return place, nil
	}
	return place.WithContact(resp.Result.Website, resp.Result.Phone, place.BusinessStatus), nil
}

// searchQuery builds the text query from the cuisine keywords.
func searchQuery(prefs models.UserPreferences, placeType string) string {
	if len(prefs.Cuisines) == 0 {
		return placeType
	}
	return strings.Join(prefs.Cuisines, " ") + " " + placeType
}
