// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/validation"
)

// maxBodyBytes caps request bodies to keep malformed clients from holding
// large buffers.
const maxBodyBytes = 1 << 20

// RecommendationsRequest carries the decoded query parameters of a
// recommendations request.
type RecommendationsRequest struct {
	Lat           float64  `validate:"latitude"`
	Lng           float64  `validate:"longitude"`
	MinRating     float64  `validate:"min=1,max=5"`
	MaxPriceLevel int      `validate:"min=0,max=4"`
	Cuisines      []string `validate:"max=10"`
	OpenNow       bool
	Count         int `validate:"min=0"`
}

// parseRecommendationsRequest decodes and validates the query string of a
// recommendations request. lat and lng are required; the remaining
// parameters default to the most permissive preference.
func parseRecommendationsRequest(r *http.Request) (*RecommendationsRequest, error) {
	q := r.URL.Query()

	req := &RecommendationsRequest{
		MinRating:     models.MinRating,
		MaxPriceLevel: models.MaxPriceLevel,
	}

	if q.Get("lat") == "" || q.Get("lng") == "" {
		return nil, fmt.Errorf("%w: lat and lng query parameters are required", models.ErrInvalidArgument)
	}

	var err error
	if req.Lat, err = strconv.ParseFloat(q.Get("lat"), 64); err != nil {
		return nil, fmt.Errorf("%w: invalid lat %q", models.ErrInvalidArgument, q.Get("lat"))
	}
	if req.Lng, err = strconv.ParseFloat(q.Get("lng"), 64); err != nil {
		return nil, fmt.Errorf("%w: invalid lng %q", models.ErrInvalidArgument, q.Get("lng"))
	}

	if v := q.Get("min_rating"); v != "" {
		if req.MinRating, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("%w: invalid min_rating %q", models.ErrInvalidArgument, v)
		}
	}
	if v := q.Get("max_price_level"); v != "" {
		if req.MaxPriceLevel, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("%w: invalid max_price_level %q", models.ErrInvalidArgument, v)
		}
	}
	if v := q.Get("count"); v != "" {
		if req.Count, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("%w: invalid count %q", models.ErrInvalidArgument, v)
		}
	}
	if v := q.Get("open_now"); v != "" {
		if req.OpenNow, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%w: invalid open_now %q", models.ErrInvalidArgument, v)
		}
	}
	if v := q.Get("cuisines"); v != "" {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				req.Cuisines = append(req.Cuisines, c)
			}
		}
	}

	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Preferences converts the request into the domain preference model.
func (req *RecommendationsRequest) Preferences() (models.UserPreferences, error) {
	loc, err := models.NewCoordinates(req.Lat, req.Lng)
	if err != nil {
		return models.UserPreferences{}, err
	}
	return models.NewUserPreferences(req.MinRating, req.MaxPriceLevel, loc, req.Cuisines, req.OpenNow)
}

// FeedbackRequest is the body of a feedback submission. RecommendedPlaces
// holds the place IDs of one recommendation round in the order they were
// shown, duplicates included. ChosenPlace may be empty when the user picked
// nothing and asked for another round.
type FeedbackRequest struct {
	RecommendedPlaces []string `json:"recommended_places" validate:"required,min=1,max=50"`
	ChosenPlace       string   `json:"chosen_place"`
	TriedAgain        bool     `json:"tried_again"`
}

// decodeFeedbackRequest decodes and validates a feedback body.
func decodeFeedbackRequest(r *http.Request) (*FeedbackRequest, error) {
	var req FeedbackRequest

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON body: %v", models.ErrInvalidArgument, err)
	}

	if err := validation.ValidateStruct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
