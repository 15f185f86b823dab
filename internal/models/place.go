// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package models defines the validated value types shared across the
// recommendation pipeline: places, user preferences and feedback rounds.
//
// All types are constructed through factory functions that validate every
// field atomically and return ErrInvalidArgument-wrapped errors on the first
// violated invariant. Once constructed, values are treated as immutable.
package models

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the sentinel wrapped by all constructor and
// repository argument validation failures. Callers map it to a 4xx response.
var ErrInvalidArgument = errors.New("invalid argument")

// Rating and price level bounds as defined by the Places API.
const (
	// MinRating is the lowest rating a rated place can carry.
	MinRating = 1.0
	// MaxRating is the highest rating a place can carry.
	MaxRating = 5.0
	// MinPriceLevel is the cheapest price level (free).
	MinPriceLevel = 0
	// MaxPriceLevel is the most expensive price level.
	MaxPriceLevel = 4
)

// Coordinates is a WGS84 geographic coordinate pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinates validates and returns a coordinate pair.
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidArgument, lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidArgument, lng)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

// Place is a candidate restaurant returned by the place search provider.
// Owned by a single ranking request; never persisted.
type Place struct {
	// ID is the stable external identifier assigned by the search provider.
	ID string `json:"id"`

	// Name is the display name of the place.
	Name string `json:"name"`

	// Rating is the aggregate user rating, in [MinRating, MaxRating].
	Rating float64 `json:"rating"`

	// PriceLevel is the ordinal price bucket, in [MinPriceLevel, MaxPriceLevel].
	PriceLevel int `json:"price_level"`

	// Location is the geographic position of the place.
	Location Coordinates `json:"location"`

	// BusinessStatus reports operational state (e.g. "OPERATIONAL").
	BusinessStatus string `json:"business_status,omitempty"`

	// Website is the place's website URL, when known.
	Website string `json:"website,omitempty"`

	// Phone is the place's formatted phone number, when known.
	Phone string `json:"phone,omitempty"`
}

// NewPlace validates all fields and returns an immutable Place value.
func NewPlace(id, name string, rating float64, priceLevel int, location Coordinates) (Place, error) {
	if id == "" {
		return Place{}, fmt.Errorf("%w: place ID must not be empty", ErrInvalidArgument)
	}
	if rating < MinRating || rating > MaxRating {
		return Place{}, fmt.Errorf("%w: rating %v out of range [%v, %v]",
			ErrInvalidArgument, rating, MinRating, MaxRating)
	}
	if priceLevel < MinPriceLevel || priceLevel > MaxPriceLevel {
		return Place{}, fmt.Errorf("%w: price level %d out of range [%d, %d]",
			ErrInvalidArgument, priceLevel, MinPriceLevel, MaxPriceLevel)
	}

	return Place{
		ID:         id,
		Name:       name,
		Rating:     rating,
		PriceLevel: priceLevel,
		Location:   location,
	}, nil
}

// WithContact returns a copy of the place enriched with contact details.
// The receiver is not modified.
func (p Place) WithContact(website, phone, businessStatus string) Place {
	p.Website = website
	p.Phone = phone
	p.BusinessStatus = businessStatus
	return p
}
