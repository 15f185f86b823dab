// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package feedback persists user registration state and recommendation
// feedback history on top of the store package.
//
// Registration is a one-time event: one "User" record per user ID, existence
// alone is the signal. Feedback rounds append one "Recommendation" record per
// place shown, never mutated afterwards; history accumulates indefinitely and
// is replayed through deduplicated per-user queries.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/platepick/platepick/internal/logging"
	"github.com/platepick/platepick/internal/metrics"
	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/store"
)

// ErrAlreadyRegistered is returned by RegisterUser for an ID that already
// has a registration record. The HTTP layer maps it to a conflict so callers
// can decide between strict and idempotent registration semantics.
var ErrAlreadyRegistered = errors.New("user already registered")

// Recommendation record fields.
const (
	fieldUserID          = "userId"
	fieldPlaceID         = "placeId"
	fieldChosen          = "chosen"
	fieldTriedAgain      = "triedAgain"
	fieldTimestampMillis = "timestampMillis"
)

// Repository records registration and feedback events and answers
// "what has this user already seen or chosen" queries.
//
// Stateless apart from the shared store client; safe for concurrent use.
// Store failures propagate as-is - retry policy belongs to the caller.
type Repository struct {
	store store.Store
	// now is the write-time timestamp source, replaceable in tests.
	now func() time.Time
}

// NewRepository creates a repository on the given store.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s, now: time.Now}
}

// IsRegistered reports whether the user ID has a registration record.
// An empty ID fails with models.ErrInvalidArgument without touching the store.
func (r *Repository) IsRegistered(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("%w: user ID must not be empty", models.ErrInvalidArgument)
	}
	exists, err := r.store.ExistsByKey(ctx, store.KindUser, userID)
	if err != nil {
		return false, fmt.Errorf("check registration for user: %w", err)
	}
	return exists, nil
}

// RegisterUser creates the user's registration record. Registration is a
// one-time event: an already-registered ID fails with ErrAlreadyRegistered
// rather than silently overwriting.
func (r *Repository) RegisterUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: can't register a user without a user ID", models.ErrInvalidArgument)
	}

	err := r.store.Put(ctx, &store.Entity{
		Kind:  store.KindUser,
		Key:   userID,
		Props: map[string]any{},
	}, true /* createOnly */)
	if errors.Is(err, store.ErrKeyExists) {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, userID)
	}
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	logging.Ctx(ctx).Info().Str("user_id", userID).Msg("user registered")
	return nil
}

// UpdateUserFeedback writes one Recommendation record per entry of the
// round's recommended-places list. Duplicates in the list are preserved:
// repetition within a round is itself data. A round carries at most one
// choice, so when the chosen place appears more than once only the first
// matching record is marked chosen. An empty list writes nothing.
//
// The records of a round are independent point-writes, not an atomic batch;
// a crash mid-round can leave it partially recorded.
func (r *Repository) UpdateUserFeedback(ctx context.Context, fb models.UserFeedback) error {
	if fb.UserID == "" {
		return fmt.Errorf("%w: feedback must carry a user ID", models.ErrInvalidArgument)
	}

	timestamp := r.now().UnixMilli()
	pendingChoice := fb.ChosenPlace
	for _, placeID := range fb.RecommendedPlaces {
		chosen := pendingChoice != "" && placeID == pendingChoice
		if chosen {
			pendingChoice = ""
		}
		err := r.store.Put(ctx, &store.Entity{
			Kind: store.KindRecommendation,
			Props: map[string]any{
				fieldUserID:          fb.UserID,
				fieldPlaceID:         placeID,
				fieldChosen:          chosen,
				fieldTriedAgain:      fb.TriedAgain,
				fieldTimestampMillis: timestamp,
			},
		}, false)
		if err != nil {
			return fmt.Errorf("record feedback for place %s: %w", placeID, err)
		}
		metrics.FeedbackRecordsWritten.WithLabelValues(strconv.FormatBool(chosen)).Inc()
	}

	logging.Ctx(ctx).Debug().
		Str("user_id", fb.UserID).
		Int("places", len(fb.RecommendedPlaces)).
		Bool("tried_again", fb.TriedAgain).
		Msg("feedback round recorded")
	return nil
}

// PlacesRecommendedToUser returns the distinct place IDs ever recommended to
// the user, sorted for determinism. With onlyChosen it keeps only the places
// the user actually picked.
func (r *Repository) PlacesRecommendedToUser(ctx context.Context, userID string, onlyChosen bool) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID must not be empty", models.ErrInvalidArgument)
	}

	records, err := r.store.QueryByField(ctx, store.KindRecommendation, fieldUserID, userID)
	if err != nil {
		return nil, fmt.Errorf("query feedback history: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if onlyChosen {
			chosen, _ := rec.Props[fieldChosen].(bool)
			if !chosen {
				continue
			}
		}
		placeID, ok := rec.Props[fieldPlaceID].(string)
		if !ok || placeID == "" {
			continue
		}
		seen[placeID] = struct{}{}
	}

	places := make([]string, 0, len(seen))
	for placeID := range seen {
		places = append(places, placeID)
	}
	sort.Strings(places)
	return places, nil
}
