// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package feedback

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/store"
)

func newTestRepository() (*Repository, store.Store) {
	s := store.NewMemoryStore()
	repo := NewRepository(s)
	repo.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return repo, s
}

func mustFeedback(t *testing.T, userID string, places []string, chosen string, triedAgain bool) models.UserFeedback {
	t.Helper()
	fb, err := models.NewUserFeedback(userID, places, chosen, triedAgain)
	if err != nil {
		t.Fatalf("NewUserFeedback: %v", err)
	}
	return fb
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository()

	registered, err := repo.IsRegistered(ctx, "u1")
	if err != nil {
		t.Fatalf("IsRegistered: %v", err)
	}
	if registered {
		t.Fatal("user registered before RegisterUser")
	}

	if err := repo.RegisterUser(ctx, "u1"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	registered, err = repo.IsRegistered(ctx, "u1")
	if err != nil {
		t.Fatalf("IsRegistered: %v", err)
	}
	if !registered {
		t.Error("user not registered after RegisterUser")
	}

	// Registration is one-time: the second attempt conflicts.
	err = repo.RegisterUser(ctx, "u1")
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second RegisterUser error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestRegisterUserEmptyID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository()

	if err := repo.RegisterUser(ctx, ""); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("RegisterUser(\"\") error = %v, want ErrInvalidArgument", err)
	}
	if _, err := repo.IsRegistered(ctx, ""); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("IsRegistered(\"\") error = %v, want ErrInvalidArgument", err)
	}
	if _, err := repo.PlacesRecommendedToUser(ctx, "", false); !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("PlacesRecommendedToUser(\"\") error = %v, want ErrInvalidArgument", err)
	}
}

func TestUpdateUserFeedbackWritesOneRecordPerPlace(t *testing.T) {
	ctx := context.Background()
	repo, s := newTestRepository()

	// Duplicates in a round are preserved as separate records.
	fb := mustFeedback(t, "u1", []string{"p1", "p2", "p1"}, "p1", false)
	if err := repo.UpdateUserFeedback(ctx, fb); err != nil {
		t.Fatalf("UpdateUserFeedback: %v", err)
	}

	records, err := s.QueryByField(ctx, store.KindRecommendation, "userId", "u1")
	if err != nil {
		t.Fatalf("QueryByField: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	chosenCount := 0
	for _, rec := range records {
		if chosen, _ := rec.Props["chosen"].(bool); chosen {
			chosenCount++
			if rec.Props["placeId"] != "p1" {
				t.Errorf("chosen record for %v, want p1", rec.Props["placeId"])
			}
		}
	}
	// A round has at most one choice: even with p1 appearing twice,
	// only the first occurrence is recorded as chosen.
	if chosenCount != 1 {
		t.Errorf("chosen records = %d, want 1", chosenCount)
	}
}

func TestUpdateUserFeedbackEmptyRound(t *testing.T) {
	ctx := context.Background()
	repo, s := newTestRepository()

	fb := mustFeedback(t, "u1", nil, "", true)
	if err := repo.UpdateUserFeedback(ctx, fb); err != nil {
		t.Fatalf("UpdateUserFeedback: %v", err)
	}

	records, err := s.QueryByField(ctx, store.KindRecommendation, "userId", "u1")
	if err != nil {
		t.Fatalf("QueryByField: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("empty round wrote %d records", len(records))
	}
}

func TestUpdateUserFeedbackNoUserID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository()

	err := repo.UpdateUserFeedback(ctx, models.UserFeedback{})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestPlacesRecommendedToUser(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository()

	rounds := []models.UserFeedback{
		mustFeedback(t, "u1", []string{"p2", "p1"}, "p1", false),
		mustFeedback(t, "u1", []string{"p3", "p1"}, "", true),
		mustFeedback(t, "u2", []string{"p9"}, "p9", false),
	}
	for i, fb := range rounds {
		if err := repo.UpdateUserFeedback(ctx, fb); err != nil {
			t.Fatalf("UpdateUserFeedback round %d: %v", i, err)
		}
	}

	// Deduplicated and sorted, u2's history not included.
	got, err := repo.PlacesRecommendedToUser(ctx, "u1", false)
	if err != nil {
		t.Fatalf("PlacesRecommendedToUser: %v", err)
	}
	want := []string{"p1", "p2", "p3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("history = %v, want %v", got, want)
	}

	// onlyChosen keeps just the picks.
	got, err = repo.PlacesRecommendedToUser(ctx, "u1", true)
	if err != nil {
		t.Fatalf("PlacesRecommendedToUser(onlyChosen): %v", err)
	}
	want = []string{"p1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("chosen history = %v, want %v", got, want)
	}

	// Reads don't mutate: asking twice gives the same answer.
	again, err := repo.PlacesRecommendedToUser(ctx, "u1", false)
	if err != nil {
		t.Fatalf("PlacesRecommendedToUser: %v", err)
	}
	if !reflect.DeepEqual(again, []string{"p1", "p2", "p3"}) {
		t.Errorf("second read = %v", again)
	}
}

func TestPlacesRecommendedToUserNoHistory(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository()

	got, err := repo.PlacesRecommendedToUser(ctx, "u1", false)
	if err != nil {
		t.Fatalf("PlacesRecommendedToUser: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("history = %v, want empty", got)
	}
}
