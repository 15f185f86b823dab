// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/platepick/platepick/internal/auth"
	"github.com/platepick/platepick/internal/config"
	"github.com/platepick/platepick/internal/feedback"
	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/recommend"
	"github.com/platepick/platepick/internal/store"
)

// staticVerifier resolves "token-<id>" to user <id>.
type staticVerifier struct{}

func (staticVerifier) UserIDFromToken(_ context.Context, token string) (string, error) {
	id, ok := strings.CutPrefix(token, "token-")
	if !ok || id == "" {
		return "", auth.ErrInvalidToken
	}
	return id, nil
}

// fakeRecommender returns canned recommendations, truncated to k.
type fakeRecommender struct {
	recs []recommend.Recommendation
	err  error

	lastUserID string
	lastK      int
}

func (f *fakeRecommender) Recommend(_ context.Context, userID string, _ models.UserPreferences, k int) ([]recommend.Recommendation, error) {
	f.lastUserID = userID
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	if k > 0 && len(f.recs) > k {
		return f.recs[:k], nil
	}
	return f.recs, nil
}

type testEnv struct {
	router      http.Handler
	repo        *feedback.Repository
	recommender *fakeRecommender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := feedback.NewRepository(store.NewMemoryStore())
	recommender := &fakeRecommender{}
	cfg := config.APIConfig{MaxResultCount: 20}

	handler := NewHandler(recommender, repo, staticVerifier{}, cfg)
	return &testEnv{
		router:      NewRouter(handler, cfg),
		repo:        repo,
		recommender: recommender,
	}
}

func (e *testEnv) do(t *testing.T, method, target, token string, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp APIResponse
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/users/register", "token-u1", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Error("success = false on registration")
	}

	// Second registration conflicts.
	rec, resp = env.do(t, http.MethodPost, "/api/v1/users/register", "token-u1", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeConflict {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeConflict)
	}

	// No token at all.
	rec, resp = env.do(t, http.MethodPost, "/api/v1/users/register", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeUnauthorized {
		t.Errorf("error = %+v, want code %s", resp.Error, ErrCodeUnauthorized)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	place, err := models.NewPlace("p1", "Ramen Ichi", 4.5, 2, models.Coordinates{Lat: 35, Lng: 139})
	if err != nil {
		t.Fatalf("NewPlace: %v", err)
	}
	env.recommender.recs = []recommend.Recommendation{{Place: place, Score: 0.9}}

	rec, resp := env.do(t, http.MethodGet, "/api/v1/recommendations?lat=35.0&lng=139.0&count=5", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !resp.Success || resp.Meta == nil || resp.Meta.Count != 1 {
		t.Errorf("resp = %+v", resp)
	}
	if env.recommender.lastUserID != "" {
		t.Errorf("anonymous request carried user %q", env.recommender.lastUserID)
	}
	if env.recommender.lastK != 5 {
		t.Errorf("k = %d, want 5", env.recommender.lastK)
	}

	// Authenticated request passes the verified user through.
	rec, _ = env.do(t, http.MethodGet, "/api/v1/recommendations?lat=35.0&lng=139.0", "token-u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if env.recommender.lastUserID != "u1" {
		t.Errorf("userID = %q, want u1", env.recommender.lastUserID)
	}

	// A bad token on an optional-auth endpoint is still rejected.
	rec, _ = env.do(t, http.MethodGet, "/api/v1/recommendations?lat=35.0&lng=139.0", "garbage", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for a bad token", rec.Code)
	}
}

func TestRecommendationsEndpointValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "missing lat and lng", query: ""},
		{name: "malformed lat", query: "lat=abc&lng=139"},
		{name: "latitude out of range", query: "lat=95&lng=139"},
		{name: "min rating out of range", query: "lat=35&lng=139&min_rating=9"},
		{name: "price level out of range", query: "lat=35&lng=139&max_price_level=7"},
		{name: "malformed count", query: "lat=35&lng=139&count=lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(t, http.MethodGet, "/api/v1/recommendations?"+tt.query, "", "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if resp.Success {
				t.Error("success = true on a validation failure")
			}
		})
	}
}

func TestRecommendationsCountCapped(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/recommendations?lat=35&lng=139&count=999", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.recommender.lastK != 20 {
		t.Errorf("k = %d, want capped at 20", env.recommender.lastK)
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.repo.RegisterUser(ctx, "u1"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	body := `{"recommended_places": ["p1", "p2", "p1"], "chosen_place": "p1", "tried_again": false}`
	rec, resp := env.do(t, http.MethodPost, "/api/v1/feedback", "token-u1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !resp.Success {
		t.Error("success = false")
	}

	history, err := env.repo.PlacesRecommendedToUser(ctx, "u1", false)
	if err != nil {
		t.Fatalf("PlacesRecommendedToUser: %v", err)
	}
	if fmt.Sprint(history) != "[p1 p2]" {
		t.Errorf("history = %v, want [p1 p2]", history)
	}
}

func TestFeedbackEndpointRejections(t *testing.T) {
	env := newTestEnv(t)
	if err := env.repo.RegisterUser(context.Background(), "u1"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	validBody := `{"recommended_places": ["p1"], "chosen_place": "p1"}`

	tests := []struct {
		name     string
		token    string
		body     string
		wantCode int
	}{
		{name: "no token", token: "", body: validBody, wantCode: http.StatusUnauthorized},
		{name: "unregistered user", token: "token-stranger", body: validBody, wantCode: http.StatusNotFound},
		{name: "malformed JSON", token: "token-u1", body: "{", wantCode: http.StatusBadRequest},
		{name: "empty round", token: "token-u1", body: `{"recommended_places": [], "chosen_place": ""}`, wantCode: http.StatusBadRequest},
		{name: "chosen not in round", token: "token-u1", body: `{"recommended_places": ["p1"], "chosen_place": "p9"}`, wantCode: http.StatusBadRequest},
		{name: "unknown field", token: "token-u1", body: `{"recommended_places": ["p1"], "chosen_place": "p1", "rating": 5}`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := env.do(t, http.MethodPost, "/api/v1/feedback", tt.token, tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestHistoryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.repo.RegisterUser(ctx, "u1"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	fb, err := models.NewUserFeedback("u1", []string{"p2", "p1"}, "p1", false)
	if err != nil {
		t.Fatalf("NewUserFeedback: %v", err)
	}
	if err := env.repo.UpdateUserFeedback(ctx, fb); err != nil {
		t.Fatalf("UpdateUserFeedback: %v", err)
	}

	rec, resp := env.do(t, http.MethodGet, "/api/v1/users/history", "token-u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T", resp.Data)
	}
	if fmt.Sprint(data["place_ids"]) != "[p1 p2]" {
		t.Errorf("place_ids = %v, want [p1 p2]", data["place_ids"])
	}

	// chosen=true filters to the picked place.
	rec, resp = env.do(t, http.MethodGet, "/api/v1/users/history?chosen=true", "token-u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data = resp.Data.(map[string]any)
	if fmt.Sprint(data["place_ids"]) != "[p1]" {
		t.Errorf("chosen place_ids = %v, want [p1]", data["place_ids"])
	}

	// Fresh registered user gets an empty list, not null.
	if err := env.repo.RegisterUser(ctx, "u2"); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	rec, resp = env.do(t, http.MethodGet, "/api/v1/users/history", "token-u2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data = resp.Data.(map[string]any)
	if ids, ok := data["place_ids"].([]any); !ok || len(ids) != 0 {
		t.Errorf("place_ids = %v (%T), want empty list", data["place_ids"], data["place_ids"])
	}

	// Unregistered user.
	rec, _ = env.do(t, http.MethodGet, "/api/v1/users/history", "token-stranger", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", got)
	}

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Meta == nil || resp.Meta.RequestID != "req-123" {
		t.Errorf("meta = %+v, want request ID req-123", resp.Meta)
	}
}
