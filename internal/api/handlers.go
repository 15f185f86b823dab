// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/platepick/platepick/internal/auth"
	"github.com/platepick/platepick/internal/config"
	"github.com/platepick/platepick/internal/logging"
	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/recommend"
)

// Recommender produces ranked recommendations for a user.
type Recommender interface {
	Recommend(ctx context.Context, userID string, prefs models.UserPreferences, k int) ([]recommend.Recommendation, error)
}

// FeedbackRepository persists user registrations and recommendation feedback.
type FeedbackRepository interface {
	IsRegistered(ctx context.Context, userID string) (bool, error)
	RegisterUser(ctx context.Context, userID string) error
	UpdateUserFeedback(ctx context.Context, fb models.UserFeedback) error
	PlacesRecommendedToUser(ctx context.Context, userID string, onlyChosen bool) ([]string, error)
}

// Handler serves the PlatePick HTTP API.
type Handler struct {
	recommender Recommender
	repo        FeedbackRepository
	verifier    auth.Verifier
	cfg         config.APIConfig
	startTime   time.Time
}

// NewHandler creates the API handler.
func NewHandler(recommender Recommender, repo FeedbackRepository, verifier auth.Verifier, cfg config.APIConfig) *Handler {
	return &Handler{
		recommender: recommender,
		repo:        repo,
		verifier:    verifier,
		cfg:         cfg,
		startTime:   time.Now(),
	}
}

// userIDFromRequest extracts and verifies the bearer token, returning the
// authenticated user ID. Wraps failures in auth.ErrInvalidToken.
func (h *Handler) userIDFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", auth.ErrInvalidToken
	}
	return h.verifier.UserIDFromToken(r.Context(), strings.TrimSpace(token))
}

// Register handles POST /api/v1/users/register. Registration is a one-time
// event: re-registering the same user ID yields 409.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := h.userIDFromRequest(r)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}

	if err := h.repo.RegisterUser(r.Context(), userID); err != nil {
		rw.WriteServiceError(err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", userID).Msg("User registered")
	rw.Created(map[string]string{"user_id": userID})
}

// Recommendations handles GET /api/v1/recommendations. The bearer token is
// optional: anonymous callers get distance-and-rating scoring, registered
// users additionally get their recommendation history factored in.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := ""
	if r.Header.Get("Authorization") != "" {
		id, err := h.userIDFromRequest(r)
		if err != nil {
			rw.WriteServiceError(err)
			return
		}
		userID = id
	}

	req, err := parseRecommendationsRequest(r)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}

	prefs, err := req.Preferences()
	if err != nil {
		rw.WriteServiceError(err)
		return
	}

	count := req.Count
	if h.cfg.MaxResultCount > 0 && count > h.cfg.MaxResultCount {
		count = h.cfg.MaxResultCount
	}

	recs, err := h.recommender.Recommend(r.Context(), userID, prefs, count)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}

	rw.SuccessWithCount(recs, len(recs))
}

// Feedback handles POST /api/v1/feedback. Requires a registered user; one
// record is stored per recommended place in the submitted round.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := h.userIDFromRequest(r)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}

	registered, err := h.repo.IsRegistered(r.Context(), userID)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}
	if !registered {
		rw.NotFound("User is not registered")
		return
	}

	req, err := decodeFeedbackRequest(r)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}

	fb, err := models.NewUserFeedback(userID, req.RecommendedPlaces, req.ChosenPlace, req.TriedAgain)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}

	if err := h.repo.UpdateUserFeedback(r.Context(), fb); err != nil {
		rw.WriteServiceError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", userID).
		Int("places", len(req.RecommendedPlaces)).
		Msg("Feedback recorded")
	rw.Success(map[string]int{"records_written": len(req.RecommendedPlaces)})
}

// History handles GET /api/v1/users/history. With chosen=true only places
// the user actually picked are returned; the list is deduplicated and
// sorted either way.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := h.userIDFromRequest(r)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}

	registered, err := h.repo.IsRegistered(r.Context(), userID)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}
	if !registered {
		rw.NotFound("User is not registered")
		return
	}

	onlyChosen := r.URL.Query().Get("chosen") == "true"

	placeIDs, err := h.repo.PlacesRecommendedToUser(r.Context(), userID, onlyChosen)
	if err != nil {
		rw.WriteServiceError(err)
		return
	}
	if placeIDs == nil {
		placeIDs = []string{}
	}

	rw.SuccessWithCount(map[string]any{"place_ids": placeIDs}, len(placeIDs))
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}
