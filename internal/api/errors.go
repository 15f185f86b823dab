// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package api

import (
	"errors"

	"github.com/platepick/platepick/internal/auth"
	"github.com/platepick/platepick/internal/feedback"
	"github.com/platepick/platepick/internal/models"
	"github.com/platepick/platepick/internal/upstream"
	"github.com/platepick/platepick/internal/validation"
)

// WriteServiceError maps a service-layer error onto the HTTP error taxonomy:
// invalid input to 400, token failures to 401, registration conflicts to 409,
// upstream provider failures to 502 and everything else to 500.
func (rw *ResponseWriter) WriteServiceError(err error) {
	var reqErr *validation.RequestError
	switch {
	case errors.As(err, &reqErr):
		rw.ValidationError("Request validation failed", reqErr.Fields)
	case errors.Is(err, models.ErrInvalidArgument):
		rw.BadRequest(err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		rw.Unauthorized("Invalid or missing bearer token")
	case errors.Is(err, feedback.ErrAlreadyRegistered):
		rw.Conflict(err.Error())
	default:
		if stage, ok := upstream.StageOf(err); ok {
			rw.ExternalServiceError(string(stage), err)
			return
		}
		rw.StorageError(err)
	}
}
