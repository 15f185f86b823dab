// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package middleware provides the HTTP middleware applied to every route:
// request identification and Prometheus instrumentation. Rate limiting and
// CORS come from the chi ecosystem and are wired in the router.
package middleware

import (
	"net/http"

	"github.com/platepick/platepick/internal/logging"
)

// RequestID assigns each request a unique ID, reusing one supplied by an
// upstream proxy. The ID lands in the response header and in the request
// context for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
