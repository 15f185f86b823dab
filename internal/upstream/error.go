// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package upstream defines the shared failure type for calls to the place
// search and travel time providers. Every provider failure is wrapped into
// an *Error that names the pipeline stage, so the API layer can tell a
// failed place search from a failed duration lookup when building responses.
package upstream

import (
	"errors"
	"fmt"
)

// Stage identifies which part of the fetch pipeline failed.
type Stage string

const (
	// StageSearch is the candidate place text search.
	StageSearch Stage = "search"
	// StageDetails is the per-place detail enrichment.
	StageDetails Stage = "details"
	// StageDurations is the batch travel time lookup.
	StageDurations Stage = "durations"
)

// Error wraps a provider failure with the stage it occurred in.
type Error struct {
	Stage Stage
	Err   error
}

// Errorf builds a stage-tagged upstream error.
func Errorf(stage Stage, format string, args ...any) *Error {
	return &Error{Stage: stage, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// StageOf returns the stage of err if it is (or wraps) an upstream *Error,
// and whether it was one.
func StageOf(err error) (Stage, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Stage, true
	}
	return "", false
}
