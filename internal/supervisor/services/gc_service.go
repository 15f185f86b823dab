// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package services

import (
	"context"
	"time"

	"github.com/platepick/platepick/internal/logging"
)

// GarbageCollector triggers one value-log GC pass on the underlying store.
// Satisfied by *store.BadgerStore.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// StoreGCService periodically runs badger value-log garbage collection.
// Badger never reclaims value-log space on its own; a ticker-driven GC pass
// is the documented pattern.
type StoreGCService struct {
	gc           GarbageCollector
	interval     time.Duration
	discardRatio float64
}

// NewStoreGCService creates the GC service.
func NewStoreGCService(gc GarbageCollector, interval time.Duration, discardRatio float64) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &StoreGCService{
		gc:           gc,
		interval:     interval,
		discardRatio: discardRatio,
	}
}

// Serve implements suture.Service. GC failures are logged, not returned:
// a failed pass is retried on the next tick and must not restart the
// service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	logger := logging.WithComponent("store-gc")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.gc.RunGC(s.discardRatio); err != nil {
				logger.Warn().Err(err).Msg("Value-log GC pass failed")
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *StoreGCService) String() string {
	return "store-gc"
}
