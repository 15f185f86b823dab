// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BackendType selects the persistence backend.
type BackendType string

const (
	// BackendMemory keeps all records in process memory (not persistent).
	BackendMemory BackendType = "memory"

	// BackendBadger persists records in a BadgerDB directory.
	BackendBadger BackendType = "badger"
)

// Factory creates stores based on configuration.
type Factory struct {
	db *badger.DB
}

// NewFactory creates a store factory. For the badger backend it opens the
// database at path; for memory (or empty) no database is opened.
func NewFactory(backend BackendType, path string) (*Factory, error) {
	f := &Factory{}

	switch backend {
	case BackendBadger:
		_, db, err := OpenBadger(path)
		if err != nil {
			return nil, err
		}
		f.db = db
	case BackendMemory, "":
		// no database to open
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
	return f, nil
}

// CreateStore returns a Store for the configured backend.
func (f *Factory) CreateStore() Store {
	if f.db != nil {
		return NewBadgerStore(f.db)
	}
	return NewMemoryStore()
}

// DB returns the underlying BadgerDB, or nil for the memory backend.
func (f *Factory) DB() *badger.DB {
	return f.db
}

// Close closes the underlying BadgerDB if one was opened.
func (f *Factory) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}
