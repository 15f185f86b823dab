// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package store provides the narrow key/attribute persistence interface the
// feedback repository is built on, with BadgerDB and in-memory backends.
//
// Records are entities: a kind, a key unique within the kind, and a flat set
// of JSON-encodable properties. The interface deliberately exposes only what
// the repository needs - point writes, keys-only existence checks and
// single-field equality queries - so the repository stays testable against
// the in-memory backend.
package store

import (
	"context"
	"errors"
)

// Entity kinds persisted by the service.
const (
	// KindUser holds one record per registered user; existence is the signal.
	KindUser = "User"

	// KindRecommendation holds one record per place shown in a feedback round.
	KindRecommendation = "Recommendation"
)

// ErrKeyExists is returned by Put when the entity key is already present and
// the write was requested as create-only.
var ErrKeyExists = errors.New("store: key already exists")

// Entity is one persisted record.
type Entity struct {
	// Kind groups entities of the same shape, e.g. KindUser.
	Kind string

	// Key is the entity's unique key within its kind. Empty means the store
	// assigns a random key on Put.
	Key string

	// Props holds the entity's attributes. Values must round-trip through
	// JSON encoding.
	Props map[string]any
}

// Store is the persistence contract consumed by the repositories.
//
// Implementations must be safe for concurrent use. Writes are independent
// point-writes; the store offers no cross-entity transaction and callers
// must not assume one.
type Store interface {
	// Put creates the entity. When the entity carries a key and createOnly is
	// true, an existing record with the same key fails with ErrKeyExists.
	Put(ctx context.Context, e *Entity, createOnly bool) error

	// ExistsByKey reports whether an entity of the given kind and key exists,
	// without reading its properties.
	ExistsByKey(ctx context.Context, kind, key string) (bool, error)

	// QueryByField returns all entities of the kind whose property field
	// equals value. Result order is deterministic for identical stored data.
	QueryByField(ctx context.Context, kind, field string, value any) ([]*Entity, error)
}
