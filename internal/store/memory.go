// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package store

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// MemoryStore implements Store with an in-process map. Not persistent;
// intended for tests and for running without a data directory.
type MemoryStore struct {
	mu sync.RWMutex
	// entities maps kind -> key -> JSON-encoded props. Encoding on write
	// gives the same value normalization the badger backend has.
	entities map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entities: make(map[string]map[string][]byte)}
}

// Put creates the entity, assigning a random key when none is set.
func (s *MemoryStore) Put(ctx context.Context, e *Entity, createOnly bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.Key
	if key == "" {
		key = uuid.New().String()
	}

	data, err := json.Marshal(e.Props)
	if err != nil {
		return fmt.Errorf("marshal %s entity: %w", e.Kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kind, ok := s.entities[e.Kind]
	if !ok {
		kind = make(map[string][]byte)
		s.entities[e.Kind] = kind
	}
	if createOnly {
		if _, exists := kind[key]; exists {
			return ErrKeyExists
		}
	}
	kind[key] = data
	return nil
}

// ExistsByKey reports whether an entity of the given kind and key exists.
func (s *MemoryStore) ExistsByKey(ctx context.Context, kind, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entities[kind][key]
	return ok, nil
}

// QueryByField returns matching entities in key order.
func (s *MemoryStore) QueryByField(ctx context.Context, kind, field string, value any) ([]*Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	want, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal filter value: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entities[kind]))
	for key := range s.entities[kind] {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var results []*Entity
	for _, key := range keys {
		var props map[string]any
		if err := json.Unmarshal(s.entities[kind][key], &props); err != nil {
			return nil, fmt.Errorf("unmarshal %s/%s: %w", kind, key, err)
		}

		got, ok := props[field]
		if !ok {
			continue
		}
		gotJSON, err := json.Marshal(got)
		if err != nil {
			return nil, fmt.Errorf("marshal %s/%s field %s: %w", kind, key, field, err)
		}
		if bytes.Equal(gotJSON, want) {
			results = append(results, &Entity{Kind: kind, Key: key, Props: props})
		}
	}
	return results, nil
}
