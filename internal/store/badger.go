// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/platepick/platepick/internal/metrics"
)

// entityKeySeparator joins kind and key in the badger keyspace. Kinds never
// contain it, so prefix scans cannot bleed across kinds.
const entityKeySeparator = "/"

// BadgerStore implements Store on BadgerDB. Entities are stored under
// "<kind>/<key>" with JSON-encoded properties, and filter queries are
// prefix scans over the kind.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a store on an already-open BadgerDB.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadger opens a BadgerDB at path with logging routed away and returns a
// store on it. The caller owns closing the returned DB.
func OpenBadger(path string) (*BadgerStore, *badger.DB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logger is too chatty for production output

	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open badger db: %w", err)
	}
	return NewBadgerStore(db), db, nil
}

// Put creates the entity, assigning a random key when none is set.
func (s *BadgerStore) Put(ctx context.Context, e *Entity, createOnly bool) error {
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

	storeKey := []byte(e.Kind + entityKeySeparator + key)
	err = s.db.Update(func(txn *badger.Txn) error {
		if createOnly {
			_, getErr := txn.Get(storeKey)
			if getErr == nil {
				return ErrKeyExists
			}
			if !errors.Is(getErr, badger.ErrKeyNotFound) {
				return getErr
			}
		}
		return txn.Set(storeKey, data)
	})

	s.observe("put", e.Kind, err)
	if err != nil {
		if errors.Is(err, ErrKeyExists) {
			return err
		}
		return fmt.Errorf("put %s entity: %w", e.Kind, err)
	}
	return nil
}

// ExistsByKey reports entity existence with a keys-only lookup.
func (s *BadgerStore) ExistsByKey(ctx context.Context, kind, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(kind + entityKeySeparator + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})

	s.observe("exists", kind, err)
	if err != nil {
		return false, fmt.Errorf("exists %s/%s: %w", kind, key, err)
	}
	return exists, nil
}

// QueryByField scans the kind's prefix and keeps entities whose field equals
// value. Equality is compared on the JSON encoding of both sides so numeric
// and bool representations compare consistently. Results come back in badger
// key order, which is stable for identical stored data.
func (s *BadgerStore) QueryByField(ctx context.Context, kind, field string, value any) ([]*Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	want, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal filter value: %w", err)
	}

	var results []*Entity
	prefix := []byte(kind + entityKeySeparator)

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			entityKey := string(item.Key()[len(prefix):])

			var props map[string]any
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &props)
			}); err != nil {
				return fmt.Errorf("unmarshal %s/%s: %w", kind, entityKey, err)
			}

			got, ok := props[field]
			if !ok {
				continue
			}
			gotJSON, err := json.Marshal(got)
			if err != nil {
				return fmt.Errorf("marshal %s/%s field %s: %w", kind, entityKey, field, err)
			}
			if !bytes.Equal(gotJSON, want) {
				continue
			}

			results = append(results, &Entity{Kind: kind, Key: entityKey, Props: props})
		}
		return nil
	})

	s.observe("query", kind, err)
	if err != nil {
		return nil, fmt.Errorf("query %s by %s: %w", kind, field, err)
	}
	return results, nil
}

// observe records a store operation metric.
func (s *BadgerStore) observe(op, kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.StoreOperations.WithLabelValues(op, kind, status).Inc()
}

// RunGC triggers one badger value-log GC pass. Intended to be called
// periodically by the supervisor's GC service.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil // nothing to reclaim this pass
	}
	return err
}

// GCInterval is the default period between badger GC passes.
const GCInterval = 10 * time.Minute
