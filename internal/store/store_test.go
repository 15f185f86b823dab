// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package store

import (
	"context"
	"errors"
	"testing"
)

// openBackends returns every Store implementation under test, keyed by name.
// The badger backend runs against a throwaway directory.
func openBackends(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore, db, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close badger: %v", err)
		}
	})

	return map[string]Store{
		"memory": NewMemoryStore(),
		"badger": badgerStore,
	}
}

func TestStorePutAndExists(t *testing.T) {
	ctx := context.Background()

	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			exists, err := s.ExistsByKey(ctx, KindUser, "u1")
			if err != nil {
				t.Fatalf("ExistsByKey: %v", err)
			}
			if exists {
				t.Fatal("entity exists before Put")
			}

			err = s.Put(ctx, &Entity{Kind: KindUser, Key: "u1", Props: map[string]any{}}, false)
			if err != nil {
				t.Fatalf("Put: %v", err)
			}

			exists, err = s.ExistsByKey(ctx, KindUser, "u1")
			if err != nil {
				t.Fatalf("ExistsByKey: %v", err)
			}
			if !exists {
				t.Error("entity missing after Put")
			}

			// Same key, different kind: separate keyspaces.
			exists, err = s.ExistsByKey(ctx, KindRecommendation, "u1")
			if err != nil {
				t.Fatalf("ExistsByKey: %v", err)
			}
			if exists {
				t.Error("key leaked across kinds")
			}
		})
	}
}

func TestStorePutCreateOnly(t *testing.T) {
	ctx := context.Background()

	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			e := &Entity{Kind: KindUser, Key: "u1", Props: map[string]any{}}
			if err := s.Put(ctx, e, true); err != nil {
				t.Fatalf("first Put: %v", err)
			}

			err := s.Put(ctx, e, true)
			if !errors.Is(err, ErrKeyExists) {
				t.Errorf("second create-only Put error = %v, want ErrKeyExists", err)
			}

			// A plain Put overwrites without complaint.
			if err := s.Put(ctx, e, false); err != nil {
				t.Errorf("overwriting Put: %v", err)
			}
		})
	}
}

func TestStoreRandomKeys(t *testing.T) {
	ctx := context.Background()

	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			// Keyless puts must not overwrite each other.
			for i := 0; i < 3; i++ {
				err := s.Put(ctx, &Entity{
					Kind:  KindRecommendation,
					Props: map[string]any{"userId": "u1", "placeId": "p1"},
				}, false)
				if err != nil {
					t.Fatalf("Put %d: %v", i, err)
				}
			}

			results, err := s.QueryByField(ctx, KindRecommendation, "userId", "u1")
			if err != nil {
				t.Fatalf("QueryByField: %v", err)
			}
			if len(results) != 3 {
				t.Errorf("got %d records, want 3", len(results))
			}
		})
	}
}

func TestStoreQueryByField(t *testing.T) {
	ctx := context.Background()

	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			records := []map[string]any{
				{"userId": "u1", "placeId": "p1", "chosen": true},
				{"userId": "u1", "placeId": "p2", "chosen": false},
				{"userId": "u2", "placeId": "p3", "chosen": true},
			}
			for i, props := range records {
				err := s.Put(ctx, &Entity{Kind: KindRecommendation, Props: props}, false)
				if err != nil {
					t.Fatalf("Put %d: %v", i, err)
				}
			}

			results, err := s.QueryByField(ctx, KindRecommendation, "userId", "u1")
			if err != nil {
				t.Fatalf("QueryByField: %v", err)
			}
			if len(results) != 2 {
				t.Fatalf("got %d records for u1, want 2", len(results))
			}
			for _, e := range results {
				if e.Props["userId"] != "u1" {
					t.Errorf("record for wrong user: %+v", e.Props)
				}
			}

			results, err = s.QueryByField(ctx, KindRecommendation, "userId", "nobody")
			if err != nil {
				t.Fatalf("QueryByField: %v", err)
			}
			if len(results) != 0 {
				t.Errorf("got %d records for unknown user, want 0", len(results))
			}
		})
	}
}

func TestStoreContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Put(ctx, &Entity{Kind: KindUser, Key: "u1", Props: map[string]any{}}, false)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Put error = %v, want context.Canceled", err)
			}
			if _, err := s.ExistsByKey(ctx, KindUser, "u1"); !errors.Is(err, context.Canceled) {
				t.Errorf("ExistsByKey error = %v, want context.Canceled", err)
			}
			if _, err := s.QueryByField(ctx, KindUser, "f", "v"); !errors.Is(err, context.Canceled) {
				t.Errorf("QueryByField error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestFactoryBackends(t *testing.T) {
	f, err := NewFactory(BackendMemory, "")
	if err != nil {
		t.Fatalf("NewFactory(memory): %v", err)
	}
	if _, ok := f.CreateStore().(*MemoryStore); !ok {
		t.Error("memory backend did not produce a MemoryStore")
	}
	if f.DB() != nil {
		t.Error("memory backend opened a badger DB")
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	f, err = NewFactory(BackendBadger, t.TempDir())
	if err != nil {
		t.Fatalf("NewFactory(badger): %v", err)
	}
	if _, ok := f.CreateStore().(*BadgerStore); !ok {
		t.Error("badger backend did not produce a BadgerStore")
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	if _, err := NewFactory("sqlite", ""); err == nil {
		t.Error("unknown backend accepted")
	}
}
