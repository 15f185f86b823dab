// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

package upstream

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func newTestClient(name string) *Client {
	return NewClient(name, 5*time.Second, 1000)
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "OK", "value": 42}`))
	}))
	defer server.Close()

	c := newTestClient("test-get-json")

	var out struct {
		Status string  `json:"status"`
		Value  float64 `json:"value"`
	}
	if err := c.GetJSON(context.Background(), StageSearch, server.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Status != "OK" || out.Value != 42 {
		t.Errorf("decoded %+v", out)
	}
}

func TestGetJSONNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient("test-non-ok")

	var out map[string]any
	err := c.GetJSON(context.Background(), StageDetails, server.URL, &out)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	stage, ok := StageOf(err)
	if !ok || stage != StageDetails {
		t.Errorf("stage = %v (tagged=%v), want StageDetails", stage, ok)
	}
}

func TestGetJSONMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := newTestClient("test-malformed")

	var out map[string]any
	if err := c.GetJSON(context.Background(), StageSearch, server.URL, &out); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGetJSONOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pad": "`))
		_, _ = w.Write(bytes.Repeat([]byte("x"), maxResponseBodySize+1))
		_, _ = w.Write([]byte(`"}`))
	}))
	defer server.Close()

	c := newTestClient("test-oversized")

	var out map[string]any
	err := c.GetJSON(context.Background(), StageSearch, server.URL, &out)
	if err == nil {
		t.Fatal("expected error for oversized response")
	}
	if !strings.Contains(err.Error(), "response too large") {
		t.Errorf("error = %v, want a response-too-large failure", err)
	}
}

func TestGetJSONRetriesOn429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	c := newTestClient("test-429")

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.GetJSON(context.Background(), StageSearch, server.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !out.OK {
		t.Error("retry did not reach the healthy response")
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2", got)
	}
}

func TestGetJSONBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClient("test-breaker")
	ctx := context.Background()

	// Feed the breaker enough consecutive failures to trip it.
	var out map[string]any
	for i := 0; i < 10; i++ {
		if err := c.GetJSON(ctx, StageSearch, server.URL, &out); err == nil {
			t.Fatalf("call %d unexpectedly succeeded", i)
		}
	}

	err := c.GetJSON(ctx, StageSearch, server.URL, &out)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error after trip = %v, want ErrOpenState", err)
	}
}

func TestErrorStageTagging(t *testing.T) {
	base := errors.New("timeout")
	err := Errorf(StageDurations, "fetch matrix: %w", base)

	if !errors.Is(err, base) {
		t.Error("wrapped error lost")
	}
	stage, ok := StageOf(err)
	if !ok || stage != StageDurations {
		t.Errorf("StageOf = %v, %v", stage, ok)
	}
	if _, ok := StageOf(base); ok {
		t.Error("untagged error reported a stage")
	}
}
