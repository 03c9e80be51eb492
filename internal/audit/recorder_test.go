// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package audit

import (
	"context"
	"sync"
	"testing"
	"time"
)

// memStore is a minimal in-memory Store for recorder tests.
type memStore struct {
	mu     sync.Mutex
	events []Event
}

func (s *memStore) Save(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			e := s.events[i]
			return &e, nil
		}
	}
	return nil, context.Canceled
}

func (s *memStore) Query(_ context.Context, filter QueryFilter) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for i := len(s.events) - 1; i >= 0; i-- {
		if filter.Matches(&s.events[i]) {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

func (s *memStore) Count(_ context.Context, filter QueryFilter) (int64, error) {
	events, _ := s.Query(context.Background(), filter)
	return int64(len(events)), nil
}

func (s *memStore) Delete(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []Event
	var deleted int64
	for _, e := range s.events {
		if e.Timestamp.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestRecorder_PersistsEvents(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store, 10)

	rec.Record(&Event{Operation: "create_report", Outcome: OutcomeSuccess})
	rec.Record(&Event{Operation: "delete_report", Outcome: OutcomeFailure})
	rec.Close()

	if store.len() != 2 {
		t.Fatalf("persisted %d events, want 2", store.len())
	}
}

func TestRecorder_FillsIDAndTimestamp(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store, 10)

	rec.Record(&Event{Operation: "list_reports"})
	rec.Close()

	if store.len() != 1 {
		t.Fatalf("persisted %d events, want 1", store.len())
	}
	got := store.events[0]
	if got.ID == "" {
		t.Error("expected generated event id")
	}
	if got.Timestamp.IsZero() {
		t.Error("expected filled timestamp")
	}
}

func TestRecorder_CloseDrainsBuffer(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store, 100)

	for i := 0; i < 50; i++ {
		rec.Record(&Event{Operation: "list_reports"})
	}
	rec.Close()

	if store.len() != 50 {
		t.Errorf("persisted %d events, want 50 after drain", store.len())
	}
	if rec.BufferLen() != 0 {
		t.Errorf("buffer len = %d, want 0 after drain", rec.BufferLen())
	}
}

func TestRecorder_CloseIsIdempotent(t *testing.T) {
	rec := NewRecorder(&memStore{}, 1)
	rec.Close()
	rec.Close()
}

func TestRecorder_NilEventIgnored(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store, 1)
	rec.Record(nil)
	rec.Close()

	if store.len() != 0 {
		t.Errorf("persisted %d events, want 0", store.len())
	}
}

func TestRecorder_RunRetention(t *testing.T) {
	store := &memStore{}
	rec := NewRecorder(store, 10)

	old := time.Now().UTC().AddDate(0, 0, -100)
	rec.Record(&Event{Operation: "list_reports", Timestamp: old})
	rec.Record(&Event{Operation: "list_reports"})
	rec.Close()

	if err := rec.RunRetention(context.Background(), 90); err != nil {
		t.Fatalf("RunRetention failed: %v", err)
	}
	if store.len() != 1 {
		t.Errorf("events after retention = %d, want 1", store.len())
	}
}

func TestGenerateEventID(t *testing.T) {
	a := generateEventID()
	b := generateEventID()
	if a == b {
		t.Error("expected distinct event ids")
	}
	if len(a) != 32 {
		t.Errorf("id length = %d, want 32", len(a))
	}
}
