// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package audit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/logging"
)

// writeTimeout bounds a single store write from the async writer.
const writeTimeout = 5 * time.Second

// Recorder accepts audit events and persists them asynchronously.
// Record never blocks the request path: when the buffer is full the
// event is dropped, logged, and counted.
type Recorder struct {
	store     Store
	eventChan chan *Event
	stopChan  chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewRecorder creates a recorder writing to store with the given buffer
// size and starts its writer goroutine.
func NewRecorder(store Store, bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	r := &Recorder{
		store:     store,
		eventChan: make(chan *Event, bufferSize),
		stopChan:  make(chan struct{}),
	}
	r.wg.Add(1)
	go r.asyncWriter()
	return r
}

// Record queues an event for persistence. Missing IDs and timestamps
// are filled in here so callers only describe what happened.
func (r *Recorder) Record(event *Event) {
	if event == nil {
		return
	}
	if event.ID == "" {
		event.ID = generateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case r.eventChan <- event:
	default:
		auth.RecordAuditEventDropped()
		logging.Warn().
			Str("operation", event.Operation).
			Str("event_id", event.ID).
			Msg("Audit buffer full, event dropped")
	}
}

// asyncWriter drains the event channel until stopped, then flushes any
// buffered events before exiting.
func (r *Recorder) asyncWriter() {
	defer r.wg.Done()

	for {
		select {
		case event := <-r.eventChan:
			r.writeEvent(event)
		case <-r.stopChan:
			for {
				select {
				case event := <-r.eventChan:
					r.writeEvent(event)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) writeEvent(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := r.store.Save(ctx, event); err != nil {
		logging.Error().
			Err(err).
			Str("operation", event.Operation).
			Str("event_id", event.ID).
			Msg("Failed to persist audit event")
		return
	}
	auth.RecordAuditEvent(event.Operation, string(event.Outcome))
}

// Close stops the writer after draining buffered events. Safe to call
// more than once.
func (r *Recorder) Close() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()
	})
}

// Query reads events from the underlying store.
func (r *Recorder) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return r.store.Query(ctx, filter)
}

// Count counts events in the underlying store.
func (r *Recorder) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return r.store.Count(ctx, filter)
}

// BufferLen reports how many events are queued but not yet persisted.
func (r *Recorder) BufferLen() int {
	return len(r.eventChan)
}

// RunRetention deletes events older than the retention window once.
func (r *Recorder) RunRetention(ctx context.Context, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	deleted, err := r.store.Delete(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("audit retention cleanup failed: %w", err)
	}
	if deleted > 0 {
		logging.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Audit retention cleanup completed")
	}
	return nil
}

// StartCleanupRoutine deletes expired events on the given interval until
// ctx is cancelled.
func (r *Recorder) StartCleanupRoutine(ctx context.Context, retentionDays int, interval time.Duration) {
	if retentionDays <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.RunRetention(ctx, retentionDays); err != nil {
					logging.Error().Err(err).Msg("Audit cleanup error")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// generateEventID returns a random 32-character hex identifier, falling
// back to a timestamp when the system RNG is unavailable.
func generateEventID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("evt-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
