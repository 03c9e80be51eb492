// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

// Package audit provides the gate's audit trail: write-once events recorded
// exactly once per audited request, buffered asynchronously and persisted
// to a durable store for compliance and forensic analysis.
package audit

import (
	"context"
	"time"
)

// Outcome indicates whether an audited operation succeeded or failed.
// Success is defined as a 2xx response status.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event represents a single audited request. Events are write-once: they
// are built after the response status is known and never mutated after
// being handed to the recorder.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`

	// Operation is the audited operation name (e.g., "create_report").
	Operation string `json:"operation"`

	// UserID is the verified caller, empty when the request was denied
	// before an identity was attached.
	UserID string `json:"user_id,omitempty"`

	// OrgID is the caller's organization, if known.
	OrgID string `json:"org_id,omitempty"`

	// IP is the client IP address.
	IP string `json:"ip"`

	// UserAgent is the client's user agent.
	UserAgent string `json:"user_agent,omitempty"`

	// Endpoint is the request path.
	Endpoint string `json:"endpoint"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// StatusCode is the final response status.
	StatusCode int `json:"status_code"`

	// Outcome is success (2xx) or failure.
	Outcome Outcome `json:"outcome"`

	// Timestamp when the event was recorded.
	Timestamp time.Time `json:"timestamp"`

	// RequestID from the originating HTTP request.
	RequestID string `json:"request_id,omitempty"`
}

// Store defines the interface for audit event persistence.
type Store interface {
	// Save persists an audit event.
	Save(ctx context.Context, event *Event) error

	// Get retrieves an event by ID.
	Get(ctx context.Context, id string) (*Event, error)

	// Query retrieves events matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Count returns the number of events matching the filter.
	Count(ctx context.Context, filter QueryFilter) (int64, error)

	// Delete removes events older than the given cutoff.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)

	// Close releases the store's resources.
	Close() error
}

// QueryFilter defines filtering options for audit queries.
// Zero-valued fields do not filter.
type QueryFilter struct {
	// Operation filters by operation name.
	Operation string `json:"operation,omitempty"`

	// UserID filters by acting user.
	UserID string `json:"user_id,omitempty"`

	// OrgID filters by organization.
	OrgID string `json:"org_id,omitempty"`

	// Outcome filters by outcome.
	Outcome Outcome `json:"outcome,omitempty"`

	// StartTime is the beginning of the time range.
	StartTime *time.Time `json:"start_time,omitempty"`

	// EndTime is the end of the time range.
	EndTime *time.Time `json:"end_time,omitempty"`

	// Limit is the maximum number of results.
	Limit int `json:"limit,omitempty"`
}

// DefaultQueryFilter returns a sensible default filter.
func DefaultQueryFilter() QueryFilter {
	return QueryFilter{
		Limit: 100,
	}
}

// Matches reports whether the event satisfies the filter.
func (f *QueryFilter) Matches(e *Event) bool {
	if f.Operation != "" && e.Operation != f.Operation {
		return false
	}
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.OrgID != "" && e.OrgID != f.OrgID {
		return false
	}
	if f.Outcome != "" && e.Outcome != f.Outcome {
		return false
	}
	if f.StartTime != nil && e.Timestamp.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && e.Timestamp.After(*f.EndTime) {
		return false
	}
	return true
}
