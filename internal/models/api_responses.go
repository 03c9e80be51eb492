// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"verdict": "suspicious", "score": 0.82},
//	  "metadata": {"timestamp": "2026-08-24T12:00:00Z"}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "INSUFFICIENT_PERMISSIONS",
//	    "message": "Insufficient permissions",
//	    "details": {"required_roles": ["admin"], "user_role": "viewer"}
//	  },
//	  "metadata": {"timestamp": "2026-08-24T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - RequestID: Request correlation identifier (omitted when absent)
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured error details.
// Provides consistent error format across all API endpoints for better client handling.
//
// Fields:
//   - Code: Machine-readable error code (e.g., "INVALID_API_KEY", "ORG_ACCESS_DENIED")
//   - Message: Human-readable error message
//   - Details: Additional context (required roles, org identifiers, field names)
//
// Gate error codes:
//   - MISSING_API_KEY / INVALID_API_KEY: API-key channel failures
//   - MISSING_TOKEN / INVALID_TOKEN: bearer-token channel failures
//   - AUTHENTICATION_REQUIRED: authenticated identity required but absent
//   - INSUFFICIENT_PERMISSIONS: role not in the route's required set
//   - ORG_ID_REQUIRED / INVALID_ORG_ID / ORG_ACCESS_DENIED: org-scope failures
//   - VALIDATION_ERROR: invalid request payload
//   - INTERNAL_ERROR: unexpected server failure (no internals leaked)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo contains cursor-based pagination metadata for audit queries.
//
// Cursor format: opaque base64-encoded position (timestamp + event ID).
type PaginationInfo struct {
	Limit      int     `json:"limit"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor,omitempty"`
	TotalCount *int    `json:"total_count,omitempty"` // Optional, expensive for large datasets
}
