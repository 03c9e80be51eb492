// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package services

import (
	"context"
	"time"

	"github.com/phishguard/phishguard/internal/audit"
	"github.com/phishguard/phishguard/internal/logging"
)

// AuditRetentionService periodically deletes audit events past the
// retention window. The recorder's async writer runs independently; this
// service only owns the cleanup loop, so a restart re-arms the ticker
// without losing buffered events.
type AuditRetentionService struct {
	recorder      *audit.Recorder
	retentionDays int
	interval      time.Duration
}

// NewAuditRetentionService creates the retention loop service.
func NewAuditRetentionService(recorder *audit.Recorder, retentionDays int, interval time.Duration) *AuditRetentionService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &AuditRetentionService{
		recorder:      recorder,
		retentionDays: retentionDays,
		interval:      interval,
	}
}

// Serve implements suture.Service.
func (s *AuditRetentionService) Serve(ctx context.Context) error {
	if s.retentionDays <= 0 {
		// Retention disabled; park until shutdown so suture does not
		// treat this as a crash loop.
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.recorder.RunRetention(ctx, s.retentionDays); err != nil {
				logging.Error().Err(err).Msg("Audit retention cleanup failed")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String implements fmt.Stringer for suture's log messages.
func (s *AuditRetentionService) String() string {
	return "audit-retention"
}
