// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package api

import (
	"context"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/phishguard/phishguard/internal/models"
)

// reportKeyPrefix namespaces report keys per organization so listing an
// org is a single prefix scan.
const reportKeyPrefix = "report:"

// ErrReportNotFound is returned when a report id does not exist within
// the requested organization.
var ErrReportNotFound = errors.New("report not found")

// ReportStore persists phishing incident reports in BadgerDB, sharing
// the database handle with the audit store.
type ReportStore struct {
	db *badger.DB
}

// NewReportStore creates a report store on an existing database handle.
func NewReportStore(db *badger.DB) *ReportStore {
	return &ReportStore{db: db}
}

func reportKey(orgID, reportID string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", reportKeyPrefix, orgID, reportID))
}

// Save persists a report under its organization.
func (s *ReportStore) Save(ctx context.Context, report *models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reportKey(report.OrgID, report.ID), data)
	})
}

// ListByOrg returns all reports for an organization, newest first.
func (s *ReportStore) ListByOrg(ctx context.Context, orgID string) ([]models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var reports []models.Report
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(reportKeyPrefix + orgID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var report models.Report
				if err := json.Unmarshal(val, &report); err != nil {
					return fmt.Errorf("failed to unmarshal report: %w", err)
				}
				reports = append(reports, report)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

// Get retrieves a report by organization and id.
func (s *ReportStore) Get(ctx context.Context, orgID, reportID string) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var report *models.Report
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(reportKey(orgID, reportID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrReportNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var rep models.Report
			if err := json.Unmarshal(val, &rep); err != nil {
				return fmt.Errorf("failed to unmarshal report: %w", err)
			}
			report = &rep
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Delete removes a report. Missing reports return ErrReportNotFound so
// the handler can answer 404 instead of a silent no-op.
func (s *ReportStore) Delete(ctx context.Context, orgID, reportID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := reportKey(orgID, reportID)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrReportNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}
