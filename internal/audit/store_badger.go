// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package audit

import (
	"bytes"
	"context"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/phishguard/phishguard/internal/logging"
)

const (
	// eventKeyPrefix stores events keyed by timestamp then id, so a
	// prefix scan yields chronological order.
	eventKeyPrefix = "audit:event:"

	// idKeyPrefix maps an event id to its primary key for point lookups.
	idKeyPrefix = "audit:id:"
)

// BadgerStore implements Store backed by BadgerDB.
type BadgerStore struct {
	db      *badger.DB
	ownedDB bool
}

// OpenBadger opens a BadgerDB instance for audit storage. An empty path
// opens an in-memory database, used by tests.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(newBadgerLogAdapter())

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return db, nil
}

// NewBadgerStore creates a store on an existing database handle. The
// caller retains ownership of the handle.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// NewBadgerStoreAtPath opens a database at path and wraps it in a store
// that owns and closes the handle.
func NewBadgerStoreAtPath(path string) (*BadgerStore, error) {
	db, err := OpenBadger(path)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db, ownedDB: true}, nil
}

// eventKey builds the primary key. The fixed-width nanosecond timestamp
// keeps lexicographic order equal to chronological order.
func eventKey(ts time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", eventKeyPrefix, ts.UnixNano(), id))
}

func idKey(id string) []byte {
	return []byte(idKeyPrefix + id)
}

// Save persists an audit event.
func (s *BadgerStore) Save(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event == nil || event.ID == "" {
		return fmt.Errorf("audit event must have an id")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	primary := eventKey(event.Timestamp, event.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(primary, data); err != nil {
			return fmt.Errorf("failed to store audit event: %w", err)
		}
		if err := txn.Set(idKey(event.ID), primary); err != nil {
			return fmt.Errorf("failed to index audit event: %w", err)
		}
		return nil
	})
}

// Get retrieves an event by ID.
func (s *BadgerStore) Get(ctx context.Context, id string) (*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var event *Event
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		primary, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("failed to read audit index: %w", err)
		}

		item, err = txn.Get(primary)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var e Event
			if err := json.Unmarshal(val, &e); err != nil {
				return fmt.Errorf("failed to unmarshal audit event: %w", err)
			}
			event = &e
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Query retrieves events matching the filter, newest first.
func (s *BadgerStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultQueryFilter().Limit
	}

	var events []Event
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(eventKeyPrefix)
		// Reverse iteration starts just past the last key in the prefix range
		for it.Seek(append(append([]byte{}, prefix...), 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			if len(events) >= limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var e Event
				if err := json.Unmarshal(val, &e); err != nil {
					return fmt.Errorf("failed to unmarshal audit event: %w", err)
				}
				if filter.Matches(&e) {
					events = append(events, e)
				}
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
	return events, nil
}

// Count returns the number of events matching the filter.
func (s *BadgerStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int64
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(eventKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var e Event
				if err := json.Unmarshal(val, &e); err != nil {
					return fmt.Errorf("failed to unmarshal audit event: %w", err)
				}
				if filter.Matches(&e) {
					count++
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes events older than the given cutoff and returns how many
// were removed.
func (s *BadgerStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Keys sort chronologically, so everything before the cutoff key is stale.
	cutoff := []byte(fmt.Sprintf("%s%020d:", eventKeyPrefix, olderThan.UnixNano()))
	prefix := []byte(eventKeyPrefix)

	var stale [][]byte
	var staleIDs []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if bytes.Compare(key, cutoff) >= 0 {
				break
			}
			stale = append(stale, key)
			// Primary keys are "<prefix><20-digit ts>:<id>"
			staleIDs = append(staleIDs, string(key[len(prefix)+21:]))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(stale) == 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for i, key := range stale {
		if err := wb.Delete(key); err != nil {
			return 0, fmt.Errorf("failed to delete audit event: %w", err)
		}
		if err := wb.Delete(idKey(staleIDs[i])); err != nil {
			return 0, fmt.Errorf("failed to delete audit index: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush audit deletions: %w", err)
	}
	return int64(len(stale)), nil
}

// RunGC runs one badger value-log GC cycle. Returns badger.ErrNoRewrite
// when there was nothing to reclaim.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// Close closes the underlying database if this store owns it.
func (s *BadgerStore) Close() error {
	if !s.ownedDB {
		return nil
	}
	return s.db.Close()
}

// badgerLogAdapter routes badger's internal logging through zerolog at
// debug level, keeping GC chatter out of normal output.
type badgerLogAdapter struct{}

func newBadgerLogAdapter() badger.Logger { return badgerLogAdapter{} }

func (badgerLogAdapter) Errorf(format string, args ...interface{}) {
	logging.Error().Msgf("badger: "+format, args...)
}

func (badgerLogAdapter) Warningf(format string, args ...interface{}) {
	logging.Warn().Msgf("badger: "+format, args...)
}

func (badgerLogAdapter) Infof(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}

func (badgerLogAdapter) Debugf(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}
