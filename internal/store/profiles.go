// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/YldzBerkay/film-track-be-sub000/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
)

// snapshotDayFormat keys snapshots by calendar day; the lexicographic order
// of this format matches chronological order, so prefix iteration returns the
// timeline sorted.
const snapshotDayFormat = "2006-01-02"

// GetProfile retrieves a user's mood profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.UserMoodProfile, error) {
	metrics.StoreOperations.WithLabelValues("profiles", "get").Inc()

	var profile models.UserMoodProfile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// PutProfile overwrites the user's profile wholesale. Last write wins:
// profiles are derived data, not a source of truth.
func (s *Store) PutProfile(ctx context.Context, profile *models.UserMoodProfile) error {
	metrics.StoreOperations.WithLabelValues("profiles", "put").Inc()

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return s.update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.UserID), data)
	})
}

// UpsertSnapshot writes the user's snapshot for the snapshot's calendar day.
// A same-day snapshot overwrites the existing one; across days the timeline
// is append-only.
func (s *Store) UpsertSnapshot(ctx context.Context, snapshot *models.MoodSnapshot) error {
	metrics.StoreOperations.WithLabelValues("snapshots", "upsert").Inc()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	day := snapshot.TakenAt.UTC().Format(snapshotDayFormat)
	return s.update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(snapshot.UserID, day), data)
	})
}

// ListSnapshots returns the user's snapshot timeline in chronological order.
func (s *Store) ListSnapshots(ctx context.Context, userID string) ([]models.MoodSnapshot, error) {
	metrics.StoreOperations.WithLabelValues("snapshots", "list").Inc()

	prefix := []byte("snapshot:" + userID + ":")
	var snapshots []models.MoodSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var snapshot models.MoodSnapshot
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snapshot)
			}); err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			snapshots = append(snapshots, snapshot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
