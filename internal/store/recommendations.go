// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/YldzBerkay/film-track-be-sub000/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
)

// GetRecommendations retrieves the cached recommendation set for (user, mode).
func (s *Store) GetRecommendations(ctx context.Context, userID string, mode models.RecommendMode) (*models.RecommendationCacheEntry, error) {
	metrics.StoreOperations.WithLabelValues("recommendations", "get").Inc()

	var entry models.RecommendationCacheEntry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recKey(userID, mode))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get recommendations: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// PutRecommendations replaces the cached set for (user, mode) wholesale.
func (s *Store) PutRecommendations(ctx context.Context, entry *models.RecommendationCacheEntry) error {
	metrics.StoreOperations.WithLabelValues("recommendations", "put").Inc()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	return s.update(func(txn *badger.Txn) error {
		return txn.Set(recKey(entry.UserID, entry.Mode), data)
	})
}

// DeleteRecommendations removes the cached set for (user, mode). Deleting a
// missing entry is not an error.
func (s *Store) DeleteRecommendations(ctx context.Context, userID string, mode models.RecommendMode) error {
	metrics.StoreOperations.WithLabelValues("recommendations", "delete").Inc()

	return s.update(func(txn *badger.Txn) error {
		err := txn.Delete(recKey(userID, mode))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// SweepExpiredRecommendations deletes cache entries whose expiry has passed.
// Expiry is also enforced on read; the sweep reclaims space. Returns the
// number of entries removed.
func (s *Store) SweepExpiredRecommendations(ctx context.Context, now time.Time) (int, error) {
	metrics.StoreOperations.WithLabelValues("recommendations", "sweep").Inc()

	prefix := []byte("rec:")
	var expired [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry models.RecommendationCacheEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return fmt.Errorf("decode recommendations: %w", err)
			}
			if entry.Expired(now) {
				expired = append(expired, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, key := range expired {
		key := key
		if err := s.update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		}); err != nil {
			return 0, fmt.Errorf("delete expired entry: %w", err)
		}
	}
	return len(expired), nil
}
