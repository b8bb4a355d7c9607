// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/YldzBerkay/film-track-be-sub000/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
)

// The watch-history collaborator is owned by the surrounding CRUD backend;
// this store-backed reader exists so the engine and server run end to end.
// The engine itself depends only on the engine.HistoryProvider interface.

// PutWatchEntry records one watch-history entry, keyed per user and title.
// Re-watching or re-rating the same title overwrites the entry.
func (s *Store) PutWatchEntry(ctx context.Context, entry *models.WatchEntry) error {
	metrics.StoreOperations.WithLabelValues("history", "put").Inc()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal watch entry: %w", err)
	}
	return s.update(func(txn *badger.Txn) error {
		return txn.Set(historyKey(entry.UserID, entry.Kind, entry.CatalogID), data)
	})
}

// ListWatchHistory returns all of a user's watch-history entries.
func (s *Store) ListWatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error) {
	metrics.StoreOperations.WithLabelValues("history", "list").Inc()

	prefix := []byte("history:" + userID + ":")
	var entries []models.WatchEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry models.WatchEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return fmt.Errorf("decode watch entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListRatedHistory returns the user's rated entries of recognized media
// kinds, the input to profile aggregation.
func (s *Store) ListRatedHistory(ctx context.Context, userID string) ([]models.WatchEntry, error) {
	entries, err := s.ListWatchHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	rated := entries[:0]
	for _, entry := range entries {
		if entry.Rating > 0 && entry.Kind.Valid() {
			rated = append(rated, entry)
		}
	}
	return rated, nil
}
