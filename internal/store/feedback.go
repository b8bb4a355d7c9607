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

// GetFeedbackState retrieves a user's feedback state. A user with no stored
// state gets a zero-valued one; the quota fields are settled by
// ResetQuotaIfNewMonth on first use.
func (s *Store) GetFeedbackState(ctx context.Context, userID string) (*models.UserFeedbackState, error) {
	metrics.StoreOperations.WithLabelValues("feedback", "get").Inc()

	state := &models.UserFeedbackState{UserID: userID}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(feedbackKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get feedback state: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, state)
		})
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// PutFeedbackState overwrites a user's feedback state.
func (s *Store) PutFeedbackState(ctx context.Context, state *models.UserFeedbackState) error {
	metrics.StoreOperations.WithLabelValues("feedback", "put").Inc()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal feedback state: %w", err)
	}
	return s.update(func(txn *badger.Txn) error {
		return txn.Set(feedbackKey(state.UserID), data)
	})
}
