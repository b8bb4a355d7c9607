// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/YldzBerkay/film-track-be-sub000/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
)

// GetTitle retrieves an AnalyzedTitle by its composite key.
func (s *Store) GetTitle(ctx context.Context, kind models.MediaKind, catalogID int) (*models.AnalyzedTitle, error) {
	metrics.StoreOperations.WithLabelValues("titles", "get").Inc()

	var title models.AnalyzedTitle
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(titleKey(kind, catalogID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get title: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &title)
		})
	})
	if err != nil {
		return nil, err
	}
	return &title, nil
}

// InsertTitleIfAbsent persists the title with set-on-insert semantics: when a
// record for (kind, catalog id) already carries an analysis, the existing
// record wins and is returned with inserted=false; the caller's redundant
// analysis is discarded at the store while the caller keeps using the vector
// it computed. Concurrent first writes for the same key conflict at commit
// and the loser re-reads the winner on retry.
func (s *Store) InsertTitleIfAbsent(ctx context.Context, title *models.AnalyzedTitle) (*models.AnalyzedTitle, bool, error) {
	metrics.StoreOperations.WithLabelValues("titles", "upsert").Inc()

	stored := title
	inserted := false
	err := s.update(func(txn *badger.Txn) error {
		stored = title
		inserted = false

		item, err := txn.Get(titleKey(title.Kind, title.CatalogID))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// First writer: persist ours.
		case err != nil:
			return fmt.Errorf("read existing title: %w", err)
		default:
			var existing models.AnalyzedTitle
			if verr := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); verr != nil {
				return fmt.Errorf("decode existing title: %w", verr)
			}
			if !existing.AnalyzedAt.IsZero() {
				stored = &existing
				return nil
			}
			// Placeholder without an analysis: ours completes it.
		}

		data, err := json.Marshal(title)
		if err != nil {
			return fmt.Errorf("marshal title: %w", err)
		}
		if err := txn.Set(titleKey(title.Kind, title.CatalogID), data); err != nil {
			return fmt.Errorf("set title: %w", err)
		}
		if err := txn.Set(titleNameKey(title.Kind, title.Title), []byte(strconv.Itoa(title.CatalogID))); err != nil {
			return fmt.Errorf("set title name index: %w", err)
		}
		inserted = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return stored, inserted, nil
}

// ReplaceTitle overwrites the stored record unconditionally. Used by explicit
// re-analysis, which is the only path allowed to replace an existing vector.
// Cached translations survive the replacement unless the new record brings
// its own.
func (s *Store) ReplaceTitle(ctx context.Context, title *models.AnalyzedTitle) error {
	metrics.StoreOperations.WithLabelValues("titles", "replace").Inc()

	return s.update(func(txn *badger.Txn) error {
		if title.Translations == nil {
			item, err := txn.Get(titleKey(title.Kind, title.CatalogID))
			if err == nil {
				var existing models.AnalyzedTitle
				if verr := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &existing)
				}); verr == nil {
					title.Translations = existing.Translations
				}
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("read existing title: %w", err)
			}
		}

		data, err := json.Marshal(title)
		if err != nil {
			return fmt.Errorf("marshal title: %w", err)
		}
		if err := txn.Set(titleKey(title.Kind, title.CatalogID), data); err != nil {
			return fmt.Errorf("set title: %w", err)
		}
		return txn.Set(titleNameKey(title.Kind, title.Title), []byte(strconv.Itoa(title.CatalogID)))
	})
}

// SetTranslation caches a localized metadata variant on the stored title,
// replacing any stale entry for that language code.
func (s *Store) SetTranslation(ctx context.Context, kind models.MediaKind, catalogID int, language string, meta models.TitleMetadata) error {
	metrics.StoreOperations.WithLabelValues("titles", "set_translation").Inc()

	return s.update(func(txn *badger.Txn) error {
		item, err := txn.Get(titleKey(kind, catalogID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get title: %w", err)
		}

		var title models.AnalyzedTitle
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &title)
		}); err != nil {
			return fmt.Errorf("decode title: %w", err)
		}

		if title.Translations == nil {
			title.Translations = make(map[string]models.TitleMetadata)
		}
		title.Translations[language] = meta

		data, err := json.Marshal(&title)
		if err != nil {
			return fmt.Errorf("marshal title: %w", err)
		}
		return txn.Set(titleKey(kind, catalogID), data)
	})
}

// FindTitleByName looks up an analyzed title by case-insensitive exact title
// match through the name index.
func (s *Store) FindTitleByName(ctx context.Context, kind models.MediaKind, name string) (*models.AnalyzedTitle, error) {
	metrics.StoreOperations.WithLabelValues("titles", "find_by_name").Inc()

	var catalogID int
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(titleNameKey(kind, name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get title name index: %w", err)
		}
		return item.Value(func(val []byte) error {
			id, convErr := strconv.Atoi(string(val))
			if convErr != nil {
				return fmt.Errorf("corrupt title name index: %w", convErr)
			}
			catalogID = id
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetTitle(ctx, kind, catalogID)
}

// ListTitles returns up to limit analyzed titles of the given kind, in key
// order. A limit of 0 or less returns all.
func (s *Store) ListTitles(ctx context.Context, kind models.MediaKind, limit int) ([]models.AnalyzedTitle, error) {
	metrics.StoreOperations.WithLabelValues("titles", "list").Inc()

	prefix := []byte("title:" + string(kind) + ":")
	var titles []models.AnalyzedTitle
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(titles) >= limit {
				break
			}
			var title models.AnalyzedTitle
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &title)
			}); err != nil {
				return fmt.Errorf("decode title: %w", err)
			}
			titles = append(titles, title)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return titles, nil
}
