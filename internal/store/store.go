// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

// Package store persists the engine's documents in BadgerDB.
//
// Collections are flat key prefixes over a single keyspace:
//
//	title:<kind>:<catalog_id>        AnalyzedTitle
//	title_name:<kind>:<lower title>  title-name index -> catalog id
//	profile:<user_id>                UserMoodProfile
//	snapshot:<user_id>:<yyyy-mm-dd>  MoodSnapshot (same-day overwrite by key)
//	rec:<user_id>:<mode>             RecommendationCacheEntry
//	feedback:<user_id>               UserFeedbackState
//	history:<user_id>:<kind>:<id>    WatchEntry
//
// Consistency relies on Badger's serializable transactions: the title upsert
// is set-on-insert, so concurrent resolution of the same unseen title
// converges to whichever write commits first. Profiles and recommendation
// entries are derived data and accept last-write-wins overwrites.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/YldzBerkay/film-track-be-sub000/internal/logging"
	"github.com/YldzBerkay/film-track-be-sub000/internal/models"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// conflict retries for optimistic transactions hitting badger.ErrConflict.
const maxTxnRetries = 5

// Options configures the document store.
type Options struct {
	// Path is the on-disk location of the Badger database.
	// Ignored when InMemory is set.
	Path string

	// InMemory runs the store without disk persistence. Used in tests.
	InMemory bool
}

// Store is the BadgerDB-backed document store.
type Store struct {
	db *badger.DB
}

// Open opens or creates the document store.
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	// Badger's default logger writes unstructured lines; route through ours.
	badgerOpts = badgerOpts.WithLogger(badgerLogger{})

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunValueLogGC triggers one round of Badger value-log garbage collection.
// Returns badger.ErrNoRewrite when there was nothing to reclaim.
func (s *Store) RunValueLogGC() error {
	return s.db.RunValueLogGC(0.5)
}

// update runs fn in a read-write transaction, retrying on commit conflicts.
// Badger detects conflicting concurrent writes at commit; retrying re-reads
// the committed state, which is exactly what set-on-insert upserts need.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxnRetries; i++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// keys

func titleKey(kind models.MediaKind, catalogID int) []byte {
	return []byte("title:" + string(kind) + ":" + strconv.Itoa(catalogID))
}

func titleNameKey(kind models.MediaKind, title string) []byte {
	return []byte("title_name:" + string(kind) + ":" + strings.ToLower(strings.TrimSpace(title)))
}

func profileKey(userID string) []byte {
	return []byte("profile:" + userID)
}

func snapshotKey(userID, day string) []byte {
	return []byte("snapshot:" + userID + ":" + day)
}

func recKey(userID string, mode models.RecommendMode) []byte {
	return []byte("rec:" + userID + ":" + string(mode))
}

func feedbackKey(userID string) []byte {
	return []byte("feedback:" + userID)
}

func historyKey(userID string, kind models.MediaKind, catalogID int) []byte {
	return []byte("history:" + userID + ":" + string(kind) + ":" + strconv.Itoa(catalogID))
}

// badgerLogger adapts Badger's logger interface to zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(format, args...)
}
