// Copyright 2026 Emberfield Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package cache provides an opt-in BadgerDB store of successful enrichment
// responses keyed by fault identity. The index checkpoint marks failed
// records done and never revisits them; the cache compensates by letting a
// rerun (with a cleared checkpoint, or against an overlapping dataset)
// reuse previously paid-for responses instead of re-billing the external
// services.
//
// The cache is strictly best-effort: lookup and store failures are logged
// and treated as misses, never surfaced to the pipeline.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/emberfield/faultwise/ai"
	"github.com/emberfield/faultwise/core"
)

// Key prefixes for the cached response kinds.
const (
	overviewPrefix  = "ovw"
	resourcesPrefix = "res"
)

// Store caches raw enrichment responses in BadgerDB.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens (creating if needed) a response cache at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLoggerAdapter{logger: slog.Default().With("component", "cache")}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dir, err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "cache"),
	}, nil
}

// OpenInMemory opens an in-memory cache for tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = &badgerLoggerAdapter{logger: slog.Default().With("component", "cache")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "cache"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetOverview returns the cached overview for the fault identity, or false
// on a miss.
func (s *Store) GetOverview(id core.ID) (*ai.Overview, bool) {
	var overview ai.Overview
	if !s.get(makeKey(overviewPrefix, id), &overview) {
		return nil, false
	}
	return &overview, true
}

// PutOverview caches a successful overview response.
func (s *Store) PutOverview(id core.ID, overview *ai.Overview) {
	s.put(makeKey(overviewPrefix, id), overview)
}

// GetResources returns the cached resource list for the fault identity, or
// false on a miss. A cached empty list is a hit.
func (s *Store) GetResources(id core.ID) ([]core.Resource, bool) {
	resources := []core.Resource{}
	if !s.get(makeKey(resourcesPrefix, id), &resources) {
		return nil, false
	}
	return resources, true
}

// PutResources caches a successful resource search response.
func (s *Store) PutResources(id core.ID, resources []core.Resource) {
	if resources == nil {
		resources = []core.Resource{}
	}
	s.put(makeKey(resourcesPrefix, id), resources)
}

// get loads and decodes a value; any failure is a miss.
func (s *Store) get(key []byte, out any) bool {
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			s.logger.Warn("cache lookup failed", "key", string(key), "err", err)
		}
		return false
	}
	return true
}

// put encodes and stores a value; failures are logged, not surfaced.
func (s *Store) put(key []byte, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed", "key", string(key), "err", err)
		return
	}
	err = s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(key, data)
	})
	if err != nil {
		s.logger.Warn("cache store failed", "key", string(key), "err", err)
	}
}

// makeKey generates a key "prefix:id".
func makeKey(prefix string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", prefix, id))
}
