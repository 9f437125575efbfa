/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/carverauto/proxypool/pkg/logger"
	"github.com/carverauto/proxypool/pkg/poolstore"
	"github.com/carverauto/proxypool/pkg/probe"
)

// Evictor re-scans the working set and deletes entries that fail a
// single probe. No retry, no grace window: a transient failure is
// indistinguishable from permanent death and is treated as permanent.
type Evictor struct {
	collection  poolstore.Collection
	store       poolstore.Store
	checker     probe.Checker
	concurrency int
	interval    time.Duration
	logger      logger.Logger
}

func NewEvictor(
	collection poolstore.Collection,
	store poolstore.Store,
	checker probe.Checker,
	concurrency int,
	interval time.Duration,
	log logger.Logger) *Evictor {
	return &Evictor{
		collection:  collection,
		store:       store,
		checker:     checker,
		concurrency: concurrency,
		interval:    interval,
		logger:      log,
	}
}

// Start runs eviction cycles until ctx is canceled.
func (e *Evictor) Start(ctx context.Context) error {
	return runLoop(ctx, "evict", e.interval, e.logger, e.runCycle)
}

type workingEntry struct {
	key     string
	address string
}

func (e *Evictor) runCycle(ctx context.Context) error {
	records, err := e.store.List(ctx, e.collection)
	if err != nil {
		return fmt.Errorf("listing working set: %w", err)
	}

	if len(records) == 0 {
		e.logger.Debug().Msg("Working set is empty")
		return nil
	}

	entries := make([]workingEntry, 0, len(records))

	for key, raw := range records {
		rec, err := decodeProxyRecord(raw)
		if err != nil {
			e.logger.Error().Err(err).Str("key", key).Msg("Skipping malformed working-set record")
			continue
		}

		if rec.Address == "" {
			continue
		}

		entries = append(entries, workingEntry{key: key, address: rec.Address})
	}

	e.logger.Info().Int("proxies", len(entries)).Msg("Scanning working set")

	fanOut(ctx, e.concurrency, entries, e.checkAndDelete)

	return nil
}

// checkAndDelete probes one entry and removes it on failure. Liveness
// success does not re-stamp last_checked; eviction only deletes.
func (e *Evictor) checkAndDelete(ctx context.Context, entry workingEntry) {
	if e.checker.Probe(ctx, entry.address) {
		return
	}

	if err := e.store.Delete(ctx, e.collection, entry.key); err != nil {
		e.logger.Error().Err(err).Str("address", entry.address).Str("key", entry.key).Msg("Failed to delete dead proxy")
		return
	}

	e.logger.Warn().Str("address", entry.address).Msg("Removed dead proxy")
}
