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
	"encoding/json"
	"fmt"
	"time"

	"github.com/carverauto/proxypool/pkg/logger"
	"github.com/carverauto/proxypool/pkg/models"
	"github.com/carverauto/proxypool/pkg/poolstore"
)

// Promoter copies working-set entries that have survived past the
// stability threshold into the stable set. Promotion is idempotent via
// a per-cycle snapshot of stable addresses; stable records are never
// deleted by this system.
type Promoter struct {
	workingCollection poolstore.Collection
	stableCollection  poolstore.Collection
	store             poolstore.Store
	threshold         time.Duration
	interval          time.Duration
	logger            logger.Logger
}

func NewPromoter(
	workingCollection, stableCollection poolstore.Collection,
	store poolstore.Store,
	threshold, interval time.Duration,
	log logger.Logger) *Promoter {
	return &Promoter{
		workingCollection: workingCollection,
		stableCollection:  stableCollection,
		store:             store,
		threshold:         threshold,
		interval:          interval,
		logger:            log,
	}
}

// Start runs promotion cycles until ctx is canceled.
func (p *Promoter) Start(ctx context.Context) error {
	return runLoop(ctx, "promote", p.interval, p.logger, p.runCycle)
}

func (p *Promoter) runCycle(ctx context.Context) error {
	records, err := p.store.List(ctx, p.workingCollection)
	if err != nil {
		return fmt.Errorf("listing working set: %w", err)
	}

	if len(records) == 0 {
		p.logger.Debug().Msg("Working set is empty")
		return nil
	}

	stable, err := p.snapshotStable(ctx)
	if err != nil {
		return fmt.Errorf("listing stable set: %w", err)
	}

	now := unixNow()

	// Sequential scan: promotion is read-mostly and low-frequency, so
	// no fan-out is needed here.
	for key, raw := range records {
		rec, err := decodeProxyRecord(raw)
		if err != nil {
			p.logger.Error().Err(err).Str("key", key).Msg("Skipping malformed working-set record")
			continue
		}

		if rec.Address == "" {
			continue
		}

		p.maybePromote(ctx, key, rec, now, stable)
	}

	return nil
}

// snapshotStable builds the per-cycle set of already-promoted addresses.
func (p *Promoter) snapshotStable(ctx context.Context) (*addressSet, error) {
	records, err := p.store.List(ctx, p.stableCollection)
	if err != nil {
		return nil, err
	}

	stable := newAddressSet()

	for key, raw := range records {
		var rec models.StableRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			p.logger.Error().Err(err).Str("key", key).Msg("Skipping malformed stable-set record")
			continue
		}

		if rec.Address != "" {
			stable.TryAdd(rec.Address)
		}
	}

	return stable, nil
}

func (p *Promoter) maybePromote(ctx context.Context, key string, rec models.ProxyRecord, now float64, stable *addressSet) {
	createdAt := rec.CreatedAt
	if createdAt == 0 {
		// A record without a creation timestamp defaults to now, so its
		// age is zero and it is never promoted.
		createdAt = now
	}

	age := now - createdAt
	if age < p.threshold.Seconds() {
		return
	}

	if !stable.TryAdd(rec.Address) {
		return
	}

	promoted := models.StableRecord{
		Address:     rec.Address,
		PromotedAt:  now,
		OriginalKey: key,
		AgeSeconds:  age,
	}

	if _, err := p.store.Insert(ctx, p.stableCollection, promoted); err != nil {
		p.logger.Error().Err(err).Str("address", rec.Address).Msg("Failed to promote proxy")
		stable.Remove(rec.Address)

		return
	}

	p.logger.Info().Str("address", rec.Address).Int("age_seconds", int(age)).Msg("Promoted proxy to stable set")
}
