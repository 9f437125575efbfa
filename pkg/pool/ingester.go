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
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carverauto/proxypool/pkg/logger"
	"github.com/carverauto/proxypool/pkg/models"
	"github.com/carverauto/proxypool/pkg/poolstore"
	"github.com/carverauto/proxypool/pkg/probe"
)

var errSourceStatus = errors.New("bulk source returned unexpected status")

const sourceFetchTimeout = 15 * time.Second

// Ingester pulls the bulk candidate list, validates unknown candidates
// concurrently, and writes survivors into the working set.
type Ingester struct {
	sourceURL   string
	collection  poolstore.Collection
	store       poolstore.Store
	checker     probe.Checker
	concurrency int
	interval    time.Duration
	client      *http.Client
	logger      logger.Logger
}

func NewIngester(
	sourceURL string,
	collection poolstore.Collection,
	store poolstore.Store,
	checker probe.Checker,
	concurrency int,
	interval time.Duration,
	log logger.Logger) *Ingester {
	return &Ingester{
		sourceURL:   sourceURL,
		collection:  collection,
		store:       store,
		checker:     checker,
		concurrency: concurrency,
		interval:    interval,
		client:      &http.Client{Timeout: sourceFetchTimeout},
		logger:      log,
	}
}

// Start runs ingestion cycles until ctx is canceled.
func (i *Ingester) Start(ctx context.Context) error {
	return runLoop(ctx, "ingest", i.interval, i.logger, i.runCycle)
}

func (i *Ingester) runCycle(ctx context.Context) error {
	candidates, err := i.fetchCandidates(ctx)
	if err != nil {
		return fmt.Errorf("fetching candidate list: %w", err)
	}

	i.logger.Info().Int("candidates", len(candidates)).Msg("Bulk source provided candidates, validating")

	known := i.snapshotKnown(ctx)

	fanOut(ctx, i.concurrency, candidates, func(ctx context.Context, addr string) {
		i.validateAndAdd(ctx, addr, known)
	})

	i.logger.Info().Msg("Ingestion cycle complete")

	return nil
}

// fetchCandidates retrieves the newline-separated bulk list. Blank
// entries are discarded here; everything else goes to validation.
func (i *Ingester) fetchCandidates(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.sourceURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			i.logger.Error().Err(err).Msg("Failed to close source response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d", errSourceStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var candidates []string

	for _, line := range strings.Split(string(body), "\n") {
		addr := strings.TrimSpace(line)
		if addr == "" {
			continue
		}

		candidates = append(candidates, addr)
	}

	return candidates, nil
}

// snapshotKnown builds the per-cycle known set from the current working
// set. A store read failure yields an empty set: already-present proxies
// may then be re-validated and re-inserted, a tolerated duplication.
func (i *Ingester) snapshotKnown(ctx context.Context) *addressSet {
	known := newAddressSet()

	records, err := i.store.List(ctx, i.collection)
	if err != nil {
		i.logger.Error().Err(err).Str("collection", string(i.collection)).Msg("Failed to snapshot working set")
		return known
	}

	for key, raw := range records {
		rec, err := decodeProxyRecord(raw)
		if err != nil {
			i.logger.Error().Err(err).Str("key", key).Msg("Skipping malformed working-set record")
			continue
		}

		if rec.Address != "" {
			known.TryAdd(rec.Address)
		}
	}

	return known
}

func (i *Ingester) validateAndAdd(ctx context.Context, addr string, known *addressSet) {
	// Reserve before probing so two copies of the same candidate
	// cannot both insert.
	if !known.TryAdd(addr) {
		return
	}

	if !i.checker.Probe(ctx, addr) {
		known.Remove(addr)
		return
	}

	now := unixNow()
	rec := models.ProxyRecord{
		Address:     addr,
		CreatedAt:   now,
		LastChecked: now,
		Status:      models.StatusActive,
	}

	if _, err := i.store.Insert(ctx, i.collection, rec); err != nil {
		i.logger.Error().Err(err).Str("address", addr).Msg("Failed to insert proxy")
		known.Remove(addr)

		return
	}

	i.logger.Info().Str("address", addr).Msg("Added proxy")
}
