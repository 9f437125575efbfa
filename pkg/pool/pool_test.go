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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/proxypool/pkg/models"
	"github.com/carverauto/proxypool/pkg/poolstore"
)

func TestPoolRunsUntilCanceled(t *testing.T) {
	srv := bulkSource(t, "1.2.3.4:8080\nbad:entry\n1.2.3.4:8080\n")
	store := poolstore.NewMemoryStore()
	checker := &stubChecker{alive: map[string]bool{"1.2.3.4:8080": true}}

	cfg := &models.PoolConfig{
		SourceURL: srv.URL,
		CheckURL:  "http://check.example/ip",
		StoreURL:  "http://unused.example",
		// Long intervals: only the immediate initial cycles run.
		IngestInterval:     models.Duration(time.Hour),
		EvictInterval:      models.Duration(time.Hour),
		PromoteInterval:    models.Duration(time.Hour),
		StabilityThreshold: models.Duration(600 * time.Second),
		Concurrency:        10,
	}
	require.NoError(t, cfg.Validate())

	p := New(cfg, store, checker, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// Give the initial cycles time to complete.
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()

	err := p.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, p.Stop(context.Background()))

	// One ingestion cycle against the bulk list leaves exactly one
	// record for the deduplicated live address.
	records := workingRecords(t, store)
	require.Len(t, records, 1)

	for _, rec := range records {
		assert.Equal(t, "1.2.3.4:8080", rec.Address)
	}
}

func TestEvictionPreventsPromotion(t *testing.T) {
	ctx := context.Background()
	store := poolstore.NewMemoryStore()

	key, err := store.Insert(ctx, testWorking, models.ProxyRecord{
		Address:   "5.6.7.8:3128",
		CreatedAt: unixNow() - 700,
		Status:    models.StatusActive,
	})
	require.NoError(t, err)

	checker := &stubChecker{} // everything dead

	ev := NewEvictor(testWorking, store, checker, 10, time.Second, testLogger(t))
	pr := newTestPromoter(store, 600*time.Second, t)

	require.NoError(t, ev.runCycle(ctx))

	records, err := store.List(ctx, testWorking)
	require.NoError(t, err)
	assert.NotContains(t, records, key)

	// The record was evicted before the promotion scan saw it; no
	// stable entry appears.
	require.NoError(t, pr.runCycle(ctx))
	assert.Empty(t, stableRecords(t, store))
}
