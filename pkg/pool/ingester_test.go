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
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/proxypool/pkg/logger"
	"github.com/carverauto/proxypool/pkg/models"
	"github.com/carverauto/proxypool/pkg/poolstore"
)

const testWorking = poolstore.Collection("proxies")

func testLogger(t *testing.T) logger.Logger {
	t.Helper()

	log, err := logger.New(&logger.Config{Level: "error", Output: "stderr"})
	require.NoError(t, err)

	return log
}

// stubChecker reports liveness from a fixed table; unlisted addresses
// are dead. delay simulates probe latency so concurrent validations of
// the same address actually overlap.
type stubChecker struct {
	mu     sync.Mutex
	alive  map[string]bool
	delay  time.Duration
	probes int
}

func (c *stubChecker) Probe(_ context.Context, address string) bool {
	c.mu.Lock()
	c.probes++
	c.mu.Unlock()

	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.alive[address]
}

func (c *stubChecker) probeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.probes
}

func bulkSource(t *testing.T, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func workingRecords(t *testing.T, store poolstore.Store) map[string]models.ProxyRecord {
	t.Helper()

	raw, err := store.List(context.Background(), testWorking)
	require.NoError(t, err)

	out := make(map[string]models.ProxyRecord, len(raw))

	for key, data := range raw {
		var rec models.ProxyRecord

		require.NoError(t, json.Unmarshal(data, &rec))

		out[key] = rec
	}

	return out
}

func TestIngestCycleDedupWithinCycle(t *testing.T) {
	srv := bulkSource(t, "1.2.3.4:8080\nbad:entry\n1.2.3.4:8080\n\n")
	store := poolstore.NewMemoryStore()
	checker := &stubChecker{alive: map[string]bool{"1.2.3.4:8080": true}, delay: 20 * time.Millisecond}

	ing := NewIngester(srv.URL, testWorking, store, checker, 10, time.Minute, testLogger(t))

	require.NoError(t, ing.runCycle(context.Background()))

	records := workingRecords(t, store)
	require.Len(t, records, 1)

	for _, rec := range records {
		assert.Equal(t, "1.2.3.4:8080", rec.Address)
		assert.Equal(t, models.StatusActive, rec.Status)
		assert.Greater(t, rec.CreatedAt, float64(0))
		assert.Equal(t, rec.CreatedAt, rec.LastChecked)
	}
}

func TestIngestCycleLivenessGating(t *testing.T) {
	srv := bulkSource(t, "1.2.3.4:8080\n5.6.7.8:3128\n")
	store := poolstore.NewMemoryStore()
	checker := &stubChecker{alive: map[string]bool{"1.2.3.4:8080": true}}

	ing := NewIngester(srv.URL, testWorking, store, checker, 10, time.Minute, testLogger(t))

	require.NoError(t, ing.runCycle(context.Background()))

	records := workingRecords(t, store)
	require.Len(t, records, 1)

	for _, rec := range records {
		assert.Equal(t, "1.2.3.4:8080", rec.Address)
	}
}

func TestIngestCycleSkipsKnownAddresses(t *testing.T) {
	srv := bulkSource(t, "1.2.3.4:8080\n")
	store := poolstore.NewMemoryStore()

	_, err := store.Insert(context.Background(), testWorking, models.ProxyRecord{
		Address: "1.2.3.4:8080",
		Status:  models.StatusActive,
	})
	require.NoError(t, err)

	checker := &stubChecker{alive: map[string]bool{"1.2.3.4:8080": true}}

	ing := NewIngester(srv.URL, testWorking, store, checker, 10, time.Minute, testLogger(t))

	require.NoError(t, ing.runCycle(context.Background()))

	// Already known: not re-probed, not re-inserted.
	assert.Zero(t, checker.probeCount())
	assert.Len(t, workingRecords(t, store), 1)
}

func TestIngestCycleSourceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	store := poolstore.NewMemoryStore()
	checker := &stubChecker{}

	ing := NewIngester(srv.URL, testWorking, store, checker, 10, time.Minute, testLogger(t))

	err := ing.runCycle(context.Background())
	assert.ErrorIs(t, err, errSourceStatus)
	assert.Zero(t, checker.probeCount())
}

func TestIngestCycleStoreReadFailureIsolated(t *testing.T) {
	srv := bulkSource(t, "1.2.3.4:8080\n")

	ctrl := gomock.NewController(t)
	store := poolstore.NewMockStore(ctrl)

	// A failed snapshot degrades to an empty known set; the cycle still
	// validates and inserts.
	store.EXPECT().List(gomock.Any(), testWorking).Return(nil, errors.New("store down"))
	store.EXPECT().Insert(gomock.Any(), testWorking, gomock.Any()).Return("k1", nil)

	checker := &stubChecker{alive: map[string]bool{"1.2.3.4:8080": true}}

	ing := NewIngester(srv.URL, testWorking, store, checker, 10, time.Minute, testLogger(t))

	require.NoError(t, ing.runCycle(context.Background()))
}

func TestIngestCycleInsertFailureReleasesReservation(t *testing.T) {
	srv := bulkSource(t, "1.2.3.4:8080\n")

	ctrl := gomock.NewController(t)
	store := poolstore.NewMockStore(ctrl)

	store.EXPECT().List(gomock.Any(), testWorking).Return(map[string]json.RawMessage{}, nil)
	store.EXPECT().Insert(gomock.Any(), testWorking, gomock.Any()).Return("", errors.New("store down"))

	checker := &stubChecker{alive: map[string]bool{"1.2.3.4:8080": true}}

	ing := NewIngester(srv.URL, testWorking, store, checker, 10, time.Minute, testLogger(t))

	// The failed insert is logged and dropped; nothing records partial
	// progress and the next cycle retries.
	require.NoError(t, ing.runCycle(context.Background()))
}
