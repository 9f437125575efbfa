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

// Package pool implements the proxy pool lifecycle engine: the
// ingestion, eviction, and promotion loops sharing one remote-backed
// proxy set, and the orchestrator running them concurrently.
package pool

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carverauto/proxypool/pkg/logger"
	"github.com/carverauto/proxypool/pkg/models"
)

// runLoop drives one control loop: an immediate cycle, then one cycle
// per tick until ctx is canceled. Cycle errors are logged and dropped;
// the next scheduled cycle is the retry mechanism.
func runLoop(ctx context.Context, name string, interval time.Duration, log logger.Logger, cycle func(context.Context) error) error {
	log.Info().Str("loop", name).Dur("interval", interval).Msg("Starting loop")

	if err := cycle(ctx); err != nil {
		log.Error().Err(err).Str("loop", name).Msg("Cycle failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("loop", name).Msg("Context canceled, stopping loop")

			return ctx.Err()
		case <-ticker.C:
			if err := cycle(ctx); err != nil {
				log.Error().Err(err).Str("loop", name).Msg("Cycle failed")
			}
		}
	}
}

// unixNow returns the current time as UNIX seconds, the timestamp
// format used in stored records.
func unixNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// decodeProxyRecord unmarshals a stored working-set record. Malformed
// records are reported to the caller, which skips them; they stay in
// the store untouched.
func decodeProxyRecord(raw json.RawMessage) (models.ProxyRecord, error) {
	var rec models.ProxyRecord

	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.ProxyRecord{}, err
	}

	return rec, nil
}
