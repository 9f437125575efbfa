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

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *PoolConfig {
	return &PoolConfig{
		SourceURL: "http://source.example/proxies",
		CheckURL:  "http://check.example/ip",
		StoreURL:  "https://store.example",
	}
}

func TestPoolConfigValidateDefaults(t *testing.T) {
	cfg := validConfig()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "proxies", cfg.WorkingCollection)
	assert.Equal(t, "stable_proxies", cfg.StableCollection)
	assert.Equal(t, 200, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.ProbeTimeout.Duration())
	assert.Equal(t, 20*time.Second, cfg.IngestInterval.Duration())
	assert.Equal(t, 2*time.Second, cfg.EvictInterval.Duration())
	assert.Equal(t, 30*time.Second, cfg.PromoteInterval.Duration())
	assert.Equal(t, 600*time.Second, cfg.StabilityThreshold.Duration())
}

func TestPoolConfigValidateKeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Concurrency = 50
	cfg.StabilityThreshold = Duration(5 * time.Minute)

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50, cfg.Concurrency)
	assert.Equal(t, 5*time.Minute, cfg.StabilityThreshold.Duration())
}

func TestPoolConfigValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PoolConfig)
		wantErr error
	}{
		{"missing source", func(c *PoolConfig) { c.SourceURL = "" }, ErrMissingSourceURL},
		{"missing check", func(c *PoolConfig) { c.CheckURL = "" }, ErrMissingCheckURL},
		{"missing store", func(c *PoolConfig) { c.StoreURL = "" }, ErrMissingStoreURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}
