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
	"errors"
	"time"

	"github.com/carverauto/proxypool/pkg/logger"
)

var (
	ErrMissingSourceURL = errors.New("source_url is required")
	ErrMissingCheckURL  = errors.New("check_url is required")
	ErrMissingStoreURL  = errors.New("store_url is required")
)

const (
	defaultConcurrency        = 200
	defaultProbeTimeout       = 10 * time.Second
	defaultIngestInterval     = 20 * time.Second
	defaultEvictInterval      = 2 * time.Second
	defaultPromoteInterval    = 30 * time.Second
	defaultStabilityThreshold = 600 * time.Second
	defaultWorkingCollection  = "proxies"
	defaultStableCollection   = "stable_proxies"
)

// PoolConfig is the proxy pool daemon configuration. All values are
// static at process start; there is no runtime reconfiguration.
type PoolConfig struct {
	// SourceURL serves the bulk candidate list as newline-separated
	// host:port strings.
	SourceURL string `json:"source_url"`

	// CheckURL is the liveness target probed through each candidate.
	CheckURL string `json:"check_url"`

	// StoreURL is the base URL of the remote JSON document store.
	StoreURL string `json:"store_url"`

	WorkingCollection string `json:"working_collection,omitempty"`
	StableCollection  string `json:"stable_collection,omitempty"`

	// Concurrency caps in-flight probes per loop. Ingestion and
	// eviction each get their own limiter with this cap.
	Concurrency int `json:"concurrency,omitempty"`

	ProbeTimeout    Duration `json:"probe_timeout,omitempty"`
	IngestInterval  Duration `json:"ingest_interval,omitempty"`
	EvictInterval   Duration `json:"evict_interval,omitempty"`
	PromoteInterval Duration `json:"promote_interval,omitempty"`

	// StabilityThreshold is the age a working-set record must reach
	// before promotion into the stable set.
	StabilityThreshold Duration `json:"stability_threshold,omitempty"`

	Logging *logger.Config `json:"logging,omitempty"`
}

// Validate checks required fields and fills defaults.
func (c *PoolConfig) Validate() error {
	if c.SourceURL == "" {
		return ErrMissingSourceURL
	}

	if c.CheckURL == "" {
		return ErrMissingCheckURL
	}

	if c.StoreURL == "" {
		return ErrMissingStoreURL
	}

	if c.WorkingCollection == "" {
		c.WorkingCollection = defaultWorkingCollection
	}

	if c.StableCollection == "" {
		c.StableCollection = defaultStableCollection
	}

	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}

	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = Duration(defaultProbeTimeout)
	}

	if c.IngestInterval == 0 {
		c.IngestInterval = Duration(defaultIngestInterval)
	}

	if c.EvictInterval == 0 {
		c.EvictInterval = Duration(defaultEvictInterval)
	}

	if c.PromoteInterval == 0 {
		c.PromoteInterval = Duration(defaultPromoteInterval)
	}

	if c.StabilityThreshold == 0 {
		c.StabilityThreshold = Duration(defaultStabilityThreshold)
	}

	return nil
}
