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

// Package models defines the shared data types for the proxy pool.
package models

// StatusActive is the only proxy status currently written; the field is
// reserved for future states.
const StatusActive = "active"

// ProxyRecord is a working-set entry. Timestamps are UNIX seconds as
// stored remotely. CreatedAt is set once at first successful validation
// and never rewritten; eviction deletes records, it does not update them.
type ProxyRecord struct {
	Address     string  `json:"address"`
	CreatedAt   float64 `json:"created_at,omitempty"`
	LastChecked float64 `json:"last_checked,omitempty"`
	Status      string  `json:"status"`
}

// StableRecord is a stable-set entry, created once at promotion and never
// deleted by this system. OriginalKey is the working-set key at promotion
// time, not an ownership link; the working-set entry may already be gone.
type StableRecord struct {
	Address     string  `json:"address"`
	PromotedAt  float64 `json:"promoted_at"`
	OriginalKey string  `json:"original_key"`
	AgeSeconds  float64 `json:"age_seconds"`
}
