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

//go:generate mockgen -destination=mock_store.go -package=poolstore github.com/carverauto/proxypool/pkg/poolstore Store

// Package poolstore provides clients for the remote proxy document store.
package poolstore

import (
	"context"
	"encoding/json"
)

// Collection names a logical document collection in the store.
type Collection string

// Store is the remote key-value document store holding the working and
// stable proxy sets. Every operation is a single unconditioned call;
// there are no transactions or concurrency tokens, and callers are
// expected to tolerate lost-update races across loops.
type Store interface {
	// List returns every record in the collection keyed by its opaque
	// store-assigned key. An empty collection is an empty map, not an
	// error.
	List(ctx context.Context, col Collection) (map[string]json.RawMessage, error)

	// Insert adds a record and returns the store-assigned key.
	Insert(ctx context.Context, col Collection, value interface{}) (string, error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, col Collection, key string) error
}
