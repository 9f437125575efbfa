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

package poolstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory. It backs tests and
// local runs without a remote store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[Collection]map[string]json.RawMessage
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[Collection]map[string]json.RawMessage),
	}
}

func (s *MemoryStore) List(_ context.Context, col Collection) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]json.RawMessage, len(s.collections[col]))
	for k, v := range s.collections[col] {
		out[k] = v
	}

	return out, nil
}

func (s *MemoryStore) Insert(_ context.Context, col Collection, value interface{}) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	key := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[col] == nil {
		s.collections[col] = make(map[string]json.RawMessage)
	}

	s.collections[col][key] = payload

	return key, nil
}

func (s *MemoryStore) Delete(_ context.Context, col Collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[col], key)

	return nil
}
