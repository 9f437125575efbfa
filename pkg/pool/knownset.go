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
	"sync"
)

// addressSet is the per-cycle duplicate-suppression set. TryAdd performs
// membership check and reservation in one critical section; it is the
// only mechanism preventing two concurrent validations of the same
// address from both inserting within a cycle. It cannot prevent races
// against other loops observing stale store data; those duplicates are
// tolerated and self-heal on later cycles.
type addressSet struct {
	mu    sync.Mutex
	addrs map[string]struct{}
}

func newAddressSet() *addressSet {
	return &addressSet{addrs: make(map[string]struct{})}
}

// TryAdd reserves addr if it is not already present. Returns false when
// the address was already reserved or known.
func (s *addressSet) TryAdd(addr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.addrs[addr]; ok {
		return false
	}

	s.addrs[addr] = struct{}{}

	return true
}

// Remove releases a reservation, allowing a later candidate for the
// same address to try again within the cycle.
func (s *addressSet) Remove(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.addrs, addr)
}

func (s *addressSet) Has(addr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.addrs[addr]

	return ok
}

func (s *addressSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.addrs)
}
