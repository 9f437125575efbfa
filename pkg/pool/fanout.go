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
	"sync"
)

const fanOutChannelMultiplier = 2

// fanOut runs fn over items with at most concurrency invocations in
// flight and blocks until the batch drains. Cancelling ctx stops the
// feeder; in-flight invocations are abandoned to their own timeouts
// with no compensation.
func fanOut[T any](ctx context.Context, concurrency int, items []T, fn func(context.Context, T)) {
	if len(items) == 0 {
		return
	}

	if concurrency > len(items) {
		concurrency = len(items)
	}

	workCh := make(chan T, concurrency*fanOutChannelMultiplier)

	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for item := range workCh {
				fn(ctx, item)
			}
		}()
	}

	func() {
		defer close(workCh)

		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case workCh <- item:
			}
		}
	}()

	wg.Wait()
}
