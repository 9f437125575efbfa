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

// Package probe checks proxy liveness with bounded-time HTTP probes.
package probe

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/carverauto/proxypool/pkg/logger"
)

// Checker reports whether a proxy endpoint is alive.
type Checker interface {
	// Probe issues one request through the proxy at address (host:port
	// form) and reports success. All failure causes collapse to false:
	// a dead proxy and an overloaded one are treated identically.
	Probe(ctx context.Context, address string) bool
}

// HTTPChecker probes by routing a GET for a fixed check target through
// the candidate proxy and observing only the response status.
type HTTPChecker struct {
	checkURL string
	timeout  time.Duration
	logger   logger.Logger
}

var _ Checker = (*HTTPChecker)(nil)

const defaultProbeTimeout = 10 * time.Second

// NewHTTPChecker creates a checker against the given check target.
// A zero timeout uses the default probe timeout.
func NewHTTPChecker(checkURL string, timeout time.Duration, log logger.Logger) *HTTPChecker {
	if timeout == 0 {
		timeout = defaultProbeTimeout
	}

	return &HTTPChecker{
		checkURL: checkURL,
		timeout:  timeout,
		logger:   log,
	}
}

func (c *HTTPChecker) Probe(ctx context.Context, address string) bool {
	proxyURL, err := url.Parse("http://" + address)
	if err != nil {
		c.logger.Debug().Err(err).Str("address", address).Msg("Unparseable proxy address")
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.checkURL, http.NoBody)
	if err != nil {
		return false
	}

	// One client per probe: the proxy differs per request and the
	// transport must not pool connections across candidates.
	client := &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyURL(proxyURL),
			DisableKeepAlives: true,
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug().Err(err).Str("address", address).Msg("Failed to close probe response body")
		}
	}()

	return resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
}
