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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carverauto/proxypool/pkg/logger"
)

var (
	errUnexpectedStatus = errors.New("unexpected status code")
	errMissingKey       = errors.New("store response missing generated key")
)

const defaultRequestTimeout = 15 * time.Second

// HTTPStore talks to a Firebase-style REST document store. Collections
// live at {base}/{collection}.json and individual records at
// {base}/{collection}/{key}.json.
type HTTPStore struct {
	base   string
	client *http.Client
	logger logger.Logger
}

var _ Store = (*HTTPStore)(nil)

// NewHTTPStore creates a store client for the given base URL. A zero
// timeout uses the default request timeout.
func NewHTTPStore(baseURL string, timeout time.Duration, log logger.Logger) *HTTPStore {
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	return &HTTPStore{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
		logger: log,
	}
}

func (s *HTTPStore) List(ctx context.Context, col Collection) (map[string]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.collectionURL(col), http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer s.closeBody(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %d listing %s", errUnexpectedStatus, resp.StatusCode, col)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// An empty collection comes back as a JSON null body.
	var records map[string]json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", col, err)
	}

	if records == nil {
		records = make(map[string]json.RawMessage)
	}

	return records, nil
}

func (s *HTTPStore) Insert(ctx context.Context, col Collection, value interface{}) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.collectionURL(col), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer s.closeBody(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %d inserting into %s", errUnexpectedStatus, resp.StatusCode, col)
	}

	var result struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding insert response for %s: %w", col, err)
	}

	if result.Name == "" {
		return "", errMissingKey
	}

	return result.Name, nil
}

func (s *HTTPStore) Delete(ctx context.Context, col Collection, key string) error {
	url := fmt.Sprintf("%s/%s/%s.json", s.base, col, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer s.closeBody(resp)

	// Deleting an already-absent key is success.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d deleting %s from %s", errUnexpectedStatus, resp.StatusCode, key, col)
	}

	return nil
}

func (s *HTTPStore) collectionURL(col Collection) string {
	return fmt.Sprintf("%s/%s.json", s.base, col)
}

func (s *HTTPStore) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to close response body")
	}
}
