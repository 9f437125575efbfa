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

// Package lifecycle manages service startup and shutdown.
package lifecycle

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/carverauto/proxypool/pkg/logger"
)

// Service is a long-running component driven by Run.
type Service interface {
	// Start runs the service until ctx is canceled.
	Start(ctx context.Context) error

	// Stop releases service resources after Start returns.
	Stop(ctx context.Context) error
}

// Run starts the service and blocks until an interrupt or termination
// signal arrives. In-flight work is abandoned on shutdown; the service
// is given no grace period beyond its own Stop.
func Run(ctx context.Context, svc Service, log logger.Logger) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		errCh <- svc.Start(sigCtx)
	}()

	select {
	case <-sigCtx.Done():
		log.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	if err := svc.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to stop service cleanly")
		return err
	}

	log.Info().Msg("Shutdown complete")

	return nil
}

// CreateComponentLogger creates a logger tagged with a component field.
func CreateComponentLogger(component string, config *logger.Config) (logger.Logger, error) {
	base, err := logger.New(config)
	if err != nil {
		return nil, err
	}

	return base.Component(component), nil
}
