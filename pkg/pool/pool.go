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

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/proxypool/pkg/logger"
	"github.com/carverauto/proxypool/pkg/models"
	"github.com/carverauto/proxypool/pkg/poolstore"
	"github.com/carverauto/proxypool/pkg/probe"
)

// Pool orchestrates the three control loops over one shared store and
// checker. The loops coordinate only through the store; they observe it
// at arbitrary relative times and tolerate each other's concurrent
// mutations.
type Pool struct {
	ingester *Ingester
	evictor  *Evictor
	promoter *Promoter
	logger   logger.Logger
}

// New builds a pool from a validated configuration.
func New(cfg *models.PoolConfig, store poolstore.Store, checker probe.Checker, log logger.Logger) *Pool {
	working := poolstore.Collection(cfg.WorkingCollection)
	stable := poolstore.Collection(cfg.StableCollection)

	return &Pool{
		ingester: NewIngester(cfg.SourceURL, working, store, checker,
			cfg.Concurrency, cfg.IngestInterval.Duration(), log),
		evictor: NewEvictor(working, store, checker,
			cfg.Concurrency, cfg.EvictInterval.Duration(), log),
		promoter: NewPromoter(working, stable, store,
			cfg.StabilityThreshold.Duration(), cfg.PromoteInterval.Duration(), log),
		logger: log,
	}
}

// Start runs the loops until ctx is canceled and returns the context
// error. The loops never fail on their own; every cycle error is logged
// and absorbed.
func (p *Pool) Start(ctx context.Context) error {
	p.logger.Info().Msg("Starting proxy pool manager")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return p.ingester.Start(gctx) })
	g.Go(func() error { return p.evictor.Start(gctx) })
	g.Go(func() error { return p.promoter.Start(gctx) })

	return g.Wait()
}

// Stop implements lifecycle.Service. The loops stop with their context;
// in-flight probes and writes are abandoned without compensation.
func (p *Pool) Stop(_ context.Context) error {
	p.logger.Info().Msg("Proxy pool manager stopped")

	return nil
}
