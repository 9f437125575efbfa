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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/carverauto/proxypool/pkg/config"
	"github.com/carverauto/proxypool/pkg/lifecycle"
	"github.com/carverauto/proxypool/pkg/models"
	"github.com/carverauto/proxypool/pkg/pool"
	"github.com/carverauto/proxypool/pkg/poolstore"
	"github.com/carverauto/proxypool/pkg/probe"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/proxypool/poolmgr.json", "Path to pool manager config file")
	flag.Parse()

	ctx := context.Background()

	var cfg models.PoolConfig

	if err := config.NewConfig().LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	poolLogger, err := lifecycle.CreateComponentLogger("poolmgr", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store := poolstore.NewHTTPStore(cfg.StoreURL, 0, poolLogger)
	checker := probe.NewHTTPChecker(cfg.CheckURL, cfg.ProbeTimeout.Duration(), poolLogger)

	return lifecycle.Run(ctx, pool.New(&cfg, store, checker, poolLogger), poolLogger)
}
