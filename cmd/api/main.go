package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/ptengelmann/ProfilanIQ/adapters/csvparse"
	"github.com/ptengelmann/ProfilanIQ/api"
	"github.com/ptengelmann/ProfilanIQ/app"
	"github.com/ptengelmann/ProfilanIQ/internal"
	"github.com/ptengelmann/ProfilanIQ/internal/cache"
	"github.com/ptengelmann/ProfilanIQ/internal/config"
	"github.com/ptengelmann/ProfilanIQ/internal/pool"
	"github.com/ptengelmann/ProfilanIQ/internal/profiling"
	"github.com/ptengelmann/ProfilanIQ/internal/sampling"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	logger := internal.NewDefaultLogger()

	engine := profiling.New(pool.New(), logger, profiling.Options{
		MaxWorkers:        cfg.Engine.MaxWorkers,
		ChunkSize:         cfg.Engine.ChunkSize,
		ParallelThreshold: cfg.Engine.ParallelThreshold,
		PoolTimeout:       cfg.Engine.PoolTimeout,
	})
	sampler := sampling.New()

	var reportCache ports.ReportCache
	if cfg.Cache.Enabled {
		store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, logger)
		if err != nil {
			logger.Warn("cache disabled: %v", err)
		} else {
			store.StartSweeper(context.Background(), time.Hour)
			reportCache = store
		}
	}

	profiles := app.NewProfileService(csvparse.New(logger), reportCache, sampler, engine, logger, cfg.Limits.RequestTimeout)
	compares := app.NewCompareService(sampler, engine, logger, cfg.Limits.RequestTimeout)

	api.StartDebugServer(cfg, logger)

	server := api.NewServer(cfg, profiles, compares, logger)
	if err := server.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
