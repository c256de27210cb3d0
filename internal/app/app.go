// Package app assembles the pipeline from configuration.
package app

import (
	"fmt"

	"github.com/courtlog/nba-pbp/external/nbacdn"
	"github.com/courtlog/nba-pbp/internal/config"
	"github.com/courtlog/nba-pbp/internal/infrastructure/mappingfile"
	"github.com/courtlog/nba-pbp/internal/platform/cache"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
	"github.com/courtlog/nba-pbp/internal/platform/resilience"
	"github.com/courtlog/nba-pbp/internal/usecase"
)

// App holds the wired services for one process lifetime.
type App struct {
	Config   config.Config
	Logger   *logging.Logger
	Pipeline *usecase.PipelineService
	Scraper  *usecase.ScrapeService
}

func Build(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	overrides, err := mappingfile.NewLoader().Load(cfg.MappingPath)
	if err != nil {
		return nil, fmt.Errorf("load override mapping: %w", err)
	}

	client := nbacdn.NewClient(nbacdn.ClientConfig{
		BaseURL:    cfg.CDNBaseURL,
		Timeout:    cfg.CDNTimeout,
		MaxRetries: cfg.CDNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CDNCircuitEnabled,
			FailureThreshold: cfg.CDNCircuitFailureCount,
			OpenTimeout:      cfg.CDNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CDNCircuitHalfOpenMaxReq,
		},
	})

	var payloads *cache.Store
	if cfg.CacheEnabled {
		payloads = cache.NewStore(cfg.CacheTTL)
	}

	parserCfg := usecase.ParserConfig{SyntheticFTText: cfg.SyntheticFTText}
	pipeline := usecase.NewPipelineService(
		client,
		usecase.NewCDNParserService(overrides, parserCfg, logger),
		usecase.NewLegacyParserService(overrides, parserCfg, logger),
		usecase.NewPossessionService(logger),
		usecase.NewLineupService(logger),
		usecase.NewCoordsService(logger),
		usecase.NewBoxScoreCheckService(logger),
		payloads,
		usecase.PipelineConfig{
			SyntheticFTText:    cfg.SyntheticFTText,
			CoordinateBackfill: cfg.CoordinateBackfill,
		},
		logger,
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Pipeline: pipeline,
		Scraper:  usecase.NewScrapeService(pipeline, cfg.ScrapeWorkers, logger),
	}, nil
}
