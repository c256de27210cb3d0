package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtlog/nba-pbp/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the pipeline.
type Config struct {
	AppEnv                   string
	ServiceName              string
	ServiceVersion           string
	MappingPath              string
	OutputDir                string
	SyntheticFTText          bool
	CoordinateBackfill       bool
	ScrapeWorkers            int
	CacheEnabled             bool
	CacheTTL                 time.Duration
	CDNBaseURL               string
	CDNTimeout               time.Duration
	CDNMaxRetries            int
	CDNCircuitEnabled        bool
	CDNCircuitFailureCount   int
	CDNCircuitOpenTimeout    time.Duration
	CDNCircuitHalfOpenMaxReq int
	LogLevel                 logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	syntheticFTText, err := strconv.ParseBool(getEnv("PBP_SYNTHETIC_FT_TEXT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PBP_SYNTHETIC_FT_TEXT: %w", err)
	}

	coordinateBackfill, err := strconv.ParseBool(getEnv("PBP_COORDINATE_BACKFILL", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PBP_COORDINATE_BACKFILL: %w", err)
	}

	scrapeWorkers, err := getEnvAsInt("PBP_SCRAPE_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PBP_SCRAPE_WORKERS: %w", err)
	}
	if scrapeWorkers < 1 {
		return Config{}, fmt.Errorf("PBP_SCRAPE_WORKERS must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	cdnTimeout, err := time.ParseDuration(getEnv("NBA_CDN_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_CDN_TIMEOUT: %w", err)
	}
	if cdnTimeout <= 0 {
		return Config{}, fmt.Errorf("NBA_CDN_TIMEOUT must be > 0")
	}

	cdnMaxRetries, err := getEnvAsInt("NBA_CDN_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_CDN_MAX_RETRIES: %w", err)
	}
	if cdnMaxRetries < 0 {
		return Config{}, fmt.Errorf("NBA_CDN_MAX_RETRIES must be >= 0")
	}

	cdnCircuitEnabled, err := strconv.ParseBool(getEnv("NBA_CDN_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_CDN_CIRCUIT_ENABLED: %w", err)
	}
	cdnCircuitFailureCount, err := getEnvAsInt("NBA_CDN_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_CDN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cdnCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("NBA_CDN_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cdnCircuitOpenTimeout, err := time.ParseDuration(getEnv("NBA_CDN_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_CDN_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cdnCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("NBA_CDN_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cdnCircuitHalfOpenMaxReq, err := getEnvAsInt("NBA_CDN_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NBA_CDN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cdnCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("NBA_CDN_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	mappingPath := strings.TrimSpace(getEnv("PBP_MAPPING_PATH", ""))
	if mappingPath != "" {
		if _, err := os.Stat(mappingPath); err != nil {
			return Config{}, fmt.Errorf("PBP_MAPPING_PATH %q is not readable: %w", mappingPath, err)
		}
	}

	cfg := Config{
		AppEnv:                   appEnv,
		ServiceName:              getEnv("APP_SERVICE_NAME", "nba-pbp"),
		ServiceVersion:           getEnv("APP_SERVICE_VERSION", "dev"),
		MappingPath:              mappingPath,
		OutputDir:                strings.TrimSpace(getEnv("PBP_OUTPUT_DIR", ".")),
		SyntheticFTText:          syntheticFTText,
		CoordinateBackfill:       coordinateBackfill,
		ScrapeWorkers:            scrapeWorkers,
		CacheEnabled:             cacheEnabled,
		CacheTTL:                 cacheTTL,
		CDNBaseURL:               strings.TrimSpace(getEnv("NBA_CDN_BASE_URL", "https://cdn.nba.com/static/json")),
		CDNTimeout:               cdnTimeout,
		CDNMaxRetries:            cdnMaxRetries,
		CDNCircuitEnabled:        cdnCircuitEnabled,
		CDNCircuitFailureCount:   cdnCircuitFailureCount,
		CDNCircuitOpenTimeout:    cdnCircuitOpenTimeout,
		CDNCircuitHalfOpenMaxReq: cdnCircuitHalfOpenMaxReq,
		LogLevel:                 parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	if cfg.OutputDir == "" {
		return Config{}, fmt.Errorf("PBP_OUTPUT_DIR cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
