package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtlog/nba-pbp/internal/app"
	"github.com/courtlog/nba-pbp/internal/config"
	"github.com/courtlog/nba-pbp/internal/domain/pbp"
	"github.com/courtlog/nba-pbp/internal/infrastructure/csvfile"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
	"github.com/courtlog/nba-pbp/internal/usecase"
)

const dateLayout = "2006-01-02"

func main() {
	games := flag.String("games", "", "comma-separated game ids to scrape from the modern feed")
	legacyPath := flag.String("legacy", "", "path to a legacy result-set JSON file to normalize")
	fromDate := flag.String("from", "", "start date (YYYY-MM-DD) for schedule-driven scraping")
	toDate := flag.String("to", "", "end date (YYYY-MM-DD) for schedule-driven scraping")
	season := flag.Int("season", 0, "season starting year to scrape in full, e.g. 2023 for 2023-24")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	application, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, application, *games, *legacyPath, *fromDate, *toDate, *season); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, application *app.App, games, legacyPath, fromDate, toDate string, season int) error {
	switch {
	case legacyPath != "":
		return runLegacy(application, legacyPath)
	case season != 0:
		batch, err := application.Scraper.ScrapeSeason(ctx, season)
		if err != nil {
			return err
		}
		return writeResults(application, batch)
	case games != "":
		gameIDs := splitCSV(games)
		batch, err := application.Scraper.ScrapeGames(ctx, gameIDs)
		if err != nil {
			return err
		}
		return writeResults(application, batch)
	case fromDate != "" && toDate != "":
		from, err := time.Parse(dateLayout, fromDate)
		if err != nil {
			return fmt.Errorf("parse -from: %w", err)
		}
		to, err := time.Parse(dateLayout, toDate)
		if err != nil {
			return fmt.Errorf("parse -to: %w", err)
		}
		batch, err := application.Scraper.ScrapeDateRange(ctx, from, to)
		if err != nil {
			return err
		}
		return writeResults(application, batch)
	default:
		return fmt.Errorf("nothing to do: pass -games, -legacy, -season, or -from/-to")
	}
}

func runLegacy(application *app.App, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read legacy payload: %w", err)
	}
	var payload usecase.LegacyPlayByPlay
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode legacy payload: %w", err)
	}

	table, err := application.Pipeline.ProcessLegacy(payload, nil)
	if err != nil {
		return err
	}
	return writeTable(application, table)
}

func writeResults(application *app.App, run *usecase.ScrapeRun) error {
	var failed int
	for _, result := range run.Results {
		if result.Err != nil {
			failed++
			continue
		}
		if err := writeTable(application, result.Table); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d games failed", failed, len(run.Results))
	}
	return nil
}

func writeTable(application *app.App, table *pbp.Table) error {
	gameIDs := table.GameIDs()
	name := "events"
	if len(gameIDs) == 1 {
		name = gameIDs[0]
	}
	path := filepath.Join(application.Config.OutputDir, name+".csv")
	if err := csvfile.WriteFile(path, table); err != nil {
		return err
	}
	application.Logger.Info("wrote table", "path", path, "rows", len(table.Rows))
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
