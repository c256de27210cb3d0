package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
)

const scheduleDateLayout = "01/02/2006 15:04:05"

// GameResult is the outcome of one game's pipeline run within a batch.
type GameResult struct {
	GameID string
	Table  *pbp.Table
	Err    error
}

// ScrapeRun is a completed batch: every requested game with its table or
// error, tagged with a run id for log correlation.
type ScrapeRun struct {
	RunID   string
	Results []GameResult
}

// ScrapeService fans a set of game ids out over a bounded worker pool, each
// worker running the full pipeline for its game.
type ScrapeService struct {
	pipeline *PipelineService
	workers  int
	logger   *logging.Logger
}

func NewScrapeService(pipeline *PipelineService, workers int, logger *logging.Logger) *ScrapeService {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScrapeService{
		pipeline: pipeline,
		workers:  workers,
		logger:   logger,
	}
}

// ScrapeGames processes the given game ids concurrently. Per-game failures
// are captured in the result set rather than aborting the batch.
func (s *ScrapeService) ScrapeGames(ctx context.Context, gameIDs []string) (*ScrapeRun, error) {
	if len(gameIDs) == 0 {
		return nil, fmt.Errorf("%w: no game ids given", ErrInvalidInput)
	}

	run := &ScrapeRun{
		RunID:   uuid.NewString(),
		Results: make([]GameResult, len(gameIDs)),
	}
	s.logger.InfoContext(ctx, "scrape run starting",
		"run_id", run.RunID,
		"games", len(gameIDs),
		"workers", s.workers,
	)

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("%w: worker pool: %v", ErrConfig, err)
	}
	defer workerPool.Release()

	var wg sync.WaitGroup
	for i, gameID := range gameIDs {
		i, gameID := i, gameID
		wg.Add(1)
		submitErr := workerPool.Submit(func() {
			defer wg.Done()
			table, err := s.pipeline.ProcessGame(ctx, gameID, nil)
			if err != nil {
				s.logger.ErrorContext(ctx, "game pipeline failed",
					"run_id", run.RunID,
					"game_id", gameID,
					"error", err,
				)
			}
			run.Results[i] = GameResult{GameID: gameID, Table: table, Err: err}
		})
		if submitErr != nil {
			wg.Done()
			run.Results[i] = GameResult{GameID: gameID, Err: submitErr}
		}
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "scrape run finished", "run_id", run.RunID)
	return run, nil
}

// ScrapeDateRange resolves game ids from the league schedule for the
// inclusive [from, to] date range, then scrapes them.
func (s *ScrapeService) ScrapeDateRange(ctx context.Context, from, to time.Time) (*ScrapeRun, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date range end precedes start", ErrInvalidInput)
	}
	schedule, err := s.pipeline.fetcher.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	gameIDs := gamesBetween(schedule, from, to)
	if len(gameIDs) == 0 {
		return nil, fmt.Errorf("%w: no games scheduled in range", ErrInvalidInput)
	}
	return s.ScrapeGames(ctx, gameIDs)
}

// ScrapeSeason scrapes one full season identified by its starting year, e.g.
// 2023 for 2023-24. The window runs October 1 through June 30 of the
// following year, covering preseason tail through the finals.
func (s *ScrapeService) ScrapeSeason(ctx context.Context, season int) (*ScrapeRun, error) {
	if season < 1946 {
		return nil, fmt.Errorf("%w: season %d predates the league", ErrInvalidInput, season)
	}
	from := time.Date(season, time.October, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(season+1, time.June, 30, 0, 0, 0, 0, time.UTC)
	return s.ScrapeDateRange(ctx, from, to)
}

func gamesBetween(schedule *CDNSchedule, from, to time.Time) []string {
	fromDay := from.Truncate(24 * time.Hour)
	toDay := to.Truncate(24 * time.Hour)
	var gameIDs []string
	for _, date := range schedule.LeagueSchedule.GameDates {
		day, err := time.Parse(scheduleDateLayout, date.GameDate)
		if err != nil {
			continue
		}
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		for _, game := range date.Games {
			gameIDs = append(gameIDs, game.GameID)
		}
	}
	return gameIDs
}
