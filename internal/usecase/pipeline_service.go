package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
	"github.com/courtlog/nba-pbp/internal/platform/cache"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
)

// GameFetcher retrieves raw upstream payloads for one game. Implementations
// own transport concerns (retries, circuit breaking); the pipeline only sees
// decoded payloads or an error.
type GameFetcher interface {
	PlayByPlay(ctx context.Context, gameID string) (*CDNPlayByPlay, error)
	BoxScore(ctx context.Context, gameID string) (*CDNBoxScore, error)
	ShotChart(ctx context.Context, gameID string) (*CDNShotChart, error)
	Schedule(ctx context.Context) (*CDNSchedule, error)
}

// PipelineConfig carries the behavior switches for one pipeline run.
type PipelineConfig struct {
	SyntheticFTText    bool
	CoordinateBackfill bool
}

// PipelineService wires the full normalization chain for one game: fetch,
// parse, possession inference, lineup reconstruction, optional coordinate
// backfill, and a boxscore totals check.
type PipelineService struct {
	fetcher      GameFetcher
	cdnParser    *CDNParserService
	legacyParser *LegacyParserService
	possession   *PossessionService
	lineups      *LineupService
	coords       *CoordsService
	boxCheck     *BoxScoreCheckService
	payloads     *cache.Store
	cfg          PipelineConfig
	logger       *logging.Logger
}

func NewPipelineService(
	fetcher GameFetcher,
	cdnParser *CDNParserService,
	legacyParser *LegacyParserService,
	possession *PossessionService,
	lineups *LineupService,
	coords *CoordsService,
	boxCheck *BoxScoreCheckService,
	payloads *cache.Store,
	cfg PipelineConfig,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		fetcher:      fetcher,
		cdnParser:    cdnParser,
		legacyParser: legacyParser,
		possession:   possession,
		lineups:      lineups,
		coords:       coords,
		boxCheck:     boxCheck,
		payloads:     payloads,
		cfg:          cfg,
		logger:       logger,
	}
}

// gamePayloads bundles the three per-game feeds the pipeline consumes.
type gamePayloads struct {
	pbp   *CDNPlayByPlay
	box   *CDNBoxScore
	chart *CDNShotChart
}

// ProcessGame runs the full pipeline for one game id against the modern feed.
func (s *PipelineService) ProcessGame(ctx context.Context, gameID string, starters *Starters) (*pbp.Table, error) {
	if gameID == "" {
		return nil, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no feed client configured", ErrConfig)
	}

	payloads, err := s.fetch(ctx, gameID)
	if err != nil {
		return nil, err
	}

	table, err := s.cdnParser.Parse(*payloads.pbp, *payloads.box)
	if err != nil {
		return nil, err
	}
	return s.enrich(table, starters, payloads.box, payloads.chart)
}

// ProcessPayloads runs the pipeline over already-fetched modern payloads, for
// callers that source files locally instead of hitting the feed.
func (s *PipelineService) ProcessPayloads(payload CDNPlayByPlay, box CDNBoxScore, chart *CDNShotChart, starters *Starters) (*pbp.Table, error) {
	table, err := s.cdnParser.Parse(payload, box)
	if err != nil {
		return nil, err
	}
	return s.enrich(table, starters, &box, chart)
}

// ProcessLegacy runs the pipeline over an already-fetched legacy payload.
// The legacy feed has no companion boxscore or shot chart, so coordinate
// backfill and the totals check are skipped.
func (s *PipelineService) ProcessLegacy(payload LegacyPlayByPlay, starters *Starters) (*pbp.Table, error) {
	table, err := s.legacyParser.Parse(payload)
	if err != nil {
		return nil, err
	}
	return s.enrich(table, starters, nil, nil)
}

func (s *PipelineService) enrich(table *pbp.Table, starters *Starters, box *CDNBoxScore, chart *CDNShotChart) (*pbp.Table, error) {
	s.possession.Infer(table)
	if _, err := s.lineups.Rebuild(table, starters, box); err != nil {
		return nil, err
	}
	if s.cfg.CoordinateBackfill && chart != nil {
		s.coords.Backfill(table, chart)
	}
	if box != nil {
		for _, m := range s.boxCheck.Check(table, box) {
			s.logger.Warn("boxscore totals mismatch",
				"team_id", m.TeamID,
				"stat", m.Stat,
				"pbp", m.FromPBP,
				"box", m.FromBox,
			)
		}
	}
	return table, nil
}

// fetch loads the three per-game feeds concurrently. The shot chart is only
// requested when coordinate backfill is enabled, and its absence is tolerated
// since it is an optional enrichment.
func (s *PipelineService) fetch(ctx context.Context, gameID string) (*gamePayloads, error) {
	payloads := &gamePayloads{}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		v, err := s.cached(ctx, "pbp:"+gameID, func(ctx context.Context) (any, error) {
			return s.fetcher.PlayByPlay(ctx, gameID)
		})
		if err != nil {
			return err
		}
		payloads.pbp = v.(*CDNPlayByPlay)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		v, err := s.cached(ctx, "box:"+gameID, func(ctx context.Context) (any, error) {
			return s.fetcher.BoxScore(ctx, gameID)
		})
		if err != nil {
			return err
		}
		payloads.box = v.(*CDNBoxScore)
		return nil
	})
	if s.cfg.CoordinateBackfill {
		p.Go(func(ctx context.Context) error {
			v, err := s.cached(ctx, "chart:"+gameID, func(ctx context.Context) (any, error) {
				return s.fetcher.ShotChart(ctx, gameID)
			})
			if err != nil {
				s.logger.WarnContext(ctx, "shot chart unavailable", "game_id", gameID, "error", err)
				return nil
			}
			payloads.chart = v.(*CDNShotChart)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return payloads, nil
}

func (s *PipelineService) cached(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if s.payloads == nil {
		return loader(ctx)
	}
	return s.payloads.GetOrLoad(ctx, key, loader)
}
