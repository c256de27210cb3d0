package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/courtlog/nba-pbp/internal/platform/cache"
)

// stubFetcher serves in-memory payloads and counts upstream calls.
type stubFetcher struct {
	pbp      CDNPlayByPlay
	box      CDNBoxScore
	chart    *CDNShotChart
	schedule *CDNSchedule

	pbpCalls   atomic.Int64
	boxCalls   atomic.Int64
	chartCalls atomic.Int64

	chartErr error
}

func (f *stubFetcher) PlayByPlay(_ context.Context, _ string) (*CDNPlayByPlay, error) {
	f.pbpCalls.Add(1)
	payload := f.pbp
	return &payload, nil
}

func (f *stubFetcher) BoxScore(_ context.Context, _ string) (*CDNBoxScore, error) {
	f.boxCalls.Add(1)
	payload := f.box
	return &payload, nil
}

func (f *stubFetcher) ShotChart(_ context.Context, _ string) (*CDNShotChart, error) {
	f.chartCalls.Add(1)
	if f.chartErr != nil {
		return nil, f.chartErr
	}
	return f.chart, nil
}

func (f *stubFetcher) Schedule(_ context.Context) (*CDNSchedule, error) {
	if f.schedule != nil {
		return f.schedule, nil
	}
	return &CDNSchedule{}, nil
}

func newTestPipeline(fetcher GameFetcher, payloads *cache.Store, cfg PipelineConfig) *PipelineService {
	parserCfg := ParserConfig{SyntheticFTText: cfg.SyntheticFTText}
	return NewPipelineService(
		fetcher,
		NewCDNParserService(nil, parserCfg, nil),
		NewLegacyParserService(nil, parserCfg, nil),
		NewPossessionService(nil),
		NewLineupService(nil),
		NewCoordsService(nil),
		NewBoxScoreCheckService(nil),
		payloads,
		cfg,
		nil,
	)
}

func stubGame() (CDNPlayByPlay, CDNBoxScore) {
	payload := payloadWith(
		CDNAction{ActionNumber: 1, OrderNumber: 10, Period: 1, Clock: "PT10M00.00S",
			ActionType: "2pt", SubType: "Layup", ShotResult: "Missed", PersonID: 1, TeamID: testHomeID},
		CDNAction{ActionNumber: 2, OrderNumber: 20, Period: 1, Clock: "PT09M58.00S",
			ActionType: "rebound", SubType: "defensive", PersonID: 6, TeamID: testAwayID},
	)
	return payload, testBox()
}

func TestProcessGame_EndToEnd(t *testing.T) {
	payload, box := stubGame()
	fetcher := &stubFetcher{pbp: payload, box: box}

	pipeline := newTestPipeline(fetcher, nil, PipelineConfig{})
	table, err := pipeline.ProcessGame(context.Background(), testGameID, nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(table.Rows))
	}

	rebound := table.Rows[1]
	if rebound.PossessionAfter != testAwayID {
		t.Fatalf("possession not inferred: %d", rebound.PossessionAfter)
	}
	if rebound.HomeLineupIDs == [5]int64{} {
		t.Fatalf("lineups not rebuilt from boxscore starters")
	}
	if fetcher.chartCalls.Load() != 0 {
		t.Fatalf("shot chart must not be fetched when backfill is off")
	}
}

func TestProcessGame_ValidatesInput(t *testing.T) {
	pipeline := newTestPipeline(&stubFetcher{}, nil, PipelineConfig{})
	if _, err := pipeline.ProcessGame(context.Background(), "", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	unwired := newTestPipeline(nil, nil, PipelineConfig{})
	if _, err := unwired.ProcessGame(context.Background(), testGameID, nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestProcessGame_ToleratesShotChartFailure(t *testing.T) {
	payload, box := stubGame()
	fetcher := &stubFetcher{pbp: payload, box: box, chartErr: errors.New("upstream 500")}

	pipeline := newTestPipeline(fetcher, nil, PipelineConfig{CoordinateBackfill: true})
	table, err := pipeline.ProcessGame(context.Background(), testGameID, nil)
	if err != nil {
		t.Fatalf("chart failure must not fail the game: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(table.Rows))
	}
	if fetcher.chartCalls.Load() != 1 {
		t.Fatalf("chart fetch attempts: %d", fetcher.chartCalls.Load())
	}
}

func TestProcessGame_CacheAvoidsRefetch(t *testing.T) {
	payload, box := stubGame()
	fetcher := &stubFetcher{pbp: payload, box: box}

	pipeline := newTestPipeline(fetcher, cache.NewStore(time.Minute), PipelineConfig{})
	for i := 0; i < 3; i++ {
		if _, err := pipeline.ProcessGame(context.Background(), testGameID, nil); err != nil {
			t.Fatalf("process %d: %v", i, err)
		}
	}

	if got := fetcher.pbpCalls.Load(); got != 1 {
		t.Fatalf("play-by-play fetched %d times", got)
	}
	if got := fetcher.boxCalls.Load(); got != 1 {
		t.Fatalf("boxscore fetched %d times", got)
	}
}

func TestProcessPayloads(t *testing.T) {
	payload, box := stubGame()
	pipeline := newTestPipeline(&stubFetcher{}, nil, PipelineConfig{CoordinateBackfill: true})

	chart := &CDNShotChart{Game: CDNShotChartGame{GameID: testGameID, Shots: []CDNShotEntry{
		{ActionNumber: 1, X: 40, Y: 20, ShotDistance: 5},
	}}}
	table, err := pipeline.ProcessPayloads(payload, box, chart, nil)
	if err != nil {
		t.Fatalf("process payloads: %v", err)
	}

	shot := table.Rows[0]
	if !shot.HasCoords || shot.X != 40 || shot.Y != 20 {
		t.Fatalf("chart not merged: %+v", shot)
	}
	if table.Rows[1].PossessionAfter != testAwayID {
		t.Fatalf("possession not inferred: %d", table.Rows[1].PossessionAfter)
	}
}

func TestProcessLegacy(t *testing.T) {
	pipeline := newTestPipeline(&stubFetcher{}, nil, PipelineConfig{})
	table, err := pipeline.ProcessLegacy(legacyPayload(legacyRow(t, map[string]any{
		"GAME_ID": testGameID, "EVENTNUM": 1, "EVENTMSGTYPE": 1, "PERIOD": 1,
		"PCTIMESTRING": "10:00", "HOMEDESCRIPTION": "Curry Layup (2 PTS)",
		"PLAYER1_ID": 201939, "PLAYER1_TEAM_ID": 1610612744, "PLAYER1_TEAM_ABBREVIATION": "GSW",
	})), nil)
	if err != nil {
		t.Fatalf("process legacy: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0].PointsMade != 2 {
		t.Fatalf("unexpected table: %+v", table.Rows)
	}
}
