package usecase

import (
	"testing"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
)

func TestCoordsBackfill(t *testing.T) {
	missing := pbp.Row{GameID: testGameID, Family: pbp.FamilyTwoPt, ActionNumber: 7}
	present := pbp.Row{
		GameID: testGameID, Family: pbp.FamilyThreePt, ActionNumber: 9,
		X: 12, Y: 34, HasCoords: true,
	}
	rebound := pbp.Row{GameID: testGameID, Family: pbp.FamilyRebound, ActionNumber: 10}

	table := &pbp.Table{Rows: []pbp.Row{missing, present, rebound}}
	chart := &CDNShotChart{Game: CDNShotChartGame{GameID: testGameID, Shots: []CDNShotEntry{
		{ActionNumber: 7, X: 41, Y: 18, ShotDistance: 9.5},
		{ActionNumber: 9, X: 99, Y: 99, ShotDistance: 30},
		{ActionNumber: 10, X: 1, Y: 1},
	}}}

	NewCoordsService(nil).Backfill(table, chart)

	filled := table.Rows[0]
	if !filled.HasCoords || filled.X != 41 || filled.Y != 18 || filled.ShotDistance != 9.5 {
		t.Fatalf("missing coordinates not backfilled: %+v", filled)
	}
	kept := table.Rows[1]
	if kept.X != 12 || kept.Y != 34 {
		t.Fatalf("measured coordinates must not be overwritten: %+v", kept)
	}
	if table.Rows[2].HasCoords {
		t.Fatalf("non-shot rows must be skipped")
	}
}

func TestCoordsBackfillTolerantOfMissingChart(t *testing.T) {
	row := pbp.Row{GameID: testGameID, Family: pbp.FamilyTwoPt, ActionNumber: 7}
	table := &pbp.Table{Rows: []pbp.Row{row}}

	svc := NewCoordsService(nil)
	svc.Backfill(table, nil)
	svc.Backfill(table, &CDNShotChart{})

	if table.Rows[0].HasCoords {
		t.Fatalf("no chart data should leave rows untouched")
	}
}
