package usecase

import (
	"testing"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
)

func statRow(family string, teamID int64) pbp.Row {
	return pbp.Row{
		GameID:     testGameID,
		Family:     family,
		TeamID:     teamID,
		HomeTeamID: testHomeID,
		AwayTeamID: testAwayID,
	}
}

// statTable is one tiny game: a made assisted three and a blocked miss by the
// home side, a stolen turnover answered with a defensive rebound by the away
// side, and a 1-for-2 trip at the line.
func statTable() *pbp.Table {
	made := statRow(pbp.FamilyThreePt, testHomeID)
	made.ShotMade = pbp.ShotMadeYes
	made.PointsMade = 3
	made.AssistID = 2

	blocked := statRow(pbp.FamilyTwoPt, testHomeID)
	blocked.ShotMade = pbp.ShotMadeMissed
	blocked.BlockID = 8

	turnover := statRow(pbp.FamilyTurnover, testHomeID)
	turnover.StealID = 7

	rebound := statRow(pbp.FamilyRebound, testAwayID)
	rebound.IsDefRebound = true

	ftMade := statRow(pbp.FamilyFreeThrow, testAwayID)
	ftMade.ShotMade = pbp.ShotMadeYes
	ftMade.PointsMade = 1

	ftMiss := statRow(pbp.FamilyFreeThrow, testAwayID)
	ftMiss.ShotMade = pbp.ShotMadeMissed

	return &pbp.Table{Rows: []pbp.Row{made, blocked, turnover, rebound, ftMade, ftMiss}}
}

func matchingBox() CDNBoxScore {
	box := testBox()
	box.Game.HomeTeam.Statistics = CDNTeamStatistics{
		Points:                 3,
		FieldGoalsMade:         1,
		FieldGoalsAttempted:    2,
		ThreePointersMade:      1,
		ThreePointersAttempted: 1,
		Assists:                1,
		Turnovers:              1,
	}
	box.Game.AwayTeam.Statistics = CDNTeamStatistics{
		Points:              1,
		FreeThrowsMade:      1,
		FreeThrowsAttempted: 2,
		ReboundsTotal:       1,
		Steals:              1,
		Blocks:              1,
	}
	return box
}

func TestBoxScoreCheck_MatchingTotals(t *testing.T) {
	box := matchingBox()
	got := NewBoxScoreCheckService(nil).Check(statTable(), &box)
	if len(got) != 0 {
		t.Fatalf("expected no mismatches, got %v", got)
	}
}

func TestBoxScoreCheck_ReportsDisagreements(t *testing.T) {
	box := matchingBox()
	box.Game.HomeTeam.Statistics.Points = 5
	box.Game.AwayTeam.Statistics.Steals = 0

	got := NewBoxScoreCheckService(nil).Check(statTable(), &box)
	if len(got) != 2 {
		t.Fatalf("expected two mismatches, got %v", got)
	}

	byStat := make(map[string]TotalsMismatch, len(got))
	for _, m := range got {
		byStat[m.Stat] = m
	}
	points, ok := byStat["points"]
	if !ok || points.TeamID != testHomeID || points.FromPBP != 3 || points.FromBox != 5 {
		t.Fatalf("unexpected points mismatch: %+v", points)
	}
	steals, ok := byStat["steals"]
	if !ok || steals.TeamID != testAwayID || steals.FromPBP != 1 || steals.FromBox != 0 {
		t.Fatalf("unexpected steals mismatch: %+v", steals)
	}
}

func TestBoxScoreCheck_NilInputs(t *testing.T) {
	svc := NewBoxScoreCheckService(nil)
	if got := svc.Check(nil, nil); got != nil {
		t.Fatalf("nil inputs must yield nil, got %v", got)
	}
	box := matchingBox()
	if got := svc.Check(nil, &box); got != nil {
		t.Fatalf("nil table must yield nil, got %v", got)
	}
}
