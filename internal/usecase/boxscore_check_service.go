package usecase

import (
	"fmt"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
)

// TotalsMismatch reports one disagreement between play-by-play derived team
// totals and the official boxscore.
type TotalsMismatch struct {
	TeamID  int64
	Stat    string
	FromPBP int
	FromBox int
}

func (m TotalsMismatch) String() string {
	return fmt.Sprintf("team %d %s: pbp=%d box=%d", m.TeamID, m.Stat, m.FromPBP, m.FromBox)
}

// teamTotals accumulates the stats the boxscore check compares.
type teamTotals struct {
	points int
	fgm    int
	fga    int
	tpm    int
	tpa    int
	ftm    int
	fta    int
	reb    int
	ast    int
	stl    int
	blk    int
	tov    int
}

// BoxScoreCheckService recomputes team totals from the canonical table and
// compares them against the official boxscore. Mismatches are returned, not
// treated as errors, so callers can decide whether to reject the game.
type BoxScoreCheckService struct {
	logger *logging.Logger
}

func NewBoxScoreCheckService(logger *logging.Logger) *BoxScoreCheckService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BoxScoreCheckService{logger: logger}
}

func (s *BoxScoreCheckService) Check(table *pbp.Table, box *CDNBoxScore) []TotalsMismatch {
	if table == nil || box == nil {
		return nil
	}
	totals := map[int64]*teamTotals{
		box.Game.HomeTeam.TeamID: {},
		box.Game.AwayTeam.TeamID: {},
	}
	for i := range table.Rows {
		accumulate(totals, &table.Rows[i])
	}

	var mismatches []TotalsMismatch
	for _, team := range []CDNBoxTeam{box.Game.HomeTeam, box.Game.AwayTeam} {
		got := totals[team.TeamID]
		if got == nil {
			continue
		}
		stats := team.Statistics
		checks := []struct {
			stat string
			pbp  int
			box  int
		}{
			{"points", got.points, stats.Points},
			{"field_goals_made", got.fgm, stats.FieldGoalsMade},
			{"field_goals_attempted", got.fga, stats.FieldGoalsAttempted},
			{"three_pointers_made", got.tpm, stats.ThreePointersMade},
			{"three_pointers_attempted", got.tpa, stats.ThreePointersAttempted},
			{"free_throws_made", got.ftm, stats.FreeThrowsMade},
			{"free_throws_attempted", got.fta, stats.FreeThrowsAttempted},
			{"rebounds", got.reb, stats.ReboundsTotal},
			{"assists", got.ast, stats.Assists},
			{"steals", got.stl, stats.Steals},
			{"blocks", got.blk, stats.Blocks},
			{"turnovers", got.tov, stats.Turnovers},
		}
		for _, c := range checks {
			if c.pbp != c.box {
				mismatches = append(mismatches, TotalsMismatch{
					TeamID:  team.TeamID,
					Stat:    c.stat,
					FromPBP: c.pbp,
					FromBox: c.box,
				})
			}
		}
	}
	return mismatches
}

func accumulate(totals map[int64]*teamTotals, row *pbp.Row) {
	t := totals[row.TeamID]
	if t == nil {
		return
	}
	switch row.Family {
	case pbp.FamilyTwoPt, pbp.FamilyThreePt:
		t.fga++
		if row.Family == pbp.FamilyThreePt {
			t.tpa++
		}
		if row.ShotMade == pbp.ShotMadeYes {
			t.fgm++
			t.points += row.PointsMade
			if row.Family == pbp.FamilyThreePt {
				t.tpm++
			}
			if row.AssistID != 0 {
				t.ast++
			}
		} else if row.BlockID != 0 {
			opp := totals[opponentOf(row.TeamID, row.HomeTeamID, row.AwayTeamID)]
			if opp != nil {
				opp.blk++
			}
		}
	case pbp.FamilyFreeThrow:
		t.fta++
		if row.ShotMade == pbp.ShotMadeYes {
			t.ftm++
			t.points++
		}
	case pbp.FamilyRebound:
		if row.IsOffRebound || row.IsDefRebound || row.IsTeamRebound {
			t.reb++
		}
	case pbp.FamilyTurnover:
		t.tov++
		if row.StealID != 0 {
			opp := totals[opponentOf(row.TeamID, row.HomeTeamID, row.AwayTeamID)]
			if opp != nil {
				opp.stl++
			}
		}
	}
}
