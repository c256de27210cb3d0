package usecase

import (
	"github.com/courtlog/nba-pbp/internal/domain/pbp"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
)

// PossessionService fills in which team holds the ball after every live row.
// Hints are computed per row without carrying state, then forward- and
// backward-filled within each (game, period) group.
type PossessionService struct {
	logger *logging.Logger
}

func NewPossessionService(logger *logging.Logger) *PossessionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PossessionService{logger: logger}
}

// Infer mutates the table in place. Period-boundary and timeout rows never
// carry a possession value and are skipped by the fill.
func (s *PossessionService) Infer(table *pbp.Table) {
	if table == nil {
		return
	}
	for i := range table.Rows {
		row := &table.Rows[i]
		if !row.Live() {
			row.PossessionAfter = 0
			continue
		}
		row.PossessionAfter = possessionHint(row)
	}

	type group struct {
		gameID string
		period int
	}
	indexes := make(map[group][]int)
	order := make([]group, 0, 8)
	for i := range table.Rows {
		row := &table.Rows[i]
		if !row.Live() {
			continue
		}
		g := group{gameID: row.GameID, period: row.Period}
		if _, ok := indexes[g]; !ok {
			order = append(order, g)
		}
		indexes[g] = append(indexes[g], i)
	}

	for _, g := range order {
		fillPossession(table.Rows, indexes[g])
	}
}

// possessionHint applies the heuristics in order, first match wins. The raw
// upstream value is whatever the parser left in PossessionAfter.
func possessionHint(row *pbp.Row) int64 {
	raw := row.PossessionAfter
	opponent := opponentOf(row.TeamID, row.HomeTeamID, row.AwayTeamID)
	switch {
	case row.EventType == 5:
		return opponent
	case (row.Family == pbp.FamilyTwoPt || row.Family == pbp.FamilyThreePt) && row.ShotMade == pbp.ShotMadeYes:
		return opponent
	case row.IsDefRebound:
		return row.TeamID
	case row.Family == pbp.FamilyFreeThrow && row.ShotMade == pbp.ShotMadeYes &&
		row.FTOf > 0 && row.FTNum == row.FTOf && raw == 0:
		// Last made free throw of a trip flips possession unless the feed
		// already asserted otherwise (technical free throws retain the ball).
		return opponent
	default:
		return raw
	}
}

// fillPossession forward-fills then backward-fills the possession column over
// the given row indexes, which all belong to one (game, period) group.
func fillPossession(rows []pbp.Row, indexes []int) {
	var last int64
	for _, i := range indexes {
		if rows[i].PossessionAfter != 0 {
			last = rows[i].PossessionAfter
		} else if last != 0 {
			rows[i].PossessionAfter = last
		}
	}
	last = 0
	for k := len(indexes) - 1; k >= 0; k-- {
		i := indexes[k]
		if rows[i].PossessionAfter != 0 {
			last = rows[i].PossessionAfter
		} else if last != 0 {
			rows[i].PossessionAfter = last
		}
	}
}
