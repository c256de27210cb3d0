package usecase

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/courtlog/nba-pbp/internal/domain/lineup"
	"github.com/courtlog/nba-pbp/internal/domain/pbp"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
)

// LineupService rebuilds the ten on-court player columns for every row by
// replaying substitutions and participant observations in event order.
type LineupService struct {
	validate *validator.Validate
	logger   *logging.Logger
}

func NewLineupService(logger *logging.Logger) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LineupService{
		validate: validator.New(),
		logger:   logger,
	}
}

// Rebuild mutates the table in place and returns any lineup anomalies the
// tracker hit, grouped across all games in the table. Starters and boxscore
// are both optional seeds: explicit starters win, then boxscore starter
// flags, then implicit seeding from observed participants.
func (s *LineupService) Rebuild(table *pbp.Table, starters *Starters, box *CDNBoxScore) ([]lineup.Anomaly, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, nil
	}
	if starters != nil {
		if err := s.validate.Struct(starters); err != nil {
			return nil, fmt.Errorf("%w: starters must list exactly five players per side: %v", ErrInvalidInput, err)
		}
	}

	var anomalies []lineup.Anomaly
	for _, gameID := range table.GameIDs() {
		got, err := s.rebuildGame(table, gameID, starters, box)
		if err != nil {
			return nil, err
		}
		anomalies = append(anomalies, got...)
	}

	s.resolveNames(table, box)
	return anomalies, nil
}

func (s *LineupService) rebuildGame(table *pbp.Table, gameID string, starters *Starters, box *CDNBoxScore) ([]lineup.Anomaly, error) {
	indexes := make([]int, 0, len(table.Rows))
	for i := range table.Rows {
		if table.Rows[i].GameID == gameID {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		return nil, nil
	}

	first := table.Rows[indexes[0]]
	tracker := lineup.NewTracker(first.HomeTeamID, first.AwayTeamID)
	s.seed(tracker, first.HomeTeamID, first.AwayTeamID, starters, box)

	for _, i := range indexes {
		row := &table.Rows[i]
		switch {
		case row.Family == pbp.FamilySubstitution:
			// Substitution participants are witnesses too: the "out" leg
			// proves its player was on the floor before the swap.
			teamID := substitutionTeam(tracker, row)
			tracker.Observe(teamID, row.Player1ID)
			s.applySubstitution(tracker, teamID, row)
		case row.Live():
			tracker.Observe(row.TeamID, row.Player1ID)
		}
		row.HomeLineupIDs, row.AwayLineupIDs = tracker.Snapshot()
	}

	fillLineups(table.Rows, indexes)

	anomalies := tracker.Anomalies()
	for _, a := range anomalies {
		s.logger.Warn("lineup anomaly",
			"game_id", gameID,
			"team_id", a.TeamID,
			"player_in", a.PlayerIn,
			"player_out", a.PlayerOut,
			"reason", a.Reason,
		)
	}
	return anomalies, nil
}

func (s *LineupService) seed(tracker *lineup.Tracker, homeID, awayID int64, starters *Starters, box *CDNBoxScore) {
	if starters != nil && len(starters.Home) == 5 && len(starters.Away) == 5 {
		tracker.Seed(homeID, starters.Home)
		tracker.Seed(awayID, starters.Away)
		return
	}
	if box == nil {
		return
	}
	tracker.Seed(box.Game.HomeTeam.TeamID, boxStarters(box.Game.HomeTeam))
	tracker.Seed(box.Game.AwayTeam.TeamID, boxStarters(box.Game.AwayTeam))
}

func boxStarters(team CDNBoxTeam) []int64 {
	ids := make([]int64, 0, 5)
	for _, p := range team.Players {
		if p.Starter == "1" {
			ids = append(ids, p.PersonID)
		}
	}
	return ids
}

func substitutionTeam(tracker *lineup.Tracker, row *pbp.Row) int64 {
	if row.TeamID != 0 {
		return row.TeamID
	}
	if row.Player1TeamID != 0 {
		return row.Player1TeamID
	}
	return tracker.ResolveTeam(row.Player1ID)
}

// applySubstitution dispatches the two encodings: split rows carry one player
// and an "in"/"out" subfamily, combined rows carry both players at once.
func (s *LineupService) applySubstitution(tracker *lineup.Tracker, teamID int64, row *pbp.Row) {
	switch strings.ToLower(row.Subfamily) {
	case "out":
		tracker.QueueOut(teamID, row.Player1ID)
	case "in":
		tracker.CompleteIn(teamID, row.Player1ID)
	default:
		if row.Player2ID != 0 {
			tracker.Substitute(teamID, row.Player1ID, row.Player2ID)
		}
	}
}

// fillLineups forward-fills then backward-fills each of the ten lineup slot
// columns independently within one game, so rows preceding the first sighting
// of a player still carry that player once a later row pins them to a slot.
func fillLineups(rows []pbp.Row, indexes []int) {
	fillSlots(rows, indexes, func(r *pbp.Row) *[5]int64 { return &r.HomeLineupIDs })
	fillSlots(rows, indexes, func(r *pbp.Row) *[5]int64 { return &r.AwayLineupIDs })
}

func fillSlots(rows []pbp.Row, indexes []int, slotsOf func(*pbp.Row) *[5]int64) {
	var last [5]int64
	for _, i := range indexes {
		slots := slotsOf(&rows[i])
		for k := 0; k < 5; k++ {
			if slots[k] != 0 {
				last[k] = slots[k]
			} else {
				slots[k] = last[k]
			}
		}
	}
	// Only leading zeroes survive the forward pass.
	last = [5]int64{}
	for j := len(indexes) - 1; j >= 0; j-- {
		slots := slotsOf(&rows[indexes[j]])
		for k := 0; k < 5; k++ {
			if slots[k] != 0 {
				last[k] = slots[k]
			} else {
				slots[k] = last[k]
			}
		}
	}
}

// resolveNames fills the lineup name columns from a name map built from the
// rows' own participant names first, then the boxscore roster. First write
// wins per player id.
func (s *LineupService) resolveNames(table *pbp.Table, box *CDNBoxScore) {
	names := make(map[int64]string, 32)
	put := func(id int64, name string) {
		if id == 0 || name == "" {
			return
		}
		if _, ok := names[id]; !ok {
			names[id] = name
		}
	}
	for i := range table.Rows {
		row := &table.Rows[i]
		put(row.Player1ID, row.Player1Name)
		put(row.Player2ID, row.Player2Name)
		put(row.Player3ID, row.Player3Name)
	}
	if box != nil {
		for _, team := range []CDNBoxTeam{box.Game.HomeTeam, box.Game.AwayTeam} {
			for _, p := range team.Players {
				name := p.Name
				if name == "" && (p.FirstName != "" || p.FamilyName != "") {
					name = strings.TrimSpace(p.FirstName + " " + p.FamilyName)
				}
				put(p.PersonID, name)
			}
		}
	}

	for i := range table.Rows {
		row := &table.Rows[i]
		for slot := 0; slot < 5; slot++ {
			row.HomeLineupNames[slot] = names[row.HomeLineupIDs[slot]]
			row.AwayLineupNames[slot] = names[row.AwayLineupIDs[slot]]
		}
	}
}
