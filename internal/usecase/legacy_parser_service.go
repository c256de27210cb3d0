package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/courtlog/nba-pbp/internal/domain/event"
	"github.com/courtlog/nba-pbp/internal/domain/pbp"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
)

var ftTripRe = regexp.MustCompile(`(?i)free throw (\d+) of (\d+)`)

// legacyFamilies maps legacy event-type codes onto families. Codes 1 and 2
// (made/missed shot) are resolved separately because the 2pt/3pt split needs
// the description text.
var legacyFamilies = map[int]string{
	3:  pbp.FamilyFreeThrow,
	4:  pbp.FamilyRebound,
	5:  pbp.FamilyTurnover,
	6:  pbp.FamilyFoul,
	7:  pbp.FamilyViolation,
	8:  pbp.FamilySubstitution,
	9:  pbp.FamilyTimeout,
	10: pbp.FamilyJumpBall,
	12: pbp.FamilyPeriod,
	13: pbp.FamilyPeriod,
	15: pbp.FamilyGame,
}

// LegacyParserService converts legacy tabular result-set payloads into
// canonical rows. Team identity is inferred from participant columns because
// the legacy feed carries no game-level team metadata.
type LegacyParserService struct {
	overrides event.OverrideTable
	cfg       ParserConfig
	logger    *logging.Logger
}

func NewLegacyParserService(overrides event.OverrideTable, cfg ParserConfig, logger *logging.Logger) *LegacyParserService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LegacyParserService{
		overrides: overrides,
		cfg:       cfg,
		logger:    logger,
	}
}

// legacyRecord wraps one result-set row with case-insensitive column access.
type legacyRecord struct {
	columns map[string]int
	cells   []any
}

func (r legacyRecord) any(column string) any {
	idx, ok := r.columns[column]
	if !ok || idx >= len(r.cells) {
		return nil
	}
	return r.cells[idx]
}

func (r legacyRecord) str(column string) string    { return pbp.StringOrEmpty(r.any(column)) }
func (r legacyRecord) id(column string) int64      { return pbp.Int64OrZero(r.any(column)) }
func (r legacyRecord) intval(column string) int    { return pbp.IntOrZero(r.any(column)) }
func (r legacyRecord) float(column string) float64 { return pbp.FloatOrZero(r.any(column)) }

// Parse builds the canonical table from a legacy result-set payload.
func (s *LegacyParserService) Parse(payload LegacyPlayByPlay) (*pbp.Table, error) {
	if len(payload.ResultSets) == 0 || len(payload.ResultSets[0].Headers) == 0 {
		return nil, fmt.Errorf("%w: legacy payload missing result set", ErrMalformedPayload)
	}

	rs := payload.ResultSets[0]
	columns := make(map[string]int, len(rs.Headers))
	for i, header := range rs.Headers {
		columns[strings.ToLower(header)] = i
	}

	records := make([]legacyRecord, 0, len(rs.RowSet))
	for _, cells := range rs.RowSet {
		records = append(records, legacyRecord{columns: columns, cells: cells})
	}

	homeID, homeTri, awayID, awayTri := inferLegacyTeams(records)

	rows := make([]pbp.Row, 0, len(records))
	scoreHome, scoreAway := 0, 0
	var lastMissTeam int64
	for _, rec := range records {
		typeCode := rec.intval("eventmsgtype")
		homeDesc := rec.str("homedescription")
		visitorDesc := rec.str("visitordescription")
		combinedDesc := strings.ToUpper(homeDesc + " " + visitorDesc)

		family := legacyFamily(typeCode, combinedDesc)
		shotMade := legacyShotMade(typeCode, combinedDesc)
		clockRemaining := rec.str("pctimestring")
		if clockRemaining == "" {
			clockRemaining = "12:00"
		}
		period := rec.intval("period")

		description := homeDesc
		if description == "" {
			description = visitorDesc
		}
		descriptorCore, styles := event.NormalizeDescriptor(description)

		subfamily := legacySubfamily(rec, family, descriptorCore)
		actionCode := rec.intval("eventmsgactiontype")
		if actionCode == 0 {
			actionCode = event.ActionTypeCode(family, subfamily)
		}

		if ov, ok := s.overrides.Lookup(event.NewSignatureKey(family, subfamily, descriptorCore, nil)); ok {
			if ov.Subfamily != "" {
				subfamily = ov.Subfamily
			}
			if ov.ActionCode != 0 {
				actionCode = ov.ActionCode
			}
			if ov.TypeCode != 0 && family != pbp.FamilyTwoPt && family != pbp.FamilyThreePt {
				typeCode = ov.TypeCode
			}
		}

		ftN, ftM := 0, 0
		if family == pbp.FamilyFreeThrow {
			if m := ftTripRe.FindStringSubmatch(homeDesc + " " + visitorDesc); m != nil {
				ftN = pbp.IntOrZero(m[1])
				ftM = pbp.IntOrZero(m[2])
			}
		}

		if h, a, ok := legacyScore(rec); ok {
			scoreHome, scoreAway = h, a
		}

		gameID := rec.str("game_id")
		eventNum := rec.intval("eventnum")
		rowTeam := legacyRowTeam(rec)
		row := pbp.Row{
			GameID:             gameID,
			Period:             period,
			ClockRemaining:     clockRemaining,
			SecondsElapsed:     pbp.SecondsElapsed(period, clockRemaining),
			ActionNumber:       eventNum,
			OrderNumber:        eventNum,
			EventNum:           eventNum,
			TimeActual:         rec.str("wctimestring"),
			TeamID:             rowTeam,
			TeamTricode:        legacyRowTricode(rec),
			Player1ID:          rec.id("player1_id"),
			Player1Name:        rec.str("player1_name"),
			Player1TeamID:      rec.id("player1_team_id"),
			Player2ID:          rec.id("player2_id"),
			Player2Name:        rec.str("player2_name"),
			Player2TeamID:      rec.id("player2_team_id"),
			Player3ID:          rec.id("player3_id"),
			Player3Name:        rec.str("player3_name"),
			Player3TeamID:      rec.id("player3_team_id"),
			HomeTeamID:         homeID,
			HomeTeamAbbrev:     homeTri,
			AwayTeamID:         awayID,
			AwayTeamAbbrev:     awayTri,
			HomeDescription:    homeDesc,
			VisitorDescription: visitorDesc,
			GameDate:           rec.str("game_date"),
			Season:             seasonFromGameID(gameID),
			Family:             family,
			Subfamily:          subfamily,
			EventType:          typeCode,
			EventActionType:    actionCode,
			EventTypeName:      event.TypeName(typeCode),
			IsThree:            family == pbp.FamilyThreePt,
			ShotMade:           shotMade,
			PointsMade:         pbp.PointsMadeFor(family, shotMade),
			StyleFlags:         styles,
			IsOffRebound:       family == pbp.FamilyRebound && lastMissTeam != 0 && rowTeam == lastMissTeam,
			IsDefRebound:       family == pbp.FamilyRebound && lastMissTeam != 0 && rowTeam != 0 && rowTeam != lastMissTeam,
			IsTeamRebound:      family == pbp.FamilyRebound && rec.id("player1_id") == 0,
			ScoreHome:          scoreHome,
			ScoreAway:          scoreAway,
			ScoreMargin:        pbp.ScoreMarginString(scoreHome, scoreAway),
			FTNum:              ftN,
			FTOf:               ftM,
		}

		if x, y := rec.float("loc_x"), rec.float("loc_y"); (x != 0 || y != 0) && row.IsShot() {
			row.X, row.Y = x, y
			row.ShotDistance = rec.float("shot_distance")
			row.HasCoords = true
		}

		// Event team from description sidedness, then the usual fill.
		switch {
		case homeDesc != "" && visitorDesc == "":
			row.EventTeam = homeTri
		case visitorDesc != "" && homeDesc == "":
			row.EventTeam = awayTri
		}
		fillTeamFields(&row)
		s.resolveLegacyLinkedActors(&row)
		recomputeFlags(&row)

		if row.ShotMade == pbp.ShotMadeMissed {
			lastMissTeam = row.TeamID
		}
		rows = append(rows, row)
	}

	finalizeRows(rows, sortBySecondsElapsed)
	return &pbp.Table{Rows: rows}, nil
}

// resolveLegacyLinkedActors mirrors the modern parser's participant backfill
// using the legacy feed's second/third participant columns, which already
// carry the assister, stealer or blocker.
func (s *LegacyParserService) resolveLegacyLinkedActors(row *pbp.Row) {
	opponent := opponentOf(row.TeamID, row.HomeTeamID, row.AwayTeamID)
	switch {
	case row.ShotMade == pbp.ShotMadeYes && row.Player2ID != 0:
		row.AssistID = row.Player2ID
		if row.Player2TeamID == 0 {
			row.Player2TeamID = row.TeamID
		}
	case row.Family == pbp.FamilyTurnover && row.Player2ID != 0:
		row.StealID = row.Player2ID
		if row.Player2TeamID == 0 {
			row.Player2TeamID = opponent
		}
	case row.ShotMade == pbp.ShotMadeMissed && row.Player3ID != 0:
		row.BlockID = row.Player3ID
		if row.Player3TeamID == 0 {
			row.Player3TeamID = opponent
		}
	}
}

// inferLegacyTeams scans participant columns in priority order and takes the
// first two distinct (team id, abbreviation) pairs: first seen is the away
// side, second is home.
func inferLegacyTeams(records []legacyRecord) (homeID int64, homeTri string, awayID int64, awayTri string) {
	type pair struct {
		id  int64
		tri string
	}
	var seen []pair
	columns := [][2]string{
		{"player1_team_id", "player1_team_abbreviation"},
		{"player2_team_id", "player2_team_abbreviation"},
		{"player3_team_id", "player3_team_abbreviation"},
		{"team_id", "team_abbreviation"},
	}
	for _, cols := range columns {
		for _, rec := range records {
			id := rec.id(cols[0])
			tri := rec.str(cols[1])
			if id == 0 || tri == "" {
				continue
			}
			duplicate := false
			for _, p := range seen {
				if p.id == id {
					duplicate = true
					break
				}
			}
			if !duplicate {
				seen = append(seen, pair{id: id, tri: tri})
			}
			if len(seen) >= 2 {
				break
			}
		}
		if len(seen) >= 2 {
			break
		}
	}
	if len(seen) > 0 {
		awayID, awayTri = seen[0].id, seen[0].tri
	}
	if len(seen) > 1 {
		homeID, homeTri = seen[1].id, seen[1].tri
	}
	return homeID, homeTri, awayID, awayTri
}

func legacyFamily(typeCode int, combinedUpperDesc string) string {
	if typeCode == 1 || typeCode == 2 {
		if strings.Contains(combinedUpperDesc, "3PT") {
			return pbp.FamilyThreePt
		}
		return pbp.FamilyTwoPt
	}
	return legacyFamilies[typeCode]
}

func legacyShotMade(typeCode int, combinedUpperDesc string) int {
	switch typeCode {
	case 1:
		return pbp.ShotMadeYes
	case 2:
		return pbp.ShotMadeMissed
	case 3:
		if strings.Contains(combinedUpperDesc, "MISS") {
			return pbp.ShotMadeMissed
		}
		if strings.TrimSpace(combinedUpperDesc) != "" {
			return pbp.ShotMadeYes
		}
	}
	return pbp.ShotMadeNA
}

// legacySubfamily prefers normalized description text for the families whose
// vocabulary the codebook closes over, falling back to the numeric action
// code the feed supplied.
func legacySubfamily(rec legacyRecord, family, descriptorCore string) string {
	switch family {
	case pbp.FamilyTurnover, pbp.FamilyFoul, pbp.FamilyViolation:
		if descriptorCore != "" {
			return descriptorCore
		}
	}
	if code := rec.intval("eventmsgactiontype"); code != 0 {
		return pbp.StringOrEmpty(code)
	}
	return descriptorCore
}

func legacyRowTeam(rec legacyRecord) int64 {
	for _, column := range []string{"team_id", "player1_team_id", "player2_team_id", "player3_team_id"} {
		if id := rec.id(column); id != 0 {
			return id
		}
	}
	return 0
}

func legacyRowTricode(rec legacyRecord) string {
	for _, column := range []string{"team_abbreviation", "player1_team_abbreviation", "player2_team_abbreviation", "player3_team_abbreviation"} {
		if tri := rec.str(column); tri != "" {
			return tri
		}
	}
	return ""
}

// legacyScore reads the running score, accepting either split columns or the
// combined "AWAY - HOME" text column.
func legacyScore(rec legacyRecord) (home, away int, ok bool) {
	if _, hasSplit := rec.columns["score_home"]; hasSplit {
		if rec.any("score_home") == nil {
			return 0, 0, false
		}
		return rec.intval("score_home"), rec.intval("score_away"), true
	}
	scoreText := rec.str("score")
	if scoreText == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(scoreText, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	away = pbp.IntOrZero(strings.TrimSpace(parts[0]))
	home = pbp.IntOrZero(strings.TrimSpace(parts[1]))
	return home, away, true
}
