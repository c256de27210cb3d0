package pbp

import (
	"strconv"
	"strings"
)

// Columns is the canonical column order. Both source parsers emit rows that
// render to exactly this set, which is the compatibility contract for every
// downstream consumer of the table.
var Columns = []string{
	"game_id",
	"period",
	"pctimestring",
	"seconds_elapsed",
	"event_length",
	"action_number",
	"order_number",
	"eventnum",
	"time_actual",
	"team_id",
	"team_tricode",
	"event_team",
	"player1_id",
	"player1_name",
	"player1_team_id",
	"player2_id",
	"player2_name",
	"player2_team_id",
	"player3_id",
	"player3_name",
	"player3_team_id",
	"home_team_id",
	"home_team_abbrev",
	"away_team_id",
	"away_team_abbrev",
	"homedescription",
	"visitordescription",
	"game_date",
	"season",
	"family",
	"subfamily",
	"eventmsgtype",
	"eventmsgactiontype",
	"event_type_de",
	"is_three",
	"shot_made",
	"points_made",
	"shot_distance",
	"x",
	"y",
	"side",
	"area",
	"area_detail",
	"assist_id",
	"block_id",
	"steal_id",
	"style_flags",
	"qualifiers",
	"is_o_rebound",
	"is_d_rebound",
	"team_rebound",
	"linked_shot_action_number",
	"possession_after",
	"score_home",
	"score_away",
	"scoremargin",
	"is_turnover",
	"is_steal",
	"is_block",
	"ft_n",
	"ft_m",
	"home_player_1_id",
	"home_player_1",
	"home_player_2_id",
	"home_player_2",
	"home_player_3_id",
	"home_player_3",
	"home_player_4_id",
	"home_player_4",
	"home_player_5_id",
	"home_player_5",
	"away_player_1_id",
	"away_player_1",
	"away_player_2_id",
	"away_player_2",
	"away_player_3_id",
	"away_player_3",
	"away_player_4_id",
	"away_player_4",
	"away_player_5_id",
	"away_player_5",
}

func boolCell(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

func idCell(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func floatCell(value float64, present bool) string {
	if !present {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func listCell(values []string) string {
	return strings.Join(values, "|")
}

// Record renders the row as one flat record aligned with Columns.
func (r Row) Record() []string {
	shotMade := ""
	if r.ShotMade != ShotMadeNA {
		shotMade = strconv.Itoa(r.ShotMade)
	}
	ftN, ftM := "", ""
	if r.FTOf > 0 {
		ftN = strconv.Itoa(r.FTNum)
		ftM = strconv.Itoa(r.FTOf)
	}
	linked := ""
	if r.LinkedShotAction > 0 {
		linked = strconv.Itoa(r.LinkedShotAction)
	}

	record := []string{
		r.GameID,
		strconv.Itoa(r.Period),
		r.ClockRemaining,
		strconv.Itoa(r.SecondsElapsed),
		strconv.Itoa(r.EventLength),
		strconv.Itoa(r.ActionNumber),
		strconv.Itoa(r.OrderNumber),
		strconv.Itoa(r.EventNum),
		r.TimeActual,
		idCell(r.TeamID),
		r.TeamTricode,
		r.EventTeam,
		idCell(r.Player1ID),
		r.Player1Name,
		idCell(r.Player1TeamID),
		idCell(r.Player2ID),
		r.Player2Name,
		idCell(r.Player2TeamID),
		idCell(r.Player3ID),
		r.Player3Name,
		idCell(r.Player3TeamID),
		idCell(r.HomeTeamID),
		r.HomeTeamAbbrev,
		idCell(r.AwayTeamID),
		r.AwayTeamAbbrev,
		r.HomeDescription,
		r.VisitorDescription,
		r.GameDate,
		strconv.Itoa(r.Season),
		r.Family,
		r.Subfamily,
		strconv.Itoa(r.EventType),
		strconv.Itoa(r.EventActionType),
		r.EventTypeName,
		boolCell(r.IsThree),
		shotMade,
		strconv.Itoa(r.PointsMade),
		floatCell(r.ShotDistance, r.HasCoords),
		floatCell(r.X, r.HasCoords),
		floatCell(r.Y, r.HasCoords),
		r.Side,
		r.Area,
		r.AreaDetail,
		idCell(r.AssistID),
		idCell(r.BlockID),
		idCell(r.StealID),
		listCell(r.StyleFlags),
		listCell(r.Qualifiers),
		boolCell(r.IsOffRebound),
		boolCell(r.IsDefRebound),
		boolCell(r.IsTeamRebound),
		linked,
		idCell(r.PossessionAfter),
		strconv.Itoa(r.ScoreHome),
		strconv.Itoa(r.ScoreAway),
		r.ScoreMargin,
		boolCell(r.IsTurnover),
		boolCell(r.IsSteal),
		boolCell(r.IsBlock),
		ftN,
		ftM,
	}
	for i := 0; i < 5; i++ {
		record = append(record, idCell(r.HomeLineupIDs[i]), r.HomeLineupNames[i])
	}
	for i := 0; i < 5; i++ {
		record = append(record, idCell(r.AwayLineupIDs[i]), r.AwayLineupNames[i])
	}
	return record
}
