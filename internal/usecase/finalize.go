package usecase

import (
	"sort"
	"strconv"
	"strings"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
)

// sortKey selects which secondary ordering a parser uses inside a period.
type sortKey int

const (
	sortByOrderNumber sortKey = iota
	sortBySecondsElapsed
)

// finalizeRows applies the common end-of-parser ordering pass: a stable sort
// on (period, key, action number) followed by per-period event lengths.
func finalizeRows(rows []pbp.Row, key sortKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		switch key {
		case sortBySecondsElapsed:
			if a.SecondsElapsed != b.SecondsElapsed {
				return a.SecondsElapsed < b.SecondsElapsed
			}
		default:
			if a.OrderNumber != b.OrderNumber {
				return a.OrderNumber < b.OrderNumber
			}
		}
		return a.ActionNumber < b.ActionNumber
	})

	for i := range rows {
		if i+1 < len(rows) && rows[i+1].Period == rows[i].Period {
			length := rows[i+1].SecondsElapsed - rows[i].SecondsElapsed
			if length < 0 {
				length = -length
			}
			rows[i].EventLength = length
		} else {
			// Chronologically last row of its period.
			rows[i].EventLength = 0
		}
	}
}

// fillTeamFields populates team id, tricode and event team from whichever of
// the three is known, using the home/away metadata already on the row.
func fillTeamFields(row *pbp.Row) {
	if row.TeamID == 0 {
		switch {
		case row.Player1TeamID != 0:
			row.TeamID = row.Player1TeamID
		case row.EventTeam != "" && row.EventTeam == row.HomeTeamAbbrev:
			row.TeamID = row.HomeTeamID
		case row.EventTeam != "" && row.EventTeam == row.AwayTeamAbbrev:
			row.TeamID = row.AwayTeamID
		}
	}
	if row.TeamTricode == "" {
		switch row.TeamID {
		case row.HomeTeamID:
			row.TeamTricode = row.HomeTeamAbbrev
		case row.AwayTeamID:
			row.TeamTricode = row.AwayTeamAbbrev
		}
	}
	if row.EventTeam == "" {
		row.EventTeam = row.TeamTricode
	}
}

// opponentOf returns the other team's id, zero when either side is unknown.
func opponentOf(teamID, homeID, awayID int64) int64 {
	if teamID == 0 || homeID == 0 || awayID == 0 {
		return 0
	}
	if teamID == homeID {
		return awayID
	}
	if teamID == awayID {
		return homeID
	}
	return 0
}

// Approximate court coordinates per area label, used when a shot row carries
// area/side text but no measured x/y.
var (
	synthAboveBreak = map[string][2]float64{
		"Left":         {25, 82},
		"Left Center":  {35, 82},
		"Center":       {50, 82},
		"Right Center": {65, 82},
		"Right":        {75, 82},
	}
	synthMidRange = map[string][2]float64{
		"8-16 Left":    {30, 55},
		"8-16 Center":  {50, 55},
		"8-16 Right":   {70, 55},
		"16-24 Left":   {30, 68},
		"16-24 Center": {50, 68},
		"16-24 Right":  {70, 68},
	}
	synthPaint = map[string][2]float64{
		"0-8 Left":   {45, 30},
		"0-8 Center": {50, 30},
		"0-8 Right":  {55, 30},
	}
	synthCorner = map[string][2]float64{
		"Left":  {8, 10},
		"Right": {92, 10},
	}
)

// synthCoords approximates shot coordinates from area labels.
func synthCoords(area, areaDetail, side string) (float64, float64, bool) {
	lookup := func(table map[string][2]float64, key string) (float64, float64, bool) {
		if xy, ok := table[key]; ok {
			return xy[0], xy[1], true
		}
		return 0, 0, false
	}
	switch {
	case containsFold(area, "restricted"):
		return 50, 22, true
	case containsFold(area, "non-ra"), containsFold(area, "paint"):
		return lookup(synthPaint, areaDetail)
	case containsFold(area, "mid-range"):
		return lookup(synthMidRange, areaDetail)
	case containsFold(area, "corner 3"):
		return lookup(synthCorner, titleSide(side))
	case containsFold(area, "above the break"):
		key := areaDetail
		if key == "" {
			key = titleSide(side)
		}
		return lookup(synthAboveBreak, key)
	}
	return 0, 0, false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func titleSide(side string) string {
	if side == "" {
		return ""
	}
	lowered := strings.ToLower(side)
	return strings.ToUpper(lowered[:1]) + lowered[1:]
}

// seasonFromGameID derives the season start year from the two season digits
// embedded in a legacy-style game id ("002<YY>.....").
func seasonFromGameID(gameID string) int {
	if len(gameID) < 5 {
		return 0
	}
	yy, err := strconv.Atoi(gameID[3:5])
	if err != nil {
		return 0
	}
	if yy == 99 {
		return 1999
	}
	return 2000 + yy
}
