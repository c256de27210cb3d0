package pbp

import (
	"strconv"
	"strings"
)

// Event families form a closed lowercase vocabulary shared by both parsers.
const (
	FamilyTwoPt        = "2pt"
	FamilyThreePt      = "3pt"
	FamilyFreeThrow    = "freethrow"
	FamilyRebound      = "rebound"
	FamilyTurnover     = "turnover"
	FamilyFoul         = "foul"
	FamilyViolation    = "violation"
	FamilySubstitution = "substitution"
	FamilyTimeout      = "timeout"
	FamilyJumpBall     = "jumpball"
	FamilyPeriod       = "period"
	FamilyGame         = "game"
)

// ShotMade values. Rows that are not shots carry ShotMadeNA.
const (
	ShotMadeNA     = -1
	ShotMadeMissed = 0
	ShotMadeYes    = 1
)

// Row is one canonical play-by-play event. Within a game rows are totally
// ordered by (Period, sort key, ActionNumber); every stateful pass downstream
// depends on that ordering.
type Row struct {
	GameID         string
	Period         int
	ClockRemaining string
	SecondsElapsed int
	EventLength    int
	ActionNumber   int
	OrderNumber    int
	EventNum       int
	TimeActual     string

	TeamID      int64
	TeamTricode string
	EventTeam   string

	Player1ID     int64
	Player1Name   string
	Player1TeamID int64
	Player2ID     int64
	Player2Name   string
	Player2TeamID int64
	Player3ID     int64
	Player3Name   string
	Player3TeamID int64

	HomeTeamID     int64
	HomeTeamAbbrev string
	AwayTeamID     int64
	AwayTeamAbbrev string

	HomeDescription    string
	VisitorDescription string
	GameDate           string
	Season             int

	Family          string
	Subfamily       string
	EventType       int
	EventActionType int
	EventTypeName   string

	IsThree    bool
	ShotMade   int
	PointsMade int

	ShotDistance float64
	X            float64
	Y            float64
	HasCoords    bool
	Side         string
	Area         string
	AreaDetail   string

	AssistID int64
	BlockID  int64
	StealID  int64

	StyleFlags []string
	Qualifiers []string

	IsOffRebound  bool
	IsDefRebound  bool
	IsTeamRebound bool

	LinkedShotAction int
	PossessionAfter  int64

	ScoreHome   int
	ScoreAway   int
	ScoreMargin string

	IsTurnover bool
	IsSteal    bool
	IsBlock    bool

	FTNum int
	FTOf  int

	HomeLineupIDs   [5]int64
	HomeLineupNames [5]string
	AwayLineupIDs   [5]int64
	AwayLineupNames [5]string
}

// Live reports whether the row participates in possession and lineup fill.
// Period boundaries and timeouts never carry either.
func (r Row) Live() bool {
	return r.Family != FamilyPeriod && r.Family != FamilyTimeout
}

// IsShot reports whether the row belongs to a shot family, free throws included.
func (r Row) IsShot() bool {
	switch r.Family {
	case FamilyTwoPt, FamilyThreePt, FamilyFreeThrow:
		return true
	}
	return false
}

// Table is a fully ordered canonical event table for one or more games.
type Table struct {
	Rows []Row
}

func (t *Table) Len() int { return len(t.Rows) }

// GameIDs returns the distinct game ids in row order.
func (t *Table) GameIDs() []string {
	seen := make(map[string]struct{}, 2)
	out := make([]string, 0, 2)
	for _, row := range t.Rows {
		if _, ok := seen[row.GameID]; ok {
			continue
		}
		seen[row.GameID] = struct{}{}
		out = append(out, row.GameID)
	}
	return out
}

// ScoreMarginString renders the signed home-minus-away margin, empty when
// either score is unknown (negative).
func ScoreMarginString(scoreHome, scoreAway int) string {
	if scoreHome < 0 || scoreAway < 0 {
		return ""
	}
	return strconv.Itoa(scoreHome - scoreAway)
}

// Int64OrZero coerces loosely typed feed values into an id, zero on failure.
func Int64OrZero(value any) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0
		}
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int64(f)
		}
		return 0
	default:
		return 0
	}
}

// IntOrZero is Int64OrZero narrowed to int.
func IntOrZero(value any) int {
	return int(Int64OrZero(value))
}

// FloatOrZero coerces loosely typed feed values into a float64.
func FloatOrZero(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

// StringOrEmpty coerces loosely typed feed values into a string.
func StringOrEmpty(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// PointsMadeFor applies the points law: zero unless made, one for free
// throws, three for threes, two otherwise.
func PointsMadeFor(family string, shotMade int) int {
	if shotMade != ShotMadeYes {
		return 0
	}
	switch family {
	case FamilyThreePt:
		return 3
	case FamilyFreeThrow:
		return 1
	}
	return 2
}
