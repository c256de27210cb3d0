package event

import (
	"strconv"
	"strings"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
)

// Legacy EVENTMSGTYPE codes per family. Shots and period boundaries are
// handled separately in TypeCode.
var typeByFamily = map[string]int{
	pbp.FamilyFreeThrow:    3,
	pbp.FamilyRebound:      4,
	pbp.FamilyTurnover:     5,
	pbp.FamilyFoul:         6,
	pbp.FamilyViolation:    7,
	pbp.FamilySubstitution: 8,
	pbp.FamilyTimeout:      9,
	pbp.FamilyJumpBall:     10,
	pbp.FamilyPeriod:       12,
	pbp.FamilyGame:         15,
}

var turnoverCodes = map[string]int{
	"bad pass":              1,
	"lost ball":             2,
	"out of bounds":         3,
	"traveling":             4,
	"shot clock":            5,
	"backcourt":             6,
	"offensive goaltending": 7,
	"offensive foul":        8,
	"illegal assist":        9,
	"excess timeout":        10,
}

var foulCodes = map[string]int{
	"personal":            1,
	"shooting":            2,
	"loose ball":          3,
	"offensive":           4,
	"away from play":      6,
	"clear path":          9,
	"technical":           11,
	"flagrant 1":          14,
	"flagrant 2":          15,
	"double technical":    16,
	"defensive 3 seconds": 17,
	"take":                19,
	"charge":              26,
}

var violationCodes = map[string]int{
	"kicked ball":           1,
	"delay of game":         2,
	"defensive goaltending": 3,
}

var typeNames = map[int]string{
	1:  "shot",
	2:  "missed_shot",
	3:  "free-throw",
	4:  "rebound",
	5:  "turnover",
	6:  "foul",
	7:  "violation",
	8:  "substitution",
	9:  "timeout",
	10: "jump-ball",
	12: "period",
	13: "period",
	15: "game",
}

// TypeCode derives the legacy numeric event type for a family. Shot families
// resolve purely from the made flag; unrecognized families yield zero.
func TypeCode(family string, made bool, subtype string) int {
	switch family {
	case pbp.FamilyTwoPt, pbp.FamilyThreePt:
		if made {
			return 1
		}
		return 2
	case pbp.FamilyPeriod:
		if subtype == "end" {
			return 13
		}
		return 12
	case pbp.FamilyGame:
		return 15
	}
	return typeByFamily[family]
}

// ActionTypeCode maps (family, subfamily) onto the legacy action-type code.
// Only the turnover, foul, violation and free-throw vocabularies are closed;
// everything else defaults to zero and may be refined via overrides.
func ActionTypeCode(family, subfamily string) int {
	sub := strings.ToLower(subfamily)
	switch family {
	case pbp.FamilyTurnover:
		return turnoverCodes[sub]
	case pbp.FamilyFoul:
		return foulCodes[sub]
	case pbp.FamilyViolation:
		return violationCodes[sub]
	case pbp.FamilyFreeThrow:
		n, m := FTTrip(sub)
		switch {
		case m == 1:
			return 10
		case m == 2 && n == 1:
			return 11
		case m == 2 && n == 2:
			return 12
		case m == 3 && n == 1:
			return 13
		case m == 3 && n == 2:
			return 14
		case m == 3 && n == 3:
			return 15
		}
		return 0
	}
	return 0
}

// FTTrip parses a free-throw "<n> of <m>" subtype. Returns (0, 0) when the
// pattern is absent or malformed.
func FTTrip(subtype string) (int, int) {
	lowered := strings.ToLower(subtype)
	parts := strings.Split(lowered, " of ")
	if len(parts) != 2 {
		return 0, 0
	}
	leftFields := strings.Fields(parts[0])
	rightFields := strings.Fields(parts[1])
	if len(leftFields) == 0 || len(rightFields) == 0 {
		return 0, 0
	}
	n, err := strconv.Atoi(leftFields[len(leftFields)-1])
	if err != nil {
		return 0, 0
	}
	m, err := strconv.Atoi(rightFields[0])
	if err != nil {
		return 0, 0
	}
	return n, m
}

// TypeName returns the human display label for a legacy event type code.
func TypeName(code int) string {
	return typeNames[code]
}
