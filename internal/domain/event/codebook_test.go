package event

import (
	"testing"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
)

func TestTypeCode_Shots(t *testing.T) {
	if got := TypeCode(pbp.FamilyTwoPt, true, ""); got != 1 {
		t.Fatalf("made 2pt: got %d", got)
	}
	if got := TypeCode(pbp.FamilyThreePt, false, ""); got != 2 {
		t.Fatalf("missed 3pt: got %d", got)
	}
}

func TestTypeCode_PeriodBoundaries(t *testing.T) {
	if got := TypeCode(pbp.FamilyPeriod, false, "end"); got != 13 {
		t.Fatalf("period end: got %d", got)
	}
	if got := TypeCode(pbp.FamilyPeriod, false, "start"); got != 12 {
		t.Fatalf("period start: got %d", got)
	}
	if got := TypeCode(pbp.FamilyGame, false, ""); got != 15 {
		t.Fatalf("game: got %d", got)
	}
}

func TestTypeCode_UnknownFamily(t *testing.T) {
	if got := TypeCode("halftime show", false, ""); got != 0 {
		t.Fatalf("expected zero for unknown family, got %d", got)
	}
}

func TestActionTypeCode_ClosedVocabularies(t *testing.T) {
	cases := []struct {
		family    string
		subfamily string
		want      int
	}{
		{pbp.FamilyTurnover, "bad pass", 1},
		{pbp.FamilyTurnover, "shot clock", 5},
		{pbp.FamilyFoul, "Shooting", 2},
		{pbp.FamilyFoul, "flagrant 2", 15},
		{pbp.FamilyViolation, "kicked ball", 1},
		{pbp.FamilyTurnover, "unheard of", 0},
	}
	for _, tc := range cases {
		if got := ActionTypeCode(tc.family, tc.subfamily); got != tc.want {
			t.Fatalf("ActionTypeCode(%q, %q) = %d, want %d", tc.family, tc.subfamily, got, tc.want)
		}
	}
}

func TestActionTypeCode_FreeThrowTrips(t *testing.T) {
	cases := []struct {
		subfamily string
		want      int
	}{
		{"free throw 1 of 1", 10},
		{"free throw 1 of 2", 11},
		{"free throw 2 of 2", 12},
		{"free throw 1 of 3", 13},
		{"free throw 2 of 3", 14},
		{"free throw 3 of 3", 15},
		{"free throw technical", 0},
	}
	for _, tc := range cases {
		if got := ActionTypeCode(pbp.FamilyFreeThrow, tc.subfamily); got != tc.want {
			t.Fatalf("ActionTypeCode(freethrow, %q) = %d, want %d", tc.subfamily, got, tc.want)
		}
	}
}

func TestFTTrip(t *testing.T) {
	n, m := FTTrip("free throw 2 of 3")
	if n != 2 || m != 3 {
		t.Fatalf("got (%d, %d)", n, m)
	}
	n, m = FTTrip("technical")
	if n != 0 || m != 0 {
		t.Fatalf("malformed subtype should yield zeros, got (%d, %d)", n, m)
	}
	n, m = FTTrip("free throw x of y")
	if n != 0 || m != 0 {
		t.Fatalf("non-numeric trip should yield zeros, got (%d, %d)", n, m)
	}
}

func TestTypeName(t *testing.T) {
	if got := TypeName(5); got != "turnover" {
		t.Fatalf("got %q", got)
	}
	if got := TypeName(13); got != "period" {
		t.Fatalf("got %q", got)
	}
	if got := TypeName(999); got != "" {
		t.Fatalf("unknown code should be empty, got %q", got)
	}
}
