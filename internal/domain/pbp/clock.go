package pbp

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	SecondsPerPeriod   = 720
	SecondsPerOvertime = 300
)

// PeriodBaseSeconds is the game-clock offset at which the period starts.
func PeriodBaseSeconds(period int) int {
	if period <= 4 {
		return SecondsPerPeriod * (period - 1)
	}
	return SecondsPerPeriod*4 + SecondsPerOvertime*(period-5)
}

// SecondsElapsed converts a "MM:SS" clock-remaining string into monotonic
// seconds elapsed since the start of the game.
func SecondsElapsed(period int, clockRemaining string) int {
	if period <= 0 {
		return 0
	}
	minutes, seconds := 0, 0
	parts := strings.SplitN(clockRemaining, ":", 2)
	if len(parts) == 2 {
		minutes, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
		seconds, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	total := SecondsPerPeriod
	if period > 4 {
		total = SecondsPerOvertime
	}
	remaining := minutes*60 + seconds
	return PeriodBaseSeconds(period) + (total - remaining)
}

// ISOClockToRemaining converts the CDN feed's ISO-8601 duration clock
// ("PT11M22.00S") into a "MM:SS" string. Values that do not look like an
// ISO duration pass through unchanged; empty input means a fresh period, so
// the full regulation or overtime clock is returned depending on the period.
func ISOClockToRemaining(period int, isoClock string) string {
	clock := strings.ToUpper(strings.TrimSpace(isoClock))
	if clock == "" {
		if period > 4 {
			return "05:00"
		}
		return "12:00"
	}
	if !strings.HasPrefix(clock, "PT") {
		return clock
	}
	minutes, seconds := 0, 0
	rest := strings.TrimPrefix(clock, "PT")
	if idx := strings.Index(rest, "M"); idx >= 0 {
		if v, err := strconv.ParseFloat(rest[:idx], 64); err == nil {
			minutes = int(v)
		}
		rest = rest[idx+1:]
	}
	if idx := strings.Index(rest, "S"); idx >= 0 {
		if v, err := strconv.ParseFloat(rest[:idx], 64); err == nil {
			seconds = int(v)
		}
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
