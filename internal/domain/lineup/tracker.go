// Package lineup reconstructs five-a-side on-court rosters from a stream of
// canonical play-by-play events.
package lineup

// Anomaly records a heuristic transition the tracker could not resolve
// cleanly, for manual review of the affected game.
type Anomaly struct {
	TeamID    int64
	PlayerIn  int64
	PlayerOut int64
	Reason    string
}

type side struct {
	slots      [5]int64
	pendingOut []int64
	candidates map[int64]struct{}
}

func newSide() *side {
	return &side{candidates: make(map[int64]struct{}, 16)}
}

func (s *side) onCourt(playerID int64) (int, bool) {
	if playerID == 0 {
		return 0, false
	}
	for i, id := range s.slots {
		if id == playerID {
			return i, true
		}
	}
	return 0, false
}

func (s *side) emptySlot() (int, bool) {
	for i, id := range s.slots {
		if id == 0 {
			return i, true
		}
	}
	return 0, false
}

// Tracker is the per-game lineup state machine: one five-slot array per team
// plus a FIFO queue of pending "out" legs for split substitution encodings.
// It is advanced one event at a time and snapshotted after every transition.
type Tracker struct {
	homeID, awayID int64
	home, away     *side
	anomalies      []Anomaly
}

func NewTracker(homeTeamID, awayTeamID int64) *Tracker {
	return &Tracker{
		homeID: homeTeamID,
		awayID: awayTeamID,
		home:   newSide(),
		away:   newSide(),
	}
}

func (t *Tracker) sideFor(teamID int64) *side {
	switch {
	case teamID != 0 && teamID == t.homeID:
		return t.home
	case teamID != 0 && teamID == t.awayID:
		return t.away
	}
	return nil
}

// Seed installs explicit starters for one team. Short or overlong lists are
// ignored; implicit seeding from observed participants covers those games.
func (t *Tracker) Seed(teamID int64, starters []int64) {
	s := t.sideFor(teamID)
	if s == nil || len(starters) != 5 {
		return
	}
	for i, id := range starters {
		s.slots[i] = id
		if id != 0 {
			s.candidates[id] = struct{}{}
		}
	}
}

// Observe notes a live-event participant for a team. Unknown participants
// become lineup candidates and occupy an empty slot when one exists; this is
// how unseeded games converge on a full five.
func (t *Tracker) Observe(teamID, playerID int64) {
	s := t.sideFor(teamID)
	if s == nil || playerID == 0 {
		return
	}
	if _, known := s.candidates[playerID]; known {
		return
	}
	s.candidates[playerID] = struct{}{}
	if _, on := s.onCourt(playerID); on {
		return
	}
	if i, ok := s.emptySlot(); ok {
		s.slots[i] = playerID
	}
}

// ResolveTeam infers the acting team for a substitution participant when the
// event itself carries no team id, by checking which roster knows the player.
func (t *Tracker) ResolveTeam(playerID int64) int64 {
	if playerID == 0 {
		return 0
	}
	if _, on := t.home.onCourt(playerID); on {
		return t.homeID
	}
	if _, on := t.away.onCourt(playerID); on {
		return t.awayID
	}
	return 0
}

// QueueOut records the outgoing leg of a split substitution. The lineup is
// untouched until the matching "in" leg arrives.
func (t *Tracker) QueueOut(teamID, playerID int64) {
	s := t.sideFor(teamID)
	if s == nil || playerID == 0 {
		return
	}
	s.pendingOut = append(s.pendingOut, playerID)
}

// CompleteIn pairs an incoming player with the oldest queued "out" leg for
// the team and applies the swap. Batched substitutions at one clock tick
// resolve net-of-each-other because each "in" pops an "out" queued before it.
func (t *Tracker) CompleteIn(teamID, playerIn int64) {
	s := t.sideFor(teamID)
	if s == nil || playerIn == 0 {
		return
	}
	var playerOut int64
	if len(s.pendingOut) > 0 {
		playerOut = s.pendingOut[0]
		s.pendingOut = s.pendingOut[1:]
	}
	t.apply(teamID, s, playerOut, playerIn)
}

// Substitute applies a combined-encoding substitution row where the outgoing
// and incoming players arrive on the same event.
func (t *Tracker) Substitute(teamID, playerOut, playerIn int64) {
	s := t.sideFor(teamID)
	if s == nil || playerIn == 0 {
		return
	}
	t.apply(teamID, s, playerOut, playerIn)
}

func (t *Tracker) apply(teamID int64, s *side, playerOut, playerIn int64) {
	s.candidates[playerIn] = struct{}{}

	// The incoming player is already on the floor, usually because an
	// observation placed them moments before the "in" leg resolved. Vacate
	// the outgoing slot instead of manufacturing a sixth man.
	if _, on := s.onCourt(playerIn); on {
		if j, found := s.onCourt(playerOut); found && playerOut != playerIn {
			s.slots[j] = 0
		}
		return
	}
	if i, found := s.onCourt(playerOut); found {
		s.slots[i] = playerIn
		return
	}
	if i, ok := s.emptySlot(); ok {
		s.slots[i] = playerIn
		return
	}
	// Last resort: the outgoing player was never on court and the lineup is
	// full. Overwrite slot zero and flag the game for review.
	s.slots[0] = playerIn
	t.anomalies = append(t.anomalies, Anomaly{
		TeamID:    teamID,
		PlayerIn:  playerIn,
		PlayerOut: playerOut,
		Reason:    "substitution target not on court, overwrote slot zero",
	})
}

// Snapshot copies the current on-court ids for both teams.
func (t *Tracker) Snapshot() (home, away [5]int64) {
	return t.home.slots, t.away.slots
}

// Anomalies returns the heuristic fallbacks hit so far, in event order.
func (t *Tracker) Anomalies() []Anomaly {
	return t.anomalies
}
