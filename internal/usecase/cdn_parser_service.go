package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/courtlog/nba-pbp/internal/domain/event"
	"github.com/courtlog/nba-pbp/internal/domain/pbp"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
)

// ParserConfig carries the explicit behavior switches shared by both parsers.
type ParserConfig struct {
	// SyntheticFTText writes a legacy-compatible "Free Throw N of M"
	// description onto free-throw rows that arrive without one.
	SyntheticFTText bool
}

// CDNParserService converts modern liveData action payloads into canonical
// rows. Block and steal sidecar actions are folded into the shot or turnover
// row they relate to instead of being emitted standalone.
type CDNParserService struct {
	overrides event.OverrideTable
	cfg       ParserConfig
	logger    *logging.Logger
}

func NewCDNParserService(overrides event.OverrideTable, cfg ParserConfig, logger *logging.Logger) *CDNParserService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CDNParserService{
		overrides: overrides,
		cfg:       cfg,
		logger:    logger,
	}
}

// sidecarKey links a block/steal action to its shot or turnover.
type sidecarKey struct {
	period       int
	shotActionNo int
}

type sidecarEntry struct {
	blockID   int64
	blockName string
	stealID   int64
	stealName string
}

// sidecarCollector buffers block/steal actions and patches linked rows in
// either arrival order: sidecar-first registers for the row still to come,
// row-first is patched retroactively when the sidecar shows up.
type sidecarCollector struct {
	entries map[sidecarKey]sidecarEntry
}

func newSidecarCollector() *sidecarCollector {
	return &sidecarCollector{entries: make(map[sidecarKey]sidecarEntry, 16)}
}

func (c *sidecarCollector) register(action CDNAction, family string) {
	key := sidecarKey{period: action.Period, shotActionNo: action.ShotActionNumber}
	entry := c.entries[key]
	switch family {
	case "block":
		entry.blockID = action.PersonID
		entry.blockName = action.PlayerName
	case "steal":
		entry.stealID = action.PersonID
		entry.stealName = action.PlayerName
	}
	c.entries[key] = entry
}

func (c *sidecarCollector) apply(key sidecarKey, row *pbp.Row) {
	entry, ok := c.entries[key]
	if !ok {
		return
	}
	if entry.blockID != 0 {
		row.BlockID = entry.blockID
		if row.Player3Name == "" {
			row.Player3Name = entry.blockName
		}
	}
	if entry.stealID != 0 {
		row.StealID = entry.stealID
		if row.Player2Name == "" && row.Family == pbp.FamilyTurnover {
			row.Player2Name = entry.stealName
		}
	}
}

// Parse builds the canonical table from a play-by-play payload and its
// companion boxscore. Empty action lists yield an empty table with the full
// schema; a payload lacking the game envelope is rejected.
func (s *CDNParserService) Parse(payload CDNPlayByPlay, box CDNBoxScore) (*pbp.Table, error) {
	if payload.Game.GameID == "" {
		return nil, fmt.Errorf("%w: play-by-play payload missing game envelope", ErrMalformedPayload)
	}

	gameID := payload.Game.GameID
	homeID := box.Game.HomeTeam.TeamID
	homeTri := box.Game.HomeTeam.TeamTricode
	awayID := box.Game.AwayTeam.TeamID
	awayTri := box.Game.AwayTeam.TeamTricode
	gameDate := box.Game.GameTimeUTC

	rows := make([]pbp.Row, 0, len(payload.Game.Actions))
	rowIdxByKey := make(map[sidecarKey]int, 32)
	sidecars := newSidecarCollector()
	scoreHome, scoreAway := 0, 0

	for _, action := range payload.Game.Actions {
		family := familyFromAction(action)
		if family == "block" || family == "steal" {
			sidecars.register(action, family)
			// The linked row may already be built; patch it in place.
			key := sidecarKey{period: action.Period, shotActionNo: action.ShotActionNumber}
			if idx, ok := rowIdxByKey[key]; ok {
				sidecars.apply(key, &rows[idx])
				s.resolveLinkedActors(&rows[idx])
				recomputeFlags(&rows[idx])
			}
			continue
		}

		clockRemaining := pbp.ISOClockToRemaining(action.Period, action.Clock)
		descriptorCore, styles := event.NormalizeDescriptor(action.Descriptor)
		subfamily := event.Canon(action.SubType)
		if subfamily == "" {
			subfamily = descriptorCore
		}
		shotMade := shotMadeFromResult(family, action.ShotResult)

		typeCode := event.TypeCode(family, shotMade == pbp.ShotMadeYes, subfamily)
		actionCode := event.ActionTypeCode(family, subfamily)

		if ov, ok := s.overrides.Lookup(event.NewSignatureKey(family, action.SubType, descriptorCore, action.Qualifiers)); ok {
			if ov.Subfamily != "" {
				subfamily = ov.Subfamily
			}
			if ov.ActionCode != 0 {
				actionCode = ov.ActionCode
			}
			// Shot made/missed comes from the shot result, never from
			// configuration, so type overrides skip shot families.
			if ov.TypeCode != 0 && family != pbp.FamilyTwoPt && family != pbp.FamilyThreePt {
				typeCode = ov.TypeCode
			}
		}

		if action.Score != nil {
			scoreHome = pbp.IntOrZero(action.Score.Home)
			scoreAway = pbp.IntOrZero(action.Score.Away)
		}

		ftN, ftM := 0, 0
		if family == pbp.FamilyFreeThrow {
			ftN, ftM = event.FTTrip(subfamily)
		}

		row := pbp.Row{
			GameID:           gameID,
			Period:           action.Period,
			ClockRemaining:   clockRemaining,
			SecondsElapsed:   pbp.SecondsElapsed(action.Period, clockRemaining),
			ActionNumber:     action.ActionNumber,
			OrderNumber:      action.OrderNumber,
			EventNum:         action.ActionNumber,
			TimeActual:       action.TimeActual,
			TeamID:           action.TeamID,
			TeamTricode:      action.TeamTricode,
			Player1ID:        action.PersonID,
			Player1Name:      action.PlayerName,
			Player1TeamID:    action.TeamID,
			Player2ID:        action.SecondaryID,
			Player2Name:      action.SecondaryName,
			Player3ID:        action.TertiaryID,
			Player3Name:      action.TertiaryName,
			HomeTeamID:       homeID,
			HomeTeamAbbrev:   homeTri,
			AwayTeamID:       awayID,
			AwayTeamAbbrev:   awayTri,
			GameDate:         gameDate,
			Season:           seasonFromGameID(gameID),
			Family:           family,
			Subfamily:        subfamily,
			EventType:        typeCode,
			EventActionType:  actionCode,
			EventTypeName:    event.TypeName(typeCode),
			IsThree:          family == pbp.FamilyThreePt,
			ShotMade:         shotMade,
			PointsMade:       pbp.PointsMadeFor(family, shotMade),
			Side:             action.Side,
			Area:             action.Area,
			AreaDetail:       action.AreaDetail,
			AssistID:         action.AssistPersonID,
			StealID:          action.StealPersonID,
			BlockID:          action.BlockPersonID,
			StyleFlags:       styles,
			Qualifiers:       canonQualifiers(action.Qualifiers),
			IsOffRebound:     family == pbp.FamilyRebound && subfamily == "offensive",
			IsDefRebound:     family == pbp.FamilyRebound && subfamily == "defensive",
			IsTeamRebound:    family == pbp.FamilyRebound && action.PersonID == 0,
			LinkedShotAction: action.ShotActionNumber,
			PossessionAfter:  action.Possession,
			ScoreHome:        scoreHome,
			ScoreAway:        scoreAway,
			ScoreMargin:      pbp.ScoreMarginString(scoreHome, scoreAway),
			FTNum:            ftN,
			FTOf:             ftM,
		}

		if action.X != nil && action.Y != nil {
			row.X, row.Y = *action.X, *action.Y
			row.ShotDistance = action.ShotDistance
			row.HasCoords = true
		} else if row.IsShot() && row.Area != "" {
			if x, y, ok := synthCoords(row.Area, row.AreaDetail, row.Side); ok {
				row.X, row.Y = x, y
				row.ShotDistance = action.ShotDistance
				row.HasCoords = true
			}
		}

		if row.AssistID != 0 && row.Player2Name == "" {
			row.Player2Name = action.AssistPlayerName
		}

		s.applyDescriptions(&row, action)
		fillTeamFields(&row)

		key := sidecarKey{period: action.Period, shotActionNo: action.ActionNumber}
		sidecars.apply(key, &row)
		s.resolveLinkedActors(&row)
		recomputeFlags(&row)

		rowIdxByKey[key] = len(rows)
		rows = append(rows, row)
	}

	finalizeRows(rows, sortByOrderNumber)
	return &pbp.Table{Rows: rows}, nil
}

// resolveLinkedActors backfills the secondary and tertiary participants from
// linked assist/steal/block ids: assists join the shooting team, steals and
// blocks join the opponent.
func (s *CDNParserService) resolveLinkedActors(row *pbp.Row) {
	opponent := opponentOf(row.TeamID, row.HomeTeamID, row.AwayTeamID)

	if row.ShotMade == pbp.ShotMadeYes && row.AssistID != 0 && row.Player2ID == 0 {
		row.Player2ID = row.AssistID
		row.Player2TeamID = row.TeamID
	}
	if row.Family == pbp.FamilyTurnover && row.StealID != 0 && row.Player2ID == 0 {
		row.Player2ID = row.StealID
		row.Player2TeamID = opponent
	}
	if row.ShotMade == pbp.ShotMadeMissed && row.BlockID != 0 && row.Player3ID == 0 {
		row.Player3ID = row.BlockID
		row.Player3TeamID = opponent
	}
}

// applyDescriptions carries the feed description onto the acting side's
// column, synthesizing the legacy free-throw text when enabled.
func (s *CDNParserService) applyDescriptions(row *pbp.Row, action CDNAction) {
	description := action.Description
	if description == "" && s.cfg.SyntheticFTText && row.Family == pbp.FamilyFreeThrow && row.FTOf > 0 {
		description = fmt.Sprintf("Free Throw %d of %d", row.FTNum, row.FTOf)
	}
	if description == "" {
		return
	}
	if row.TeamID != 0 && row.TeamID == row.AwayTeamID {
		row.VisitorDescription = description
		return
	}
	row.HomeDescription = description
}

// recomputeFlags derives the turnover/steal/block booleans from the final
// resolved codes so overrides can never desynchronize flags from codes.
func recomputeFlags(row *pbp.Row) {
	row.IsTurnover = row.EventType == 5
	row.IsSteal = row.EventType == 5 && row.StealID != 0
	row.IsBlock = row.ShotMade == pbp.ShotMadeMissed && row.BlockID != 0
}

func familyFromAction(action CDNAction) string {
	family := event.Canon(action.ActionType)
	if family == "made shot" || family == "made" {
		family = pbp.FamilyTwoPt
	}
	return family
}

func shotMadeFromResult(family, shotResult string) int {
	switch family {
	case pbp.FamilyTwoPt, pbp.FamilyThreePt, pbp.FamilyFreeThrow:
	default:
		return pbp.ShotMadeNA
	}
	switch strings.ToLower(shotResult) {
	case "made":
		return pbp.ShotMadeYes
	case "missed":
		return pbp.ShotMadeMissed
	}
	return pbp.ShotMadeNA
}

func canonQualifiers(qualifiers []string) []string {
	if len(qualifiers) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(qualifiers))
	out := make([]string, 0, len(qualifiers))
	for _, q := range qualifiers {
		c := event.Canon(q)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
