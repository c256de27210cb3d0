package usecase

// Upstream payload shapes. The external feed client decodes raw JSON into
// these types; local files or test fixtures can be decoded into them the same
// way, so the pipeline never touches transport concerns.

// CDNPlayByPlay is the modern liveData play-by-play envelope.
type CDNPlayByPlay struct {
	Game CDNPlayByPlayGame `json:"game"`
}

type CDNPlayByPlayGame struct {
	GameID  string      `json:"gameId"`
	Actions []CDNAction `json:"actions"`
}

// CDNAction is one structured action from the modern feed. Block and steal
// actions arrive as standalone sidecar actions linked to their shot or
// turnover via ShotActionNumber.
type CDNAction struct {
	ActionNumber     int       `json:"actionNumber"`
	OrderNumber      int       `json:"orderNumber"`
	Period           int       `json:"period"`
	Clock            string    `json:"clock"`
	TimeActual       string    `json:"timeActual"`
	ActionType       string    `json:"actionType"`
	SubType          string    `json:"subType"`
	Descriptor       string    `json:"descriptor"`
	Qualifiers       []string  `json:"qualifiers"`
	PersonID         int64     `json:"personId"`
	PlayerName       string    `json:"playerName"`
	TeamID           int64     `json:"teamId"`
	TeamTricode      string    `json:"teamTricode"`
	ShotResult       string    `json:"shotResult"`
	ShotDistance     float64   `json:"shotDistance"`
	X                *float64  `json:"x"`
	Y                *float64  `json:"y"`
	Side             string    `json:"side"`
	Area             string    `json:"area"`
	AreaDetail       string    `json:"areaDetail"`
	AssistPersonID   int64     `json:"assistPersonId"`
	AssistPlayerName string    `json:"assistPlayerName"`
	BlockPersonID    int64     `json:"blockPersonId"`
	StealPersonID    int64     `json:"stealPersonId"`
	SecondaryID      int64     `json:"secondaryPersonId"`
	SecondaryName    string    `json:"secondaryPlayerName"`
	TertiaryID       int64     `json:"tertiaryPersonId"`
	TertiaryName     string    `json:"tertiaryPlayerName"`
	ShotActionNumber int       `json:"shotActionNumber"`
	Possession       int64     `json:"possession"`
	Description      string    `json:"description"`
	Score            *CDNScore `json:"score"`
}

type CDNScore struct {
	Home any `json:"home"`
	Away any `json:"away"`
}

// CDNBoxScore is the companion boxscore envelope. It supplies team identity,
// rosters for name resolution and starter detection, and official team totals.
type CDNBoxScore struct {
	Game CDNBoxScoreGame `json:"game"`
}

type CDNBoxScoreGame struct {
	GameID      string     `json:"gameId"`
	GameTimeUTC string     `json:"gameTimeUTC"`
	HomeTeam    CDNBoxTeam `json:"homeTeam"`
	AwayTeam    CDNBoxTeam `json:"awayTeam"`
}

type CDNBoxTeam struct {
	TeamID      int64             `json:"teamId"`
	TeamTricode string            `json:"teamTricode"`
	Players     []CDNBoxPlayer    `json:"players"`
	Statistics  CDNTeamStatistics `json:"statistics"`
}

type CDNBoxPlayer struct {
	PersonID        int64  `json:"personId"`
	Name            string `json:"name"`
	FirstName       string `json:"firstName"`
	FamilyName      string `json:"familyName"`
	Starter         string `json:"starter"`
	StarterPosition string `json:"starterPosition"`
	Status          string `json:"status"`
}

type CDNTeamStatistics struct {
	Points                 int `json:"points"`
	FieldGoalsMade         int `json:"fieldGoalsMade"`
	FieldGoalsAttempted    int `json:"fieldGoalsAttempted"`
	ThreePointersMade      int `json:"threePointersMade"`
	ThreePointersAttempted int `json:"threePointersAttempted"`
	FreeThrowsMade         int `json:"freeThrowsMade"`
	FreeThrowsAttempted    int `json:"freeThrowsAttempted"`
	ReboundsTotal          int `json:"reboundsTotal"`
	Assists                int `json:"assists"`
	Steals                 int `json:"steals"`
	Blocks                 int `json:"blocks"`
	Turnovers              int `json:"turnovers"`
}

// CDNShotChart is the auxiliary shot-location feed used for coordinate
// backfill of rows missing x/y.
type CDNShotChart struct {
	Game CDNShotChartGame `json:"game"`
}

type CDNShotChartGame struct {
	GameID string         `json:"gameId"`
	Shots  []CDNShotEntry `json:"shots"`
}

type CDNShotEntry struct {
	ActionNumber int     `json:"actionNumber"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	ShotDistance float64 `json:"shotDistance"`
}

// CDNSchedule lists game ids per calendar date.
type CDNSchedule struct {
	LeagueSchedule CDNLeagueSchedule `json:"leagueSchedule"`
}

type CDNLeagueSchedule struct {
	GameDates []CDNGameDate `json:"gameDates"`
}

type CDNGameDate struct {
	GameDate string            `json:"gameDate"`
	Games    []CDNScheduleGame `json:"games"`
}

type CDNScheduleGame struct {
	GameID string `json:"gameId"`
}

// LegacyPlayByPlay is the legacy tabular result-set envelope: one header row
// naming columns (case-insensitive) plus a loosely typed row set.
type LegacyPlayByPlay struct {
	ResultSets []LegacyResultSet `json:"resultSets"`
}

type LegacyResultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// Starters is an optional explicit starting-five list. Each side
// must carry exactly five player ids to take effect.
type Starters struct {
	Home []int64 `json:"home" validate:"omitempty,len=5,dive,gt=0"`
	Away []int64 `json:"away" validate:"omitempty,len=5,dive,gt=0"`
}
