package usecase

import (
	"github.com/courtlog/nba-pbp/internal/domain/pbp"
	"github.com/courtlog/nba-pbp/internal/platform/logging"
)

// CoordsService merges the auxiliary shot-location feed into shot rows that
// came through without coordinates.
type CoordsService struct {
	logger *logging.Logger
}

func NewCoordsService(logger *logging.Logger) *CoordsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CoordsService{logger: logger}
}

// Backfill fills x, y and shot distance on shot rows lacking coordinates,
// matching shot-chart entries by action number. Rows that already carry
// coordinates are left alone.
func (s *CoordsService) Backfill(table *pbp.Table, chart *CDNShotChart) {
	if table == nil || chart == nil || len(chart.Game.Shots) == 0 {
		return
	}
	byAction := make(map[int]CDNShotEntry, len(chart.Game.Shots))
	for _, shot := range chart.Game.Shots {
		byAction[shot.ActionNumber] = shot
	}

	filled := 0
	for i := range table.Rows {
		row := &table.Rows[i]
		if !row.IsShot() || row.HasCoords {
			continue
		}
		shot, ok := byAction[row.ActionNumber]
		if !ok {
			continue
		}
		row.X = shot.X
		row.Y = shot.Y
		row.ShotDistance = shot.ShotDistance
		row.HasCoords = true
		filled++
	}
	if filled > 0 {
		s.logger.Debug("backfilled shot coordinates", "rows", filled)
	}
}
