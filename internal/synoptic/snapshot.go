package synoptic

import (
	"time"

	"github.com/lmarsden/galewatch/internal/models"
)

// Snapshot is the result of one regional scan, persisted and served as a unit.
type Snapshot struct {
	ScannedAt time.Time          `json:"scanned_at"`
	Grid      []models.GridPoint `json:"grid"`
	Systems   []PressureSystem   `json:"systems"`
	Fronts    []Front            `json:"fronts"`
	Motion    Motion             `json:"motion"`
}

// Analyze runs the full detection suite over a grid.
func Analyze(grid []models.GridPoint, p Params, scannedAt time.Time) Snapshot {
	return Snapshot{
		ScannedAt: scannedAt,
		Grid:      grid,
		Systems:   DetectSystems(grid, p),
		Fronts:    DetectFronts(grid, p),
		Motion:    EstimateMotion(grid, p),
	}
}
