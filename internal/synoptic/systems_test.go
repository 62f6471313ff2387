package synoptic

import (
	"testing"

	"github.com/lmarsden/galewatch/internal/models"
)

// ring builds a center point surrounded by 8 neighbors within 2°x2°.
func ring(centerPressure, neighborPressure float64) []models.GridPoint {
	grid := []models.GridPoint{{Latitude: 54, Longitude: -2, PressureHPa: centerPressure}}
	offsets := [][2]float64{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	for _, off := range offsets {
		grid = append(grid, models.GridPoint{
			Latitude:    54 + off[0],
			Longitude:   -2 + off[1],
			PressureHPa: neighborPressure,
		})
	}
	return grid
}

func TestDetectSystems_High(t *testing.T) {
	p := DefaultParams()
	grid := ring(1020, 1012)

	systems := DetectSystems(grid, p)

	if len(systems) != 1 {
		t.Fatalf("len(systems) = %d, want 1", len(systems))
	}
	if systems[0].Type != SystemHigh {
		t.Errorf("Type = %v, want %v", systems[0].Type, SystemHigh)
	}
	if systems[0].PressureHPa != 1020 {
		t.Errorf("PressureHPa = %v, want 1020", systems[0].PressureHPa)
	}
	if systems[0].Symbol != "H" {
		t.Errorf("Symbol = %q, want H", systems[0].Symbol)
	}
}

func TestDetectSystems_Low(t *testing.T) {
	p := DefaultParams()
	grid := ring(1002, 1011)

	systems := DetectSystems(grid, p)

	if len(systems) != 1 {
		t.Fatalf("len(systems) = %d, want 1", len(systems))
	}
	if systems[0].Type != SystemLow {
		t.Errorf("Type = %v, want %v", systems[0].Type, SystemLow)
	}
	if systems[0].Symbol != "L" {
		t.Errorf("Symbol = %q, want L", systems[0].Symbol)
	}
}

func TestDetectSystems_TieExcluded(t *testing.T) {
	p := DefaultParams()
	grid := ring(1020, 1012)
	// One neighbor ties the center exactly: strict inequality removes the high.
	grid[1].PressureHPa = 1020

	systems := DetectSystems(grid, p)

	for _, s := range systems {
		if s.Latitude == 54 && s.Longitude == -2 {
			t.Errorf("tied center reported as %v, want excluded", s.Type)
		}
	}
}

func TestDetectSystems_BelowThresholdNotReported(t *testing.T) {
	p := DefaultParams()
	// Local max but under the 1015 hPa bar.
	grid := ring(1014, 1008)

	systems := DetectSystems(grid, p)

	for _, s := range systems {
		if s.Type == SystemHigh {
			t.Errorf("1014 hPa local max reported as high, want none")
		}
	}
}

func TestDetectSystems_MinGridFloor(t *testing.T) {
	p := DefaultParams()
	// 8 points with an obvious extremum: still a no-op below the floor.
	grid := ring(1025, 1000)[:8]

	if systems := DetectSystems(grid, p); len(systems) != 0 {
		t.Errorf("len(systems) = %d on %d points, want 0", len(systems), len(grid))
	}
}

func TestDetectSystems_IsolatedPointSkipped(t *testing.T) {
	p := DefaultParams()
	grid := ring(1020, 1012)
	// A far-away extreme low has no neighbors and cannot be classified.
	grid = append(grid, models.GridPoint{Latitude: 70, Longitude: 30, PressureHPa: 980})

	systems := DetectSystems(grid, p)

	for _, s := range systems {
		if s.Latitude == 70 {
			t.Error("isolated point classified, want skipped")
		}
	}
}

func TestDetectSystems_OrderIndependent(t *testing.T) {
	p := DefaultParams()
	grid := ring(1020, 1012)

	forward := DetectSystems(grid, p)

	reversed := make([]models.GridPoint, len(grid))
	for i, pt := range grid {
		reversed[len(grid)-1-i] = pt
	}
	backward := DetectSystems(reversed, p)

	if len(forward) != len(backward) {
		t.Fatalf("result depends on input order: %d vs %d systems", len(forward), len(backward))
	}
	if forward[0].Type != backward[0].Type || forward[0].PressureHPa != backward[0].PressureHPa {
		t.Errorf("forward %+v != backward %+v", forward[0], backward[0])
	}
}
