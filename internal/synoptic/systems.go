// Package synoptic derives regional weather features (pressure systems,
// fronts, front motion) from an irregular set of sampled grid points. It is
// a gradient heuristic over discrete samples, not geostrophic analysis.
package synoptic

import (
	"math"

	"github.com/lmarsden/galewatch/internal/models"
)

// Params holds the detection constants. Tests override them to probe
// boundary behavior.
type Params struct {
	HighPressureHPa  float64 // local max must exceed this to count as a high
	LowPressureHPa   float64 // local min must be below this to count as a low
	NeighborhoodDeg  float64 // lat AND lon distance defining a point's neighborhood
	MinGridPoints    int     // hard floor below which system detection is a no-op
	FrontGradient    float64 // °C per degree of arc
	FrontSpeedFactor float64 // fronts assumed to move at this fraction of mean wind
}

// DefaultParams returns the standard detection constants.
func DefaultParams() Params {
	return Params{
		HighPressureHPa:  1015,
		LowPressureHPa:   1010,
		NeighborhoodDeg:  2,
		MinGridPoints:    9,
		FrontGradient:    1.5,
		FrontSpeedFactor: 0.5,
	}
}

// SystemType distinguishes highs from lows.
type SystemType string

const (
	SystemHigh SystemType = "high"
	SystemLow  SystemType = "low"
)

// PressureSystem is a local extremum in the sampled pressure field.
type PressureSystem struct {
	Type        SystemType `json:"type"`
	Latitude    float64    `json:"lat"`
	Longitude   float64    `json:"lon"`
	PressureHPa float64    `json:"pressure"`
	Symbol      string     `json:"symbol"`
}

// DetectSystems flags local pressure extrema. A point counts as a high only
// if its pressure strictly exceeds every neighbor's and the high threshold;
// lows mirror that below the low threshold. Ties with any neighbor exclude
// the point from both branches. Fewer than MinGridPoints makes detection a
// no-op, and a point with no neighbors cannot be classified.
//
// The result is independent of input ordering: candidates are collected per
// point against the full set, not against a scan prefix.
func DetectSystems(grid []models.GridPoint, p Params) []PressureSystem {
	if len(grid) < p.MinGridPoints {
		return nil
	}

	var systems []PressureSystem

	for i, point := range grid {
		higher := 0
		lower := 0
		neighbors := 0
		for j, other := range grid {
			if i == j {
				continue
			}
			if math.Abs(other.Latitude-point.Latitude) >= p.NeighborhoodDeg ||
				math.Abs(other.Longitude-point.Longitude) >= p.NeighborhoodDeg {
				continue
			}
			neighbors++
			if point.PressureHPa > other.PressureHPa {
				higher++
			}
			if point.PressureHPa < other.PressureHPa {
				lower++
			}
		}

		if neighbors == 0 {
			continue
		}

		switch {
		case higher == neighbors && point.PressureHPa > p.HighPressureHPa:
			systems = append(systems, PressureSystem{
				Type:        SystemHigh,
				Latitude:    point.Latitude,
				Longitude:   point.Longitude,
				PressureHPa: point.PressureHPa,
				Symbol:      "H",
			})
		case lower == neighbors && point.PressureHPa < p.LowPressureHPa:
			systems = append(systems, PressureSystem{
				Type:        SystemLow,
				Latitude:    point.Latitude,
				Longitude:   point.Longitude,
				PressureHPa: point.PressureHPa,
				Symbol:      "L",
			})
		}
	}

	return systems
}
