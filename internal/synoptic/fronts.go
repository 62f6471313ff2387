package synoptic

import (
	"math"
	"sort"

	"github.com/lmarsden/galewatch/internal/models"
)

// FrontType distinguishes cold from warm fronts.
type FrontType string

const (
	FrontCold FrontType = "cold"
	FrontWarm FrontType = "warm"
)

// Front is a sharp temperature gradient between two adjacent grid points,
// located at their midpoint.
type Front struct {
	Type      FrontType `json:"type"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	Color     string    `json:"color"`
	Symbol    string    `json:"symbol"`
	Gradient  float64   `json:"gradient"`
	TempDiff  float64   `json:"temp_diff"`
}

// Motion is a coarse front-movement estimate for the whole region.
type Motion struct {
	VelocityMS    float64 `json:"velocity_ms"`
	DirectionDeg  float64 `json:"direction_deg"`
	PressureTrend float64 `json:"pressure_trend"`
}

// DetectFronts scans grid points sorted by latitude and emits one front
// candidate per adjacent pair whose temperature gradient (°C per degree of
// arc, Euclidean in degree-space) crosses the threshold. Coincident pairs are
// skipped; adjacent detections are not merged into a single front line. The
// input slice is not modified.
func DetectFronts(grid []models.GridPoint, p Params) []Front {
	sorted := make([]models.GridPoint, len(grid))
	copy(sorted, grid)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Latitude < sorted[j].Latitude
	})

	var fronts []Front

	for i := 0; i+1 < len(sorted); i++ {
		p1 := sorted[i]
		p2 := sorted[i+1]

		dLat := p2.Latitude - p1.Latitude
		dLon := p2.Longitude - p1.Longitude
		distance := math.Sqrt(dLat*dLat + dLon*dLon)
		if distance == 0 {
			continue // undefined gradient
		}

		tempDiff := math.Abs(p2.TemperatureC - p1.TemperatureC)
		gradient := tempDiff / distance
		if gradient <= p.FrontGradient {
			continue
		}

		front := Front{
			Latitude:  (p1.Latitude + p2.Latitude) / 2,
			Longitude: (p1.Longitude + p2.Longitude) / 2,
			Gradient:  gradient,
			TempDiff:  tempDiff,
		}
		// Cold front if the air poleward of the pair is the colder side.
		if p2.TemperatureC < p1.TemperatureC {
			front.Type = FrontCold
			front.Color = "#0000FF"
			front.Symbol = "▼"
		} else {
			front.Type = FrontWarm
			front.Color = "#FF0000"
			front.Symbol = "▲"
		}
		fronts = append(fronts, front)
	}

	return fronts
}

// EstimateMotion derives a regional front-motion estimate from plain
// arithmetic means of pressure trend, wind speed and wind direction.
// Direction is averaged without circular-mean correction, so values near the
// 0°/360° wrap are lossy.
func EstimateMotion(grid []models.GridPoint, p Params) Motion {
	if len(grid) == 0 {
		return Motion{}
	}

	var sumTrend, sumSpeed, sumDir float64
	for _, point := range grid {
		sumTrend += point.PressureTrend
		sumSpeed += point.WindSpeedMS
		sumDir += point.WindDirDeg
	}
	n := float64(len(grid))

	return Motion{
		VelocityMS:    (sumSpeed / n) * p.FrontSpeedFactor,
		DirectionDeg:  sumDir / n,
		PressureTrend: sumTrend / n,
	}
}
