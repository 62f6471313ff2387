package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"github.com/lmarsden/galewatch/internal/models"
)

const (
	// gridForecastHours is the hourly look-ahead requested per grid point;
	// trendHourOffset picks the hour the pressure trend is measured against.
	gridForecastHours = 6
	trendHourOffset   = 3
)

type gridPointResponse struct {
	Current struct {
		Temperature   float64 `json:"temperature_2m"`
		PressureMSL   float64 `json:"pressure_msl"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection float64 `json:"wind_direction_10m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		PressureMSL []float64 `json:"pressure_msl"`
	} `json:"hourly"`
}

// FetchGrid samples weather on a gridSize x gridSize lattice across the given
// bounds. A failed point is logged and skipped; callers get whatever subset
// succeeded (the synoptic detectors handle sparse grids).
func (c *Client) FetchGrid(ctx context.Context, bounds models.GridBounds, gridSize int) ([]models.GridPoint, error) {
	if gridSize < 2 {
		return nil, fmt.Errorf("grid size must be at least 2, got %d", gridSize)
	}

	latStep := (bounds.North - bounds.South) / float64(gridSize-1)
	lonStep := (bounds.East - bounds.West) / float64(gridSize-1)

	var grid []models.GridPoint
	for i := 0; i < gridSize; i++ {
		lat := bounds.South + float64(i)*latStep
		for j := 0; j < gridSize; j++ {
			lon := bounds.West + float64(j)*lonStep

			point, err := c.fetchGridPoint(ctx, lat, lon)
			if err != nil {
				if ctx.Err() != nil {
					return grid, ctx.Err()
				}
				log.Printf("ingest: grid point (%.1f, %.1f): %v", lat, lon, err)
				continue
			}
			grid = append(grid, *point)
		}
	}
	return grid, nil
}

func (c *Client) fetchGridPoint(ctx context.Context, lat, lon float64) (*models.GridPoint, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("current", "temperature_2m,pressure_msl,wind_speed_10m,wind_direction_10m,weather_code")
	params.Set("hourly", "pressure_msl")
	params.Set("forecast_hours", fmt.Sprintf("%d", gridForecastHours))
	params.Set("wind_speed_unit", "ms")
	params.Set("timezone", "UTC")

	body, err := c.get(ctx, "grid", c.forecastURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var data gridPointResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal grid point: %w", err)
	}

	// Rising/falling pressure over the look-ahead window; flat when the
	// forecast is too short.
	trend := 0.0
	if len(data.Hourly.PressureMSL) > trendHourOffset {
		trend = data.Hourly.PressureMSL[trendHourOffset] - data.Current.PressureMSL
	}

	return &models.GridPoint{
		Latitude:      lat,
		Longitude:     lon,
		TemperatureC:  data.Current.Temperature,
		PressureHPa:   data.Current.PressureMSL,
		PressureTrend: trend,
		WindSpeedMS:   data.Current.WindSpeed,
		WindDirDeg:    data.Current.WindDirection,
		WeatherCode:   data.Current.WeatherCode,
	}, nil
}
