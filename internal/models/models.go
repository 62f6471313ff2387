package models

import "time"

// WindFarm is an offshore wind farm site loaded from GeoJSON.
type WindFarm struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	CapacityMW float64 `json:"capacity_mw"`
	Active     bool    `json:"active"`
}

// WeatherSample is a single point-in-time observation or forecast hour
// at a wind farm location. All numeric fields are mandatory; the fetch
// layer guarantees well-formed values before analysis runs.
type WeatherSample struct {
	Timestamp    time.Time `json:"timestamp"`
	WindSpeedMS  float64   `json:"wind_speed_ms"`
	WindGustMS   float64   `json:"wind_gust_ms"`
	WindDirDeg   float64   `json:"wind_direction_deg"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"`
}

// MarineSample is one hour of sea-state forecast at a site.
type MarineSample struct {
	Timestamp        time.Time `json:"timestamp"`
	WaveHeightM      float64   `json:"wave_height_m"`
	WaveDirectionDeg float64   `json:"wave_direction_deg"`
	WavePeriodS      float64   `json:"wave_period_s"`
	SwellHeightM     float64   `json:"swell_wave_height_m"`
}

// GridPoint is a single spatial sample for synoptic analysis. PressureTrend
// is the change in MSL pressure over the grid fetch's look-ahead window.
type GridPoint struct {
	Latitude      float64 `json:"lat"`
	Longitude     float64 `json:"lon"`
	TemperatureC  float64 `json:"temperature"`
	PressureHPa   float64 `json:"pressure"`
	PressureTrend float64 `json:"pressure_trend"`
	WindSpeedMS   float64 `json:"wind_speed"`
	WindDirDeg    float64 `json:"wind_direction"`
	WeatherCode   int     `json:"weather_code"`
}

// GridBounds delimits the region scanned for synoptic features.
type GridBounds struct {
	North float64
	South float64
	West  float64
	East  float64
}
