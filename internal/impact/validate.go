package impact

import (
	"fmt"
	"math"

	"github.com/lmarsden/galewatch/internal/models"
)

// ValidateSample rejects samples the classifier cannot handle: zero
// timestamps and non-finite numeric fields.
func ValidateSample(s models.WeatherSample) error {
	if s.Timestamp.IsZero() {
		return fmt.Errorf("sample missing timestamp")
	}

	fields := map[string]float64{
		"wind_speed_ms":      s.WindSpeedMS,
		"wind_gust_ms":       s.WindGustMS,
		"wind_direction_deg": s.WindDirDeg,
		"temperature_c":      s.TemperatureC,
		"humidity_pct":       s.HumidityPct,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sample field %s is not finite: %v", name, v)
		}
	}

	return nil
}

// ValidateForecast applies ValidateSample to every hour, reporting the first
// offending index.
func ValidateForecast(forecast []models.WeatherSample) error {
	for i, s := range forecast {
		if err := ValidateSample(s); err != nil {
			return fmt.Errorf("forecast hour %d: %w", i, err)
		}
	}
	return nil
}
