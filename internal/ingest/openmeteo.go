package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lmarsden/galewatch/internal/httputil"
	"github.com/lmarsden/galewatch/internal/metrics"
	"github.com/lmarsden/galewatch/internal/models"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultMarineURL   = "https://marine-api.open-meteo.com/v1/marine"
)

// Client fetches current conditions and hourly forecasts from Open-Meteo.
// No API key is required.
type Client struct {
	forecastURL string
	marineURL   string
	client      *http.Client
}

func NewClient() *Client {
	return &Client{
		forecastURL: DefaultForecastURL,
		marineURL:   DefaultMarineURL,
		client:      httputil.NewClient(),
	}
}

// NewClientWithURLs is used by tests to point at a stub server.
func NewClientWithURLs(forecastURL, marineURL string) *Client {
	return &Client{
		forecastURL: forecastURL,
		marineURL:   marineURL,
		client:      httputil.NewClient(),
	}
}

type currentResponse struct {
	Current struct {
		Time          string  `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		PressureMSL   float64 `json:"pressure_msl"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection float64 `json:"wind_direction_10m"`
		WindGusts     float64 `json:"wind_gusts_10m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
}

type hourlyResponse struct {
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature   []float64 `json:"temperature_2m"`
		Humidity      []float64 `json:"relative_humidity_2m"`
		PressureMSL   []float64 `json:"pressure_msl"`
		WindSpeed     []float64 `json:"wind_speed_10m"`
		WindDirection []float64 `json:"wind_direction_10m"`
		WindGusts     []float64 `json:"wind_gusts_10m"`
	} `json:"hourly"`
}

type marineResponse struct {
	Hourly struct {
		Time            []string  `json:"time"`
		WaveHeight      []float64 `json:"wave_height"`
		WaveDirection   []float64 `json:"wave_direction"`
		WavePeriod      []float64 `json:"wave_period"`
		SwellWaveHeight []float64 `json:"swell_wave_height"`
	} `json:"hourly"`
}

// FetchCurrent retrieves current conditions at a location.
func (c *Client) FetchCurrent(ctx context.Context, lat, lon float64) (*models.WeatherSample, string, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("current", "temperature_2m,relative_humidity_2m,pressure_msl,weather_code,wind_speed_10m,wind_direction_10m,wind_gusts_10m")
	params.Set("wind_speed_unit", "ms")
	params.Set("timezone", "UTC")

	body, err := c.get(ctx, "current", c.forecastURL+"?"+params.Encode())
	if err != nil {
		return nil, "", err
	}

	var data currentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, "", fmt.Errorf("unmarshal current: %w", err)
	}

	ts, err := parseMeteoTime(data.Current.Time)
	if err != nil {
		return nil, "", fmt.Errorf("parse time: %w", err)
	}

	sample := &models.WeatherSample{
		Timestamp:    ts,
		WindSpeedMS:  data.Current.WindSpeed,
		WindGustMS:   data.Current.WindGusts,
		WindDirDeg:   data.Current.WindDirection,
		TemperatureC: data.Current.Temperature,
		HumidityPct:  data.Current.Humidity,
	}
	return sample, string(body), nil
}

// FetchHourly retrieves an hourly forecast for the next `hours` hours,
// in chronological order.
func (c *Client) FetchHourly(ctx context.Context, lat, lon float64, hours int) ([]models.WeatherSample, string, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("hourly", "temperature_2m,relative_humidity_2m,pressure_msl,wind_speed_10m,wind_direction_10m,wind_gusts_10m")
	params.Set("wind_speed_unit", "ms")
	params.Set("timezone", "UTC")
	params.Set("forecast_hours", fmt.Sprintf("%d", hours))

	body, err := c.get(ctx, "hourly", c.forecastURL+"?"+params.Encode())
	if err != nil {
		return nil, "", err
	}

	var data hourlyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, "", fmt.Errorf("unmarshal hourly: %w", err)
	}

	// The hourly arrays are parallel to the time array but the API does not
	// guarantee equal lengths; clamp to the shortest so a ragged response
	// cannot index out of range.
	n := minLen(
		len(data.Hourly.Time),
		len(data.Hourly.Temperature),
		len(data.Hourly.Humidity),
		len(data.Hourly.WindSpeed),
		len(data.Hourly.WindDirection),
		len(data.Hourly.WindGusts),
	)
	if hours < n {
		n = hours
	}
	samples := make([]models.WeatherSample, 0, n)
	for i := 0; i < n; i++ {
		ts, err := parseMeteoTime(data.Hourly.Time[i])
		if err != nil {
			return nil, "", fmt.Errorf("parse hourly time[%d]: %w", i, err)
		}
		samples = append(samples, models.WeatherSample{
			Timestamp:    ts,
			WindSpeedMS:  data.Hourly.WindSpeed[i],
			WindGustMS:   data.Hourly.WindGusts[i],
			WindDirDeg:   data.Hourly.WindDirection[i],
			TemperatureC: data.Hourly.Temperature[i],
			HumidityPct:  data.Hourly.Humidity[i],
		})
	}
	return samples, string(body), nil
}

// FetchMarine retrieves sea-state forecast hours for an offshore location.
// Marine data is best-effort; callers treat an error here as non-fatal.
func (c *Client) FetchMarine(ctx context.Context, lat, lon float64, hours int) ([]models.MarineSample, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("hourly", "wave_height,wave_direction,wave_period,swell_wave_height")
	params.Set("timezone", "UTC")
	params.Set("forecast_hours", fmt.Sprintf("%d", hours))

	body, err := c.get(ctx, "marine", c.marineURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var data marineResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal marine: %w", err)
	}

	n := minLen(
		len(data.Hourly.Time),
		len(data.Hourly.WaveHeight),
		len(data.Hourly.WaveDirection),
		len(data.Hourly.WavePeriod),
		len(data.Hourly.SwellWaveHeight),
	)
	if hours < n {
		n = hours
	}
	samples := make([]models.MarineSample, 0, n)
	for i := 0; i < n; i++ {
		ts, err := parseMeteoTime(data.Hourly.Time[i])
		if err != nil {
			return nil, fmt.Errorf("parse marine time[%d]: %w", i, err)
		}
		samples = append(samples, models.MarineSample{
			Timestamp:        ts,
			WaveHeightM:      data.Hourly.WaveHeight[i],
			WaveDirectionDeg: data.Hourly.WaveDirection[i],
			WavePeriodS:      data.Hourly.WavePeriod[i],
			SwellHeightM:     data.Hourly.SwellWaveHeight[i],
		})
	}
	return samples, nil
}

// get performs a GET with exponential backoff. Rate limiting and server
// errors retry; other failures are permanent.
func (c *Client) get(ctx context.Context, endpoint, fullURL string) ([]byte, error) {
	var body []byte
	start := time.Now()

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("User-Agent", httputil.UserAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", endpoint, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	err := backoff.Retry(operation, backoff.WithContext(bo, ctx))

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.OpenMeteoCallsTotal.WithLabelValues(endpoint, status).Inc()
	metrics.OpenMeteoLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	return body, nil
}

func minLen(lengths ...int) int {
	n := lengths[0]
	for _, l := range lengths[1:] {
		if l < n {
			n = l
		}
	}
	return n
}

// parseMeteoTime accepts the ISO-8601 minute timestamps Open-Meteo returns
// ("2026-01-15T12:00"), with or without a zone suffix.
func parseMeteoTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", s)
}
