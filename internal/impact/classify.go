package impact

import (
	"fmt"
	"math"
	"time"

	"github.com/lmarsden/galewatch/internal/models"
)

// Status labels for a turbine at a point in time.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusIdle       Status = "idle"
	StatusSubOptimal Status = "sub_optimal"
	StatusIcingRisk  Status = "icing_risk"
	StatusShutdown   Status = "shutdown"
)

// Color is the marker tier consumed by map clients, ordered by severity.
type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

// IssueType identifies what triggered an operational issue.
type IssueType string

const (
	IssueCutIn      IssueType = "cut_in"
	IssueCutOut     IssueType = "cut_out"
	IssueSubOptimal IssueType = "sub_optimal"
	IssueIcing      IssueType = "icing"
)

// Severity of an issue.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityCritical Severity = "critical"
)

// Issue is one operational problem detected in a sample. Order of issues in
// an OperationalStatus reflects evaluation order, not severity.
type Issue struct {
	Type        IssueType `json:"type"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	WindSpeedMS float64   `json:"wind_speed,omitempty"`
	TempC       float64   `json:"temperature,omitempty"`
	HumidityPct float64   `json:"humidity,omitempty"`
}

// OperationalStatus is the classification of one weather sample.
type OperationalStatus struct {
	Timestamp      time.Time `json:"timestamp"`
	Operational    bool      `json:"operational"`
	CapacityFactor float64   `json:"capacity_factor"`
	Status         Status    `json:"status"`
	Color          Color     `json:"color"`
	Issues         []Issue   `json:"issues"`
}

// Classify maps one weather sample to an operational status. It is pure and
// total: out-of-range inputs are treated as valid extreme values.
//
// Cut-out takes priority over every other wind branch: either sustained speed
// or gust at/above cut-out forces a shutdown and skips the idle/sub-optimal
// checks. The icing check runs regardless of the wind branch but never
// overrides an existing red.
func Classify(sample models.WeatherSample, th Thresholds) OperationalStatus {
	speed := sample.WindSpeedMS
	gust := sample.WindGustMS

	status := OperationalStatus{
		Timestamp:      sample.Timestamp,
		Operational:    true,
		CapacityFactor: 1.0,
		Status:         StatusNormal,
		Color:          ColorGreen,
	}

	switch {
	case gust >= th.CutOutSpeedMS || speed >= th.CutOutSpeedMS:
		status.Operational = false
		status.CapacityFactor = 0
		status.Status = StatusShutdown
		status.Color = ColorRed
		status.Issues = append(status.Issues, Issue{
			Type:        IssueCutOut,
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("High winds: %.1f m/s (gusts %.1f m/s) - Emergency shutdown", speed, gust),
			WindSpeedMS: speed,
		})

	case speed < th.CutInSpeedMS:
		// Turbine spinning but below generation threshold.
		status.CapacityFactor = 0
		status.Status = StatusIdle
		status.Color = ColorYellow
		status.Issues = append(status.Issues, Issue{
			Type:        IssueCutIn,
			Severity:    SeverityLow,
			Description: fmt.Sprintf("Low wind: %.1f m/s - No generation", speed),
			WindSpeedMS: speed,
		})

	case speed < th.RatedSpeedMS:
		cf := CapacityFactor(speed, th)
		status.CapacityFactor = cf
		status.Status = StatusSubOptimal
		status.Color = ColorYellow
		status.Issues = append(status.Issues, Issue{
			Type:        IssueSubOptimal,
			Severity:    SeverityLow,
			Description: fmt.Sprintf("Below rated speed: %.1f m/s - %.0f%% capacity", speed, cf*100),
			WindSpeedMS: speed,
		})
	}

	if sample.TemperatureC <= th.IcingTempC && sample.HumidityPct >= th.IcingHumidity {
		status.Issues = append(status.Issues, Issue{
			Type:        IssueIcing,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Icing risk: %.1f°C @ %.0f%% humidity", sample.TemperatureC, sample.HumidityPct),
			TempC:       sample.TemperatureC,
			HumidityPct: sample.HumidityPct,
		})
		if status.Color != ColorRed {
			status.Color = ColorOrange
			status.Status = StatusIcingRisk
		}
	}

	return status
}

// CapacityFactor estimates deliverable capacity (0..1) from wind speed using
// a cubic power-curve approximation between cut-in and rated speed.
func CapacityFactor(speedMS float64, th Thresholds) float64 {
	switch {
	case speedMS < th.CutInSpeedMS:
		return 0
	case speedMS >= th.RatedSpeedMS:
		return 1
	default:
		normalized := (speedMS - th.CutInSpeedMS) / (th.RatedSpeedMS - th.CutInSpeedMS)
		return math.Pow(normalized, 3)
	}
}
