package impact

import "time"

// Thresholds holds the turbine operating limits the classifier works against.
// Values approximate a typical offshore turbine power curve; tests override
// them to probe boundary behavior.
type Thresholds struct {
	CutInSpeedMS   float64 // minimum wind for generation
	RatedSpeedMS   float64 // nameplate capacity reached
	CutOutSpeedMS  float64 // emergency shutdown
	IcingTempC     float64
	IcingHumidity  float64
	CriticalWindow time.Duration // critical events inside this window escalate to red
	MediumWindow   time.Duration // medium events inside this window escalate to orange
}

// DefaultThresholds returns the standard offshore turbine thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CutInSpeedMS:   3.5,
		RatedSpeedMS:   12.5,
		CutOutSpeedMS:  25.0,
		IcingTempC:     0.0,
		IcingHumidity:  80,
		CriticalWindow: 24 * time.Hour,
		MediumWindow:   12 * time.Hour,
	}
}
