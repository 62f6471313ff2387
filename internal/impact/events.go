package impact

import (
	"time"

	"github.com/lmarsden/galewatch/internal/models"
)

// EventStatus says whether an impact event has already begun.
type EventStatus string

const (
	EventUpcoming EventStatus = "upcoming"
	EventCurrent  EventStatus = "current"
)

// ImpactEvent is a maximal contiguous run of forecast hours with at least one
// issue present. EndTime and DurationHours are nil when the run is still open
// at the end of the forecast window.
type ImpactEvent struct {
	Type          IssueType   `json:"type"`
	Severity      Severity    `json:"severity"`
	StartTime     time.Time   `json:"start_time"`
	EndTime       *time.Time  `json:"end_time"`
	ETAHours      float64     `json:"eta_hours"`
	DurationHours *float64    `json:"duration_hours"`
	Description   string      `json:"description"`
	Status        EventStatus `json:"status"`
}

// ExtractEvents scans an hourly forecast in time order and merges consecutive
// impacted hours into discrete events. The event's type, severity and
// description are taken from the first issue of the first hour of the run and
// are not re-evaluated mid-run even if the issue composition changes.
//
// An empty forecast yields no events; that is not an error.
func ExtractEvents(forecast []models.WeatherSample, now time.Time, th Thresholds) []ImpactEvent {
	var events []ImpactEvent

	inEvent := false
	var start time.Time
	var first Issue

	for _, hour := range forecast {
		status := Classify(hour, th)

		switch {
		case !inEvent && len(status.Issues) > 0:
			inEvent = true
			start = hour.Timestamp
			first = status.Issues[0]

		case inEvent && len(status.Issues) == 0:
			end := hour.Timestamp
			duration := end.Sub(start).Hours()
			events = append(events, ImpactEvent{
				Type:          first.Type,
				Severity:      first.Severity,
				StartTime:     start,
				EndTime:       &end,
				ETAHours:      etaHours(start, now),
				DurationHours: &duration,
				Description:   first.Description,
				Status:        eventStatus(start, now),
			})
			inEvent = false
		}
	}

	// Run still open at the end of the forecast window.
	if inEvent {
		events = append(events, ImpactEvent{
			Type:        first.Type,
			Severity:    first.Severity,
			StartTime:   start,
			ETAHours:    etaHours(start, now),
			Description: first.Description,
			Status:      eventStatus(start, now),
		})
	}

	return events
}

func etaHours(start, now time.Time) float64 {
	eta := start.Sub(now).Hours()
	if eta < 0 {
		return 0
	}
	return eta
}

func eventStatus(start, now time.Time) EventStatus {
	if start.Sub(now) > 0 {
		return EventUpcoming
	}
	return EventCurrent
}
