package impact

import (
	"testing"
	"time"

	"github.com/lmarsden/galewatch/internal/models"
)

func hourly(base time.Time, speeds ...float64) []models.WeatherSample {
	forecast := make([]models.WeatherSample, len(speeds))
	for i, s := range speeds {
		forecast[i] = models.WeatherSample{
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			WindSpeedMS:  s,
			WindGustMS:   s,
			WindDirDeg:   270,
			TemperatureC: 10,
			HumidityPct:  50,
		}
	}
	return forecast
}

func TestExtractEvents_SingleClosedEvent(t *testing.T) {
	th := DefaultThresholds()
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	now := base.Add(-2 * time.Hour)

	// ok, bad, bad, ok: one event spanning the two bad hours.
	events := ExtractEvents(hourly(base, 8, 30, 30, 8), now, th)

	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != IssueCutOut {
		t.Errorf("Type = %v, want %v", ev.Type, IssueCutOut)
	}
	if ev.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want %v", ev.Severity, SeverityCritical)
	}
	wantStart := base.Add(1 * time.Hour)
	if !ev.StartTime.Equal(wantStart) {
		t.Errorf("StartTime = %v, want %v", ev.StartTime, wantStart)
	}
	wantEnd := base.Add(3 * time.Hour)
	if ev.EndTime == nil || !ev.EndTime.Equal(wantEnd) {
		t.Errorf("EndTime = %v, want %v", ev.EndTime, wantEnd)
	}
	if ev.DurationHours == nil || *ev.DurationHours != 2.0 {
		t.Errorf("DurationHours = %v, want 2.0", ev.DurationHours)
	}
	if ev.ETAHours != 3.0 {
		t.Errorf("ETAHours = %v, want 3.0", ev.ETAHours)
	}
	if ev.Status != EventUpcoming {
		t.Errorf("Status = %v, want %v", ev.Status, EventUpcoming)
	}
}

func TestExtractEvents_OpenEnded(t *testing.T) {
	th := DefaultThresholds()
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	events := ExtractEvents(hourly(base, 30, 30, 30), base, th)

	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.EndTime != nil {
		t.Errorf("EndTime = %v, want nil for open-ended event", ev.EndTime)
	}
	if ev.DurationHours != nil {
		t.Errorf("DurationHours = %v, want nil for open-ended event", ev.DurationHours)
	}
	if ev.ETAHours != 0 {
		t.Errorf("ETAHours = %v, want 0", ev.ETAHours)
	}
	if ev.Status != EventCurrent {
		t.Errorf("Status = %v, want %v", ev.Status, EventCurrent)
	}
}

func TestExtractEvents_MultipleEvents(t *testing.T) {
	th := DefaultThresholds()
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	// Two separated impacted runs: low wind then cut-out.
	events := ExtractEvents(hourly(base, 15, 2, 2, 15, 30, 15), base, th)

	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Type != IssueCutIn {
		t.Errorf("events[0].Type = %v, want %v", events[0].Type, IssueCutIn)
	}
	if events[1].Type != IssueCutOut {
		t.Errorf("events[1].Type = %v, want %v", events[1].Type, IssueCutOut)
	}
	if !events[0].StartTime.Before(events[1].StartTime) {
		t.Error("events not in chronological order")
	}
	// No overlap: first event closes before the second opens.
	if events[0].EndTime == nil {
		t.Fatal("events[0].EndTime = nil, want closed")
	}
	if events[0].EndTime.After(events[1].StartTime) {
		t.Error("events overlap in time")
	}
}

func TestExtractEvents_TypeFrozenAtFirstHour(t *testing.T) {
	th := DefaultThresholds()
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	// Run starts with low wind, then shifts to cut-out without a clean hour
	// in between: the event keeps the first hour's type and severity.
	events := ExtractEvents(hourly(base, 2, 30, 30, 15), base, th)

	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Type != IssueCutIn {
		t.Errorf("Type = %v, want %v (first hour of run)", events[0].Type, IssueCutIn)
	}
	if events[0].Severity != SeverityLow {
		t.Errorf("Severity = %v, want %v", events[0].Severity, SeverityLow)
	}
}

func TestExtractEvents_ETAFlooredAtZero(t *testing.T) {
	th := DefaultThresholds()
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	now := base.Add(6 * time.Hour) // event already started

	events := ExtractEvents(hourly(base, 30, 30, 8), now, th)

	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].ETAHours != 0 {
		t.Errorf("ETAHours = %v, want 0 (floored)", events[0].ETAHours)
	}
	if events[0].Status != EventCurrent {
		t.Errorf("Status = %v, want %v", events[0].Status, EventCurrent)
	}
}

func TestExtractEvents_EmptyForecast(t *testing.T) {
	events := ExtractEvents(nil, time.Now(), DefaultThresholds())
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}

func TestExtractEvents_AllClear(t *testing.T) {
	base := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	events := ExtractEvents(hourly(base, 14, 15, 16, 15), base, DefaultThresholds())
	if len(events) != 0 {
		t.Errorf("len(events) = %d, want 0", len(events))
	}
}
