package impact

import "fmt"

// OverallStatus pairs current conditions with the forecast event timeline and
// a single priority issue for the site marker.
type OverallStatus struct {
	Current        OperationalStatus `json:"current"`
	UpcomingEvents []ImpactEvent     `json:"upcoming_events"`
	PriorityColor  Color             `json:"priority_color"`
	PriorityIssue  *Issue            `json:"priority_issue"`
}

// Aggregate combines a current classification with extracted forecast events.
//
// The first critical event inside the critical window forces red and stops the
// scan; later critical events are ignored even if sooner. Medium events inside
// the medium window escalate to orange (never downgrading red) and keep
// scanning, so the last qualifying medium event wins.
func Aggregate(current OperationalStatus, events []ImpactEvent, th Thresholds) OverallStatus {
	overall := OverallStatus{
		Current:        current,
		UpcomingEvents: events,
		PriorityColor:  current.Color,
	}
	if len(current.Issues) > 0 {
		issue := current.Issues[0]
		overall.PriorityIssue = &issue
	}

	criticalHours := th.CriticalWindow.Hours()
	mediumHours := th.MediumWindow.Hours()

	for _, event := range events {
		if event.Severity == SeverityCritical && event.ETAHours < criticalHours {
			overall.PriorityColor = ColorRed
			overall.PriorityIssue = escalatedIssue(event)
			break
		}
		if event.Severity == SeverityMedium && event.ETAHours < mediumHours {
			if overall.PriorityColor != ColorRed {
				overall.PriorityColor = ColorOrange
				overall.PriorityIssue = escalatedIssue(event)
			}
		}
	}

	return overall
}

func escalatedIssue(event ImpactEvent) *Issue {
	return &Issue{
		Type:        event.Type,
		Severity:    event.Severity,
		Description: fmt.Sprintf("%s (ETA: %.1fh)", event.Description, event.ETAHours),
	}
}

// FleetSummary aggregates site statuses for the whole fleet.
type FleetSummary struct {
	Farms           int               `json:"farms"`
	ByColor         map[Color]int     `json:"by_color"`
	TotalCapacityMW float64           `json:"total_capacity_mw"`
	CurrentOutputMW float64           `json:"current_output_mw"`
	OutputFraction  float64           `json:"output_fraction"`
	Sites           map[string]Status `json:"sites"`
}

// Summarize rolls per-site overall statuses into fleet totals. capacities maps
// site name to nameplate MW; sites missing from it contribute no capacity.
func Summarize(statuses map[string]OverallStatus, capacities map[string]float64) FleetSummary {
	summary := FleetSummary{
		Farms:   len(statuses),
		ByColor: map[Color]int{ColorGreen: 0, ColorYellow: 0, ColorOrange: 0, ColorRed: 0},
		Sites:   make(map[string]Status, len(statuses)),
	}

	for name, st := range statuses {
		summary.ByColor[st.PriorityColor]++
		summary.Sites[name] = st.Current.Status
		if mw, ok := capacities[name]; ok {
			summary.TotalCapacityMW += mw
			summary.CurrentOutputMW += mw * st.Current.CapacityFactor
		}
	}

	if summary.TotalCapacityMW > 0 {
		summary.OutputFraction = summary.CurrentOutputMW / summary.TotalCapacityMW
	}

	return summary
}
