package health

import (
	"fmt"
	"time"

	"github.com/hydrosense/phealth-backend/model"
)

// DriverEvent switches a segment's driver list once the simulation passes a
// scripted incident day.
type DriverEvent struct {
	Day     int            `yaml:"day" json:"day"`
	Drivers []model.Driver `yaml:"drivers" json:"drivers"`
}

// SegmentProfile is the curated presentation content for one segment:
// score calibration, driver attribution and the status copy shown on the
// dashboard. It is configuration, not model output.
type SegmentProfile struct {
	Calibration Calibration    `yaml:"calibration" json:"calibration"`
	Status      string         `yaml:"status" json:"status"`
	StatusColor string         `yaml:"status_color" json:"status_color"`
	Summary     string         `yaml:"summary" json:"summary"`
	Drivers     []model.Driver `yaml:"drivers" json:"drivers"`
	Event       *DriverEvent   `yaml:"event,omitempty" json:"event,omitempty"`
}

// Mapper resolves segment identity to its profile and formats RUL values
// for display. Segments without a profile get generic scoring and copy.
type Mapper struct {
	profiles map[string]SegmentProfile
	now      func() time.Time
}

// NewMapper builds a mapper over the configured per-segment profiles.
func NewMapper(profiles map[string]SegmentProfile) *Mapper {
	return &Mapper{profiles: profiles, now: time.Now}
}

// HealthScore maps a RUL to the segment's calibrated 0-100 score.
func (m *Mapper) HealthScore(segmentID string, rul float64) float64 {
	if p, ok := m.profiles[segmentID]; ok {
		return p.Calibration.Score(rul)
	}
	return genericScore(rul)
}

// Drivers returns the attributed degradation causes for a segment at the
// given simulation day. Past a scripted event day the event's driver list
// replaces the baseline one.
func (m *Mapper) Drivers(segmentID string, day int) []model.Driver {
	p, ok := m.profiles[segmentID]
	if !ok {
		return nil
	}
	if p.Event != nil && day > p.Event.Day {
		return p.Event.Drivers
	}
	return p.Drivers
}

// DisplayRUL formats a raw RUL into the tiered user-facing view.
func (m *Mapper) DisplayRUL(rul float64) model.RULDisplay {
	var category, displayText, color, urgency string

	switch {
	case rul > 3650:
		category, color, urgency = "Excellent", "emerald", "low"
		displayText = "10+ years"
	case rul > 1825:
		category, color, urgency = "Good", "emerald", "low"
		displayText = fmt.Sprintf("%d years", int(rul/365))
	case rul > 730:
		category, color, urgency = "Fair", "amber", "medium"
		displayText = fmt.Sprintf("%d years", int(rul/365))
	case rul > 365:
		category, color, urgency = "Caution", "amber", "medium"
		displayText = fmt.Sprintf("%d year", int(rul/365))
	case rul > 90:
		category, color, urgency = "Warning", "orange", "high"
		displayText = fmt.Sprintf("%d months", int(rul/30))
	case rul > 30:
		category, color, urgency = "Critical", "rose", "critical"
		displayText = fmt.Sprintf("%d months", int(rul/30))
	default:
		category, color, urgency = "URGENT", "rose", "critical"
		displayText = fmt.Sprintf("%d days", int(rul))
	}

	return model.RULDisplay{
		Category:     category,
		DisplayText:  displayText,
		ExactDays:    int(rul),
		ExpectedDate: m.now().AddDate(0, 0, int(rul)).Format("Jan 2006"),
		Color:        color,
		Urgency:      urgency,
		ConfidenceRange: model.ConfidenceRange{
			Lower:      int(rul * 0.95),
			Upper:      int(rul * 1.05),
			Percentage: 95,
		},
	}
}

// Snapshot assembles the full display-ready view of a segment at one
// moment. Recomputed on every read, never persisted.
func (m *Mapper) Snapshot(segmentID string, day int, rul float64) model.SegmentHealthSnapshot {
	drivers := m.Drivers(segmentID, day)
	names := make([]string, len(drivers))
	for i, d := range drivers {
		names[i] = d.Name
	}

	status, statusColor, summary := "Monitoring", "slate", "Operating within monitored parameters."
	if p, ok := m.profiles[segmentID]; ok {
		status, statusColor, summary = p.Status, p.StatusColor, p.Summary
	}

	return model.SegmentHealthSnapshot{
		SegmentID:    segmentID,
		RUL:          rul,
		RULDisplay:   m.DisplayRUL(rul),
		HealthScore:  m.HealthScore(segmentID, rul),
		Status:       status,
		StatusColor:  statusColor,
		Summary:      summary,
		Drivers:      drivers,
		DriverNames:  names,
		LastUpdated:  m.now().Format("2006-01-02 15:04:05"),
		DataSource:   "simulation",
	}
}
