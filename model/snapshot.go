package model

// ConfidenceRange is the ±5% band around a raw RUL estimate.
type ConfidenceRange struct {
	Lower      int `json:"lower"`
	Upper      int `json:"upper"`
	Percentage int `json:"percentage"`
}

// RULDisplay is the user-facing formatting of a raw RUL value.
type RULDisplay struct {
	Category        string          `json:"category"`
	DisplayText     string          `json:"display_text"`
	ExactDays       int             `json:"exact_days"`
	ExpectedDate    string          `json:"expected_date"`
	Color           string          `json:"color"`
	Urgency         string          `json:"urgency"`
	ConfidenceRange ConfidenceRange `json:"confidence_range"`
}

// Driver is one attributed degradation cause. The set is a curated lookup
// keyed by segment identity, not a statistical attribution; callers must not
// read it as true model feature importance.
type Driver struct {
	Name     string `json:"name" yaml:"name"`
	Impact   int    `json:"impact" yaml:"impact"`
	Severity string `json:"severity" yaml:"severity"`
	Details  string `json:"details" yaml:"details"`
	Trend    string `json:"trend" yaml:"trend"`
	Timeline string `json:"timeline" yaml:"timeline"`
	Color    string `json:"color" yaml:"color"`
	EventDay int    `json:"event_day,omitempty" yaml:"event_day,omitempty"`
}

// SegmentHealthSnapshot is the display-ready view of one segment at one
// moment. It is recomputed on every read and never persisted.
type SegmentHealthSnapshot struct {
	SegmentID    string     `json:"segment_id"`
	RUL          float64    `json:"rul"`
	RULDisplay   RULDisplay `json:"rul_display"`
	HealthScore  float64    `json:"health_score"`
	Status       string     `json:"status"`
	StatusColor  string     `json:"status_color"`
	Summary      string     `json:"summary"`
	Drivers      []Driver   `json:"drivers"`
	DriverNames  []string   `json:"driver_names"`
	LastUpdated  string     `json:"last_updated"`
	DataSource   string     `json:"data_source"`
}

// HistoryPoint is one chart row of a segment's scored history.
type HistoryPoint struct {
	Day       string  `json:"day"`
	Score     float64 `json:"score"`
	RUL       float64 `json:"rul"`
	Corrosion float64 `json:"corrosion"`
}
