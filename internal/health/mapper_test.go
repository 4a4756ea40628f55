package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrosense/phealth-backend/model"
)

func healthyCalibration() Calibration {
	return Calibration{
		Floor: 85,
		Bands: []Band{
			{MinRUL: 13500, MaxRUL: 14000, MinScore: 92, MaxScore: 95},
			{MinRUL: 13000, MaxRUL: 13500, MinScore: 90, MaxScore: 92},
			{MinRUL: 0, MaxRUL: 13000, MinScore: 0, MaxScore: 90},
		},
	}
}

func criticalCalibration() Calibration {
	return Calibration{
		Floor: 15,
		Bands: []Band{
			{MinRUL: 400, MaxRUL: 599, MinScore: 40, MaxScore: 45},
			{MinRUL: 200, MaxRUL: 400, MinScore: 30, MaxScore: 40},
			{MinRUL: 100, MaxRUL: 200, MinScore: 22, MaxScore: 30},
			{MinRUL: 50, MaxRUL: 100, MinScore: 18, MaxScore: 22},
			{MinRUL: 0, MaxRUL: 50, MinScore: 15, MaxScore: 18},
		},
	}
}

func TestCalibrationScore(t *testing.T) {
	t.Run("band interior", func(t *testing.T) {
		assert.InDelta(t, 93.92, healthyCalibration().Score(13820), 1e-9)
		assert.InDelta(t, 16.8, criticalCalibration().Score(30), 1e-9)
	})

	t.Run("floor clamps the low tail", func(t *testing.T) {
		assert.InDelta(t, 85.0, healthyCalibration().Score(1000), 1e-9)
		assert.InDelta(t, 15.0, criticalCalibration().Score(-10), 1e-9)
	})

	t.Run("extrapolates above the top band but caps at 100", func(t *testing.T) {
		got := healthyCalibration().Score(14500)
		assert.Greater(t, got, 95.0)
		assert.LessOrEqual(t, healthyCalibration().Score(100000), 100.0)
	})

	t.Run("empty calibration falls back to generic curve", func(t *testing.T) {
		assert.InDelta(t, 50.0, Calibration{}.Score(7000), 1e-9)
		assert.Zero(t, Calibration{}.Score(-5))
		assert.Equal(t, 100.0, Calibration{}.Score(20000))
	})
}

func TestHealthScoreUnknownSegmentUsesGenericCurve(t *testing.T) {
	m := NewMapper(nil)
	assert.InDelta(t, 10.0, m.HealthScore("X-Y", 1400), 1e-9)
}

func TestDisplayRULTiers(t *testing.T) {
	m := NewMapper(nil)
	m.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	cases := []struct {
		rul      float64
		category string
		text     string
		color    string
		urgency  string
	}{
		{13820, "Excellent", "10+ years", "emerald", "low"},
		{2200, "Good", "6 years", "emerald", "low"},
		{1000, "Fair", "2 years", "amber", "medium"},
		{500, "Caution", "1 year", "amber", "medium"},
		{200, "Warning", "6 months", "orange", "high"},
		{60, "Critical", "2 months", "rose", "critical"},
		{12, "URGENT", "12 days", "rose", "critical"},
	}

	for _, tc := range cases {
		d := m.DisplayRUL(tc.rul)
		assert.Equal(t, tc.category, d.Category, "rul=%v", tc.rul)
		assert.Equal(t, tc.text, d.DisplayText, "rul=%v", tc.rul)
		assert.Equal(t, tc.color, d.Color, "rul=%v", tc.rul)
		assert.Equal(t, tc.urgency, d.Urgency, "rul=%v", tc.rul)
		assert.Equal(t, int(tc.rul), d.ExactDays)
		assert.Equal(t, int(tc.rul*0.95), d.ConfidenceRange.Lower)
		assert.Equal(t, int(tc.rul*1.05), d.ConfidenceRange.Upper)
		assert.Equal(t, 95, d.ConfidenceRange.Percentage)
	}
}

func TestDisplayRULExpectedDate(t *testing.T) {
	m := NewMapper(nil)
	m.now = func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }

	d := m.DisplayRUL(60)
	assert.Equal(t, "Mar 2026", d.ExpectedDate)
}

func TestDriversSwitchAtEventDay(t *testing.T) {
	before := []model.Driver{{Name: "Elevated Corrosion", Impact: 35}}
	after := []model.Driver{
		{Name: "Pressure Surge Event", Impact: 82, EventDay: 160},
		{Name: "Severe Corrosion", Impact: 75},
	}
	m := NewMapper(map[string]SegmentProfile{
		"C-D": {
			Drivers: before,
			Event:   &DriverEvent{Day: 160, Drivers: after},
		},
	})

	assert.Equal(t, before, m.Drivers("C-D", 100))
	assert.Equal(t, before, m.Drivers("C-D", 160), "event day itself still shows the baseline")
	assert.Equal(t, after, m.Drivers("C-D", 161))
	assert.Nil(t, m.Drivers("unknown", 200))
}

func TestSnapshotAssembly(t *testing.T) {
	m := NewMapper(map[string]SegmentProfile{
		"A-B": {
			Calibration: healthyCalibration(),
			Status:      "Optimal Performance",
			StatusColor: "emerald",
			Summary:     "Maintained at peak condition.",
			Drivers: []model.Driver{
				{Name: "Minimal Corrosion", Impact: 12},
				{Name: "Stable Pressure", Impact: 8},
			},
		},
	})
	m.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	snap := m.Snapshot("A-B", 300, 13820)

	assert.Equal(t, "A-B", snap.SegmentID)
	assert.InDelta(t, 93.92, snap.HealthScore, 1e-9)
	assert.Equal(t, "Optimal Performance", snap.Status)
	assert.Equal(t, "emerald", snap.StatusColor)
	assert.Equal(t, []string{"Minimal Corrosion", "Stable Pressure"}, snap.DriverNames)
	assert.Equal(t, "simulation", snap.DataSource)
	assert.Equal(t, "2026-03-01 09:30:00", snap.LastUpdated)
	require.Equal(t, "Excellent", snap.RULDisplay.Category)

	generic := m.Snapshot("Z-Z", 10, 7000)
	assert.Equal(t, "Monitoring", generic.Status)
	assert.Equal(t, "slate", generic.StatusColor)
	assert.Empty(t, generic.Drivers)
}
