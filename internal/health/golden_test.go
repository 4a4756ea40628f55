package health_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrosense/phealth-backend/internal/config"
	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/simulator"
)

// Drives the healthy demo segment end to end: catalog scenario, simulated
// history, calibrated score. Pins the whole path, not just the halves.
func TestHealthyScenarioScoresExcellentAtStartDay(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "configs", "segments.yaml"))
	require.NoError(t, err)

	seg, ok := cfg.Segment("A-B")
	require.True(t, ok)

	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := simulator.New(seg.Scenario.Profile()).Run(epoch)
	simulator.ApplyAdjustments(records, seg.Scenario.Adjustments)

	rec := records[cfg.Simulation.StartDay-1]
	require.Equal(t, cfg.Simulation.StartDay, rec.Day)

	// Slow corrosion at the 0.0005 override leaves most of the horizon
	// intact at day 180. The exact value trails the naive horizon-minus-day
	// figure because the corrosion rate accelerates with age.
	require.InDelta(t, 13574, rec.RUL, 50)

	mapper := health.NewMapper(cfg.HealthProfiles())

	score := mapper.HealthScore(seg.ID, rec.RUL)
	assert.GreaterOrEqual(t, score, 90.0)
	assert.LessOrEqual(t, score, 100.0)

	assert.Equal(t, "Excellent", mapper.DisplayRUL(rec.RUL).Category)

	snap := mapper.Snapshot(seg.ID, rec.Day, rec.RUL)
	assert.Equal(t, "Optimal Performance", snap.Status)
	assert.Equal(t, "emerald", snap.StatusColor)
}
