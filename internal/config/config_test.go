package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrosense/phealth-backend/model"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "segments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalCatalog = `
segments:
  - id: A-B
    scenario:
      mode: slow_corrosion
      duration_days: 730
      seed: 42
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeCatalog(t, minimalCatalog))
	require.NoError(t, err)

	assert.Equal(t, 180, cfg.Simulation.StartDay)
	assert.Equal(t, 730, cfg.Simulation.MaxDay)
	assert.Equal(t, 2000, cfg.Simulation.TickMillis)
	assert.Equal(t, []string{"A-B"}, cfg.SegmentIDs())
}

func TestLoadShippedCatalog(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "segments.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A-B", "B-C", "C-D", "D-E"}, cfg.SegmentIDs())

	seg, ok := cfg.Segment("C-D")
	require.True(t, ok)
	assert.Equal(t, model.PressureSurge, seg.Scenario.Mode)
	assert.Equal(t, int64(666), seg.Scenario.Seed)
	require.NotNil(t, seg.Scenario.Adjustments)
	require.NotNil(t, seg.Scenario.Adjustments.Event)
	assert.Equal(t, 160, seg.Scenario.Adjustments.Event.AfterDay)
	require.NotNil(t, seg.Health.Event)
	assert.Len(t, seg.Health.Event.Drivers, 4)

	p := seg.Scenario.Profile()
	assert.Equal(t, 5.2, p.InitialPressure)
	assert.Equal(t, 95.0, p.InitialFlow)
	assert.True(t, p.HasLeak)

	ab, ok := cfg.Segment("A-B")
	require.True(t, ok)
	assert.Equal(t, 400.0, ab.Scenario.Adjustments.MinRUL)
	assert.Equal(t, 85.0, ab.Health.Calibration.Floor)
	assert.Equal(t, 0.0005, ab.Scenario.Profile().BaseCorrosionRate)

	profiles := cfg.HealthProfiles()
	assert.Len(t, profiles, 4)
	assert.Equal(t, "Optimal Performance", profiles["A-B"].Status)
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	cases := map[string]string{
		"empty":        "segments: []",
		"duplicate id": minimalCatalog + `
  - id: A-B
    scenario:
      mode: fatigue
      duration_days: 730
      seed: 1
`,
		"short duration": `
segments:
  - id: A-B
    scenario:
      mode: slow_corrosion
      duration_days: 100
      seed: 42
`,
		"bad start day": `
simulation:
  start_day: 900
segments:
  - id: A-B
    scenario:
      mode: slow_corrosion
      duration_days: 730
      seed: 42
`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeCatalog(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
