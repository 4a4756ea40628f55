// Package model - domain types shared across the simulator, feature engine and serving layer.
package model

// FailureMode identifies the degradation pattern a scenario follows.
type FailureMode string

// Closed set of supported failure modes.
const (
	SlowCorrosion FailureMode = "slow_corrosion"
	FastCorrosion FailureMode = "fast_corrosion"
	Fatigue       FailureMode = "fatigue"
	Blockage      FailureMode = "blockage"
	PressureSurge FailureMode = "pressure_surge"
	Combined      FailureMode = "combined"
)

// ScenarioProfile is the immutable parametric description of one simulated
// segment. It is created once per segment and never mutated afterwards;
// changing it mid-run would invalidate reproducibility of the seeded stream.
type ScenarioProfile struct {
	Mode         FailureMode `json:"mode" yaml:"mode"`
	DurationDays int         `json:"duration_days" yaml:"duration_days"`
	Seed         int64       `json:"seed" yaml:"seed"`

	InitialWallThickness  float64 `json:"initial_wall_thickness" yaml:"initial_wall_thickness"`
	CriticalWallThickness float64 `json:"critical_wall_thickness" yaml:"critical_wall_thickness"`
	InitialPressure       float64 `json:"initial_pressure" yaml:"initial_pressure"`
	InitialFlow           float64 `json:"initial_flow" yaml:"initial_flow"`

	BaseCorrosionRate     float64 `json:"base_corrosion_rate" yaml:"base_corrosion_rate"`
	CorrosionAcceleration float64 `json:"corrosion_acceleration" yaml:"corrosion_acceleration"`
	PressureDeclineFactor float64 `json:"pressure_decline_factor" yaml:"pressure_decline_factor"`

	PressureCycles     bool    `json:"pressure_cycles" yaml:"pressure_cycles"`
	HasLeak            bool    `json:"has_leak" yaml:"has_leak"`
	LeakStartDay       int     `json:"leak_start_day,omitempty" yaml:"leak_start_day,omitempty"`
	HasBlockage        bool    `json:"has_blockage" yaml:"has_blockage"`
	BlockageGrowthRate float64 `json:"blockage_growth_rate,omitempty" yaml:"blockage_growth_rate,omitempty"`

	NoiseScale float64 `json:"noise_scale" yaml:"noise_scale"`
}

// ProfileOverrides carries optional per-segment tuning applied on top of the
// failure-mode defaults at construction time.
type ProfileOverrides struct {
	WallThickness     float64 `yaml:"wall_thickness,omitempty"`
	Pressure          float64 `yaml:"pressure,omitempty"`
	Flow              float64 `yaml:"flow,omitempty"`
	BaseCorrosionRate float64 `yaml:"corrosion,omitempty"`
	NoiseScale        float64 `yaml:"noise,omitempty"`
}

// NewScenarioProfile builds a profile with the canonical per-mode degradation
// parameters, then applies any overrides. Unknown modes fall through to the
// combined parameter set, matching the generator's historical behavior.
func NewScenarioProfile(mode FailureMode, durationDays int, seed int64, ov *ProfileOverrides) ScenarioProfile {
	p := ScenarioProfile{
		Mode:                  mode,
		DurationDays:          durationDays,
		Seed:                  seed,
		InitialWallThickness:  10.0,
		CriticalWallThickness: 3.0,
		InitialPressure:       5.0,
		InitialFlow:           200.0,
		NoiseScale:            0.05,
	}

	switch mode {
	case SlowCorrosion:
		p.BaseCorrosionRate = 0.008
		p.CorrosionAcceleration = 0.0001
		p.PressureDeclineFactor = 0.0008
	case FastCorrosion:
		p.BaseCorrosionRate = 0.025
		p.CorrosionAcceleration = 0.0003
		p.PressureDeclineFactor = 0.0015
	case Fatigue:
		p.BaseCorrosionRate = 0.012
		p.CorrosionAcceleration = 0.0002
		p.PressureDeclineFactor = 0.001
		p.PressureCycles = true
	case Blockage:
		p.BaseCorrosionRate = 0.008
		p.CorrosionAcceleration = 0.0001
		p.PressureDeclineFactor = 0.0005
		p.HasBlockage = true
		p.BlockageGrowthRate = 0.002
	case PressureSurge:
		p.BaseCorrosionRate = 0.020
		p.CorrosionAcceleration = 0.0004
		p.PressureDeclineFactor = 0.002
		p.HasLeak = true
		p.LeakStartDay = int(float64(durationDays) * 0.6)
	default: // Combined
		p.BaseCorrosionRate = 0.015
		p.CorrosionAcceleration = 0.0002
		p.PressureDeclineFactor = 0.0012
		p.HasLeak = true
		p.LeakStartDay = int(float64(durationDays) * 0.7)
		p.HasBlockage = true
		p.BlockageGrowthRate = 0.001
	}

	if ov != nil {
		if ov.WallThickness > 0 {
			p.InitialWallThickness = ov.WallThickness
		}
		if ov.Pressure > 0 {
			p.InitialPressure = ov.Pressure
		}
		if ov.Flow > 0 {
			p.InitialFlow = ov.Flow
		}
		if ov.BaseCorrosionRate > 0 {
			p.BaseCorrosionRate = ov.BaseCorrosionRate
		}
		if ov.NoiseScale > 0 {
			p.NoiseScale = ov.NoiseScale
		}
	}

	return p
}
