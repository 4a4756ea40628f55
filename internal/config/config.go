// Package config loads the segment catalog: which scenarios to simulate and
// how to present them. Runtime knobs (port, paths) stay environment
// variables; this file is the demo's curated content.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/hydrosense/phealth-backend/internal/health"
	"github.com/hydrosense/phealth-backend/internal/simulator"
	"github.com/hydrosense/phealth-backend/model"
)

// Simulation holds the replay clock settings shared by all segments.
type Simulation struct {
	StartDay   int `yaml:"start_day"`
	MaxDay     int `yaml:"max_day"`
	TickMillis int `yaml:"tick_millis"`
}

// Scenario describes how one segment's history is generated.
type Scenario struct {
	Mode         model.FailureMode       `yaml:"mode"`
	DurationDays int                     `yaml:"duration_days"`
	Seed         int64                   `yaml:"seed"`
	Overrides    *model.ProfileOverrides `yaml:"overrides,omitempty"`
	Adjustments  *simulator.Adjustments  `yaml:"adjustments,omitempty"`
}

// Profile builds the immutable scenario profile for this segment.
func (s Scenario) Profile() model.ScenarioProfile {
	return model.NewScenarioProfile(s.Mode, s.DurationDays, s.Seed, s.Overrides)
}

// Segment couples a segment identity with its scenario and its curated
// health presentation.
type Segment struct {
	ID       string                `yaml:"id"`
	Scenario Scenario              `yaml:"scenario"`
	Health   health.SegmentProfile `yaml:"health"`
}

// Config is the full segment catalog.
type Config struct {
	Simulation Simulation `yaml:"simulation"`
	Segments   []Segment  `yaml:"segments"`
}

const (
	defaultStartDay   = 180
	defaultMaxDay     = 730
	defaultTickMillis = 2000
)

// Load reads and validates the catalog at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segment catalog: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse segment catalog %s: %w", path, err)
	}

	if cfg.Simulation.StartDay == 0 {
		cfg.Simulation.StartDay = defaultStartDay
	}
	if cfg.Simulation.MaxDay == 0 {
		cfg.Simulation.MaxDay = defaultMaxDay
	}
	if cfg.Simulation.TickMillis == 0 {
		cfg.Simulation.TickMillis = defaultTickMillis
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid segment catalog %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Segments) == 0 {
		return fmt.Errorf("no segments defined")
	}
	if c.Simulation.StartDay < 1 || c.Simulation.StartDay > c.Simulation.MaxDay {
		return fmt.Errorf("start_day %d outside [1, %d]", c.Simulation.StartDay, c.Simulation.MaxDay)
	}

	seen := make(map[string]bool, len(c.Segments))
	for _, seg := range c.Segments {
		if seg.ID == "" {
			return fmt.Errorf("segment with empty id")
		}
		if seen[seg.ID] {
			return fmt.Errorf("duplicate segment id %q", seg.ID)
		}
		seen[seg.ID] = true
		if seg.Scenario.DurationDays < 1 {
			return fmt.Errorf("segment %s: duration_days must be positive", seg.ID)
		}
		if seg.Scenario.DurationDays < c.Simulation.MaxDay {
			return fmt.Errorf("segment %s: duration_days %d shorter than simulation max_day %d",
				seg.ID, seg.Scenario.DurationDays, c.Simulation.MaxDay)
		}
	}
	return nil
}

// Segment returns the catalog entry for id.
func (c *Config) Segment(id string) (Segment, bool) {
	for _, seg := range c.Segments {
		if seg.ID == id {
			return seg, true
		}
	}
	return Segment{}, false
}

// SegmentIDs lists segment identifiers in catalog order.
func (c *Config) SegmentIDs() []string {
	ids := make([]string, len(c.Segments))
	for i, seg := range c.Segments {
		ids[i] = seg.ID
	}
	return ids
}

// HealthProfiles extracts the per-segment presentation map for the mapper.
func (c *Config) HealthProfiles() map[string]health.SegmentProfile {
	profiles := make(map[string]health.SegmentProfile, len(c.Segments))
	for _, seg := range c.Segments {
		profiles[seg.ID] = seg.Health
	}
	return profiles
}
