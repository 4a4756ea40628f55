// Package simulator synthesizes physics-plausible dual-sensor readings for a
// degrading pipeline segment, one day at a time.
package simulator

import (
	"math"
	"math/rand"
	"time"

	"github.com/hydrosense/phealth-backend/model"
)

const (
	baselineAcoustic = 40.0
	leakRampDays     = 50.0
	maxLeakLoss      = 0.3
	minBlockageFlow  = 0.5
)

// Simulator produces DailyRecords for one scenario profile. It owns a seeded
// random source, so two simulators constructed from the same profile emit
// bit-identical sequences. Not safe for concurrent use; one goroutine drives
// one simulator.
type Simulator struct {
	profile model.ScenarioProfile
	rng     *rand.Rand
}

// New creates a simulator for the given profile.
func New(profile model.ScenarioProfile) *Simulator {
	return &Simulator{
		profile: profile,
		rng:     rand.New(rand.NewSource(profile.Seed)),
	}
}

// Profile returns the immutable profile this simulator runs.
func (s *Simulator) Profile() model.ScenarioProfile { return s.profile }

// SimulateDay advances the degradation by one day and produces the record for
// it. The caller threads wall thickness between calls; day is 1-indexed.
func (s *Simulator) SimulateDay(day int, wallThickness float64) model.DailyRecord {
	p := s.profile

	// Corrosion accelerates with age and never self-heals.
	corrosionRate := p.BaseCorrosionRate * (1 + p.CorrosionAcceleration*float64(day))
	newThickness := wallThickness - corrosionRate

	var rul float64
	if newThickness > p.CriticalWallThickness {
		rul = math.Floor((newThickness - p.CriticalWallThickness) / corrosionRate)
	}

	upstream := s.generateReading(day, newThickness, corrosionRate, model.Upstream)
	downstream := s.generateReading(day, newThickness, corrosionRate, model.Downstream)

	return model.DailyRecord{
		Day:           day,
		Upstream:      upstream,
		Downstream:    downstream,
		WallThickness: newThickness,
		CorrosionRate: corrosionRate,
		RUL:           rul,
	}
}

// generateReading draws one sensor's values. Draw order is fixed so that the
// seeded stream stays reproducible: hour, fatigue jitter, spike check, then
// the five noise terms.
func (s *Simulator) generateReading(day int, wallThickness, corrosionRate float64, pos model.SensorPosition) model.SensorReading {
	p := s.profile

	// Pressure capacity falls with the square of remaining wall fraction.
	pressureCapacity := p.InitialPressure * math.Pow(wallThickness/p.InitialWallThickness, 2)
	pressure := pressureCapacity - float64(day)*p.PressureDeclineFactor

	hourOfDay := s.rng.Intn(24)
	pressure += 0.3 * math.Sin(2*math.Pi*float64(hourOfDay)/24)

	if p.PressureCycles {
		pressure += s.rng.NormFloat64() * 0.4
	}

	// Flow follows pressure through a square-root law.
	flow := p.InitialFlow * math.Sqrt(math.Max(pressure, 0)/p.InitialPressure)

	if p.HasBlockage {
		blockageFactor := 1.0 - p.BlockageGrowthRate*float64(day)
		if blockageFactor < minBlockageFlow {
			blockageFactor = minBlockageFlow
		}
		flow *= blockageFactor
	}

	// A leak bleeds pressure and flow, ramping in over leakRampDays and
	// hitting the downstream sensor harder.
	if p.HasLeak && day >= p.LeakStartDay {
		severity := float64(day-p.LeakStartDay) / leakRampDays
		if severity > maxLeakLoss {
			severity = maxLeakLoss
		}
		if pos == model.Downstream {
			pressure *= 1 - severity*1.5
			flow *= 1 - severity
		}
	}

	damage := 1 - wallThickness/p.InitialWallThickness
	acoustic := baselineAcoustic + 50*damage*damage
	if s.rng.Float64() < damage*0.1 {
		acoustic += 10 + s.rng.Float64()*20
	}

	dayOfYear := day % 365
	temperature := 20 + 8*math.Sin(2*math.Pi*float64(dayOfYear)/365)
	temperature += 5 * math.Sin(2*math.Pi*float64(hourOfDay)/24)

	pressure += s.rng.NormFloat64() * 0.05
	flow += s.rng.NormFloat64() * 2.0
	corrosion := corrosionRate + s.rng.NormFloat64()*0.001
	acoustic += s.rng.NormFloat64() * 2.0
	temperature += s.rng.NormFloat64() * 0.5

	return model.SensorReading{
		Pressure:    pressure,
		Flow:        flow,
		Corrosion:   corrosion,
		Acoustic:    acoustic,
		Temperature: temperature,
	}.Clamp()
}

// Run simulates the full scenario from day 1 through the profile duration,
// threading wall thickness and stamping calendar dates from startDate.
func (s *Simulator) Run(startDate time.Time) []model.DailyRecord {
	records := make([]model.DailyRecord, 0, s.profile.DurationDays)
	thickness := s.profile.InitialWallThickness
	date := startDate

	for day := 1; day <= s.profile.DurationDays; day++ {
		rec := s.SimulateDay(day, thickness)
		rec.Date = date
		thickness = rec.WallThickness
		records = append(records, rec)
		date = date.AddDate(0, 0, 1)
	}
	return records
}
