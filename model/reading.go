package model

import "time"

// SensorPosition distinguishes the two monitoring points of a segment.
type SensorPosition string

// A segment carries one sensor at each end.
const (
	Upstream   SensorPosition = "upstream"
	Downstream SensorPosition = "downstream"
)

// SensorReading is one sensor's values for a single day, already clamped to
// physical bounds. Immutable once produced.
type SensorReading struct {
	Pressure    float64 `json:"pressure"`
	Flow        float64 `json:"flow"`
	Corrosion   float64 `json:"corrosion"`
	Acoustic    float64 `json:"acoustic"`
	Temperature float64 `json:"temperature"`
}

// Clamp forces every channel into its realistic physical range. Out-of-range
// synthetic values are clamped, not rejected.
func (r SensorReading) Clamp() SensorReading {
	r.Pressure = clamp(r.Pressure, 1.5, 6.0)
	r.Flow = clamp(r.Flow, 50, 250)
	if r.Corrosion < 0.005 {
		r.Corrosion = 0.005
	}
	r.Acoustic = clamp(r.Acoustic, 35, 120)
	r.Temperature = clamp(r.Temperature, 5, 35)
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DailyRecord is one row of a segment's history: both sensor readings plus
// the degradation state for that day. At most one record exists per
// (segment, day).
type DailyRecord struct {
	Day           int           `json:"day"`
	Date          time.Time     `json:"date"`
	Upstream      SensorReading `json:"upstream"`
	Downstream    SensorReading `json:"downstream"`
	WallThickness float64       `json:"wall_thickness"`
	CorrosionRate float64       `json:"corrosion_rate"`
	RUL           float64       `json:"rul"`
}
