// Package features expands raw per-day segment history into the wide feature
// table the RUL model consumes: multi-horizon rolling statistics per channel
// plus cross-sensor differentials.
package features

import (
	"math"

	"github.com/hydrosense/phealth-backend/model"
)

// warmupDays is the longest trailing window. Rows without a full 90-day
// history cannot be engineered and are excluded from the output; letting them
// through would hand the model default-filled windows to train on.
const warmupDays = 90

// Ratio denominators are offset by a small epsilon so that a near-zero
// reading does not amplify into an unbounded feature.
const (
	epsilon          = 0.001
	corrosionEpsilon = 0.0001
)

// segmentLengthKm converts the pressure drop between sensors into a gradient.
const segmentLengthKm = 0.5

var metricNames = [5]string{"pressure", "flow", "corrosion", "acoustic", "temperature"}

// Position suffixes in serialized feature names: A = upstream, B = downstream.
var positionSuffixes = [2]string{"A", "B"}

// Engineer computes feature vectors for one segment's history at a time.
// Mixing rows from different segments into one call is a correctness
// violation (cross-scenario leakage), not a quality concern; the API takes a
// single ordered history to make that hard to do by accident.
//
// The first invocation freezes the canonical feature name list; all later
// rows share it, which is what the inference layer aligns columns against.
type Engineer struct {
	featureNames []string
}

// NewEngineer returns an Engineer with no frozen name list yet.
func NewEngineer() *Engineer {
	return &Engineer{}
}

// FeatureNames returns the canonical ordered name list, or nil before the
// first EngineerFeatures call.
func (e *Engineer) FeatureNames() []string {
	return e.featureNames
}

// EngineerFeatures expands an ordered single-segment history into feature
// vectors, one per day that has a complete 90-day trailing window. For a
// history of length n it returns max(0, n-90) rows, preserving day order.
func (e *Engineer) EngineerFeatures(segmentID string, history []model.DailyRecord) []model.FeatureVector {
	if len(history) <= warmupDays {
		return nil
	}

	// 10 base channels laid out position-major, matching the serialized
	// column order: pressure_A..temperature_A, pressure_B..temperature_B.
	channels := make([][]float64, 0, 10)
	for pi := range positionSuffixes {
		for mi := range metricNames {
			series := make([]float64, len(history))
			for i, rec := range history {
				series[i] = channelValue(rec, pi, mi)
			}
			channels = append(channels, series)
		}
	}

	if e.featureNames == nil {
		e.featureNames = buildFeatureNames()
	}

	out := make([]model.FeatureVector, 0, len(history)-warmupDays)
	for i := warmupDays; i < len(history); i++ {
		values := make([]float64, 0, len(e.featureNames))

		// Raw readings.
		for c := range channels {
			values = append(values, channels[c][i])
		}
		// Trailing means over 7, 30 and 90 days.
		for c := range channels {
			values = append(values,
				trailingMean(channels[c], i, 7),
				trailingMean(channels[c], i, 30),
				trailingMean(channels[c], i, 90),
			)
		}
		// Trailing sample standard deviations over 7 and 30 days. The
		// 90-day std is omitted by design; it adds nothing over the
		// 30-day window at this noise scale.
		for c := range channels {
			values = append(values,
				trailingStd(channels[c], i, 7),
				trailingStd(channels[c], i, 30),
			)
		}
		// Deltas: value minus the value 7, 30 and 90 days prior.
		for c := range channels {
			values = append(values,
				channels[c][i]-channels[c][i-7],
				channels[c][i]-channels[c][i-30],
				channels[c][i]-channels[c][i-90],
			)
		}

		values = append(values, differentials(history[i])...)

		out = append(out, model.FeatureVector{
			SegmentID: segmentID,
			Day:       history[i].Day,
			Date:      history[i].Date,
			Names:     e.featureNames,
			Values:    values,
			RUL:       history[i].RUL,
		})
	}
	return out
}

// differentials computes the 15 cross-sensor features for one record.
func differentials(rec model.DailyRecord) []float64 {
	a, b := rec.Upstream, rec.Downstream

	pressureDrop := a.Pressure - b.Pressure
	flowPressureA := a.Flow / (a.Pressure + epsilon)
	flowPressureB := b.Flow / (b.Pressure + epsilon)

	return []float64{
		pressureDrop,
		pressureDrop / segmentLengthKm,
		b.Pressure / (a.Pressure + epsilon),

		a.Flow - b.Flow,
		b.Flow / (a.Flow + epsilon),
		(a.Flow - b.Flow) / (a.Flow + epsilon) * 100,

		b.Corrosion - a.Corrosion,
		b.Corrosion / (a.Corrosion + corrosionEpsilon),

		b.Acoustic - a.Acoustic,
		b.Acoustic / (a.Acoustic + epsilon),

		b.Temperature - a.Temperature,
		(a.Temperature + b.Temperature) / 2,

		flowPressureA,
		flowPressureB,
		flowPressureB / (flowPressureA + epsilon),
	}
}

func buildFeatureNames() []string {
	names := make([]string, 0, 105)

	for _, pos := range positionSuffixes {
		for _, m := range metricNames {
			names = append(names, m+"_"+pos)
		}
	}
	for _, pos := range positionSuffixes {
		for _, m := range metricNames {
			names = append(names,
				m+"_7d_avg_"+pos,
				m+"_30d_avg_"+pos,
				m+"_90d_avg_"+pos,
			)
		}
	}
	for _, pos := range positionSuffixes {
		for _, m := range metricNames {
			names = append(names,
				m+"_7d_std_"+pos,
				m+"_30d_std_"+pos,
			)
		}
	}
	for _, pos := range positionSuffixes {
		for _, m := range metricNames {
			names = append(names,
				m+"_7d_change_"+pos,
				m+"_30d_change_"+pos,
				m+"_90d_change_"+pos,
			)
		}
	}

	names = append(names,
		"pressure_drop_AB",
		"pressure_gradient_AB",
		"pressure_ratio_AB",
		"flow_drop_AB",
		"flow_efficiency_AB",
		"flow_loss_percent_AB",
		"corrosion_diff_AB",
		"corrosion_ratio_AB",
		"acoustic_diff_AB",
		"acoustic_ratio_AB",
		"temperature_diff_AB",
		"temperature_avg_AB",
		"flow_pressure_ratio_A",
		"flow_pressure_ratio_B",
		"segment_efficiency",
	)
	return names
}

func channelValue(rec model.DailyRecord, positionIdx, metricIdx int) float64 {
	r := rec.Upstream
	if positionIdx == 1 {
		r = rec.Downstream
	}
	switch metricIdx {
	case 0:
		return r.Pressure
	case 1:
		return r.Flow
	case 2:
		return r.Corrosion
	case 3:
		return r.Acoustic
	default:
		return r.Temperature
	}
}

// trailingMean averages the window of n values ending at index i. Callers
// only ask once the window is complete (i >= warmupDays >= n-1).
func trailingMean(series []float64, i, n int) float64 {
	sum := 0.0
	for j := i - n + 1; j <= i; j++ {
		sum += series[j]
	}
	return sum / float64(n)
}

// trailingStd is the sample standard deviation of the window ending at i.
func trailingStd(series []float64, i, n int) float64 {
	mean := trailingMean(series, i, n)
	sumSq := 0.0
	for j := i - n + 1; j <= i; j++ {
		d := series[j] - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}
