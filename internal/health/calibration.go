// Package health turns raw RUL estimates into display-ready condition
// reports: tiered categories, calibrated 0-100 scores and curated
// degradation drivers.
package health

// Band maps one RUL interval linearly onto a score interval. Bands are
// listed highest interval first.
type Band struct {
	MinRUL   float64 `yaml:"min_rul" json:"min_rul"`
	MaxRUL   float64 `yaml:"max_rul" json:"max_rul"`
	MinScore float64 `yaml:"min_score" json:"min_score"`
	MaxScore float64 `yaml:"max_score" json:"max_score"`
}

// Calibration is a piecewise-linear RUL-to-score curve for one segment,
// tuned so each demo scenario lands in its intended scoring range. Floor is
// the lowest score the segment can report regardless of RUL.
type Calibration struct {
	Floor float64 `yaml:"floor" json:"floor"`
	Bands []Band  `yaml:"bands" json:"bands"`
}

// Score evaluates the curve at rul. Values above the top band extrapolate
// along that band's slope; the result is floored per the calibration and
// capped at 100.
func (c Calibration) Score(rul float64) float64 {
	if len(c.Bands) == 0 {
		return genericScore(rul)
	}

	band := c.Bands[0]
	for _, b := range c.Bands {
		if rul >= b.MinRUL {
			band = b
			break
		}
	}

	score := band.MinScore + (rul-band.MinRUL)/(band.MaxRUL-band.MinRUL)*(band.MaxScore-band.MinScore)
	if score < c.Floor {
		score = c.Floor
	}
	if score > 100 {
		score = 100
	}
	return score
}

// genericScore is the uncalibrated fallback: linear against the fleet-wide
// maximum horizon, clamped to [0, 100].
func genericScore(rul float64) float64 {
	score := rul / 14000 * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
