package inference

import (
	"fmt"
	"math"

	"github.com/hydrosense/phealth-backend/model"
)

// FitArtifact fits a standardizer and a ridge-regularized linear head on
// engineered feature vectors. Ridge keeps the normal equations solvable in
// the presence of the collinear rolling-window columns; lambda is in
// standardized units.
func FitArtifact(vectors []model.FeatureVector, lambda float64) (*Artifact, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no training vectors")
	}
	if lambda <= 0 {
		return nil, fmt.Errorf("lambda must be positive")
	}

	names := vectors[0].Names
	p := len(names)
	n := len(vectors)
	for i, fv := range vectors {
		if len(fv.Values) != p {
			return nil, fmt.Errorf("vector %d width %d, expected %d", i, len(fv.Values), p)
		}
	}

	mean := make([]float64, p)
	for _, fv := range vectors {
		for j, v := range fv.Values {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	scale := make([]float64, p)
	for _, fv := range vectors {
		for j, v := range fv.Values {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / float64(n))
		// Constant columns standardize to zero with unit scale.
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	var yMean float64
	for _, fv := range vectors {
		yMean += fv.RUL
	}
	yMean /= float64(n)

	// Normal equations on standardized, centered data:
	// (Z'Z + lambda*I) beta = Z'yc
	zt := make([][]float64, p)
	for j := range zt {
		zt[j] = make([]float64, p+1)
	}
	row := make([]float64, p)
	for _, fv := range vectors {
		for j, v := range fv.Values {
			row[j] = (v - mean[j]) / scale[j]
		}
		yc := fv.RUL - yMean
		for j := 0; j < p; j++ {
			for k := j; k < p; k++ {
				zt[j][k] += row[j] * row[k]
			}
			zt[j][p] += row[j] * yc
		}
	}
	for j := 0; j < p; j++ {
		zt[j][j] += lambda
		for k := 0; k < j; k++ {
			zt[j][k] = zt[k][j]
		}
	}

	coef, err := solve(zt)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		FeatureNames: append([]string(nil), names...),
		Scaler:       Scaler{Mean: mean, Scale: scale},
		Linear:       Linear{Intercept: yMean, Coef: coef},
	}, nil
}

// solve runs Gaussian elimination with partial pivoting on an augmented
// p x (p+1) system.
func solve(a [][]float64) ([]float64, error) {
	p := len(a)
	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular system at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]

		inv := 1 / a[col][col]
		for r := col + 1; r < p; r++ {
			f := a[r][col] * inv
			if f == 0 {
				continue
			}
			for k := col; k <= p; k++ {
				a[r][k] -= f * a[col][k]
			}
		}
	}

	x := make([]float64, p)
	for r := p - 1; r >= 0; r-- {
		sum := a[r][p]
		for k := r + 1; k < p; k++ {
			sum -= a[r][k] * x[k]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}
