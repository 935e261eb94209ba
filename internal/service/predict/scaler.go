// internal/service/predict/scaler.go

package predict

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes features to zero mean and unit variance
type Scaler struct {
	mean []float64
	std  []float64
}

// Fit learns per-column means and population standard deviations.
// Constant columns get a standard deviation of 1.
func (s *Scaler) Fit(x [][]float64) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return errors.New("scaler: empty input")
	}

	cols := len(x[0])
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)

	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.mean[j] = mean
		s.std[j] = std
	}

	return nil
}

// Transform returns a standardized copy of x
func (s *Scaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = (v - s.mean[j]) / s.std[j]
		}
	}
	return out
}
