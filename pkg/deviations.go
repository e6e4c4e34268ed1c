package mcfit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DropNaNs strips non-finite entries (NaN and infinities) from data. Rows of
// diverging simulated tracks produce such values and must not poison the
// aggregate cost.
func DropNaNs(data []float64) []float64 {
	res := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			res = append(res, v)
		}
	}
	return res
}

// FindDeviations compares a simulated track against experimental data
// pointwise over the matched length: per-row x and y differences in raw
// detector space. Both matrices must carry (x, y, ...) columns.
func FindDeviations(simtrack, expdata *mat.Dense) *mat.Dense {
	simRows, _ := simtrack.Dims()
	expRows, _ := expdata.Dims()
	n := simRows
	if expRows < n {
		n = expRows
	}
	if n == 0 {
		return nil
	}

	devs := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		devs.Set(i, 0, simtrack.At(i, 0)-expdata.At(i, 0))
		devs.Set(i, 1, simtrack.At(i, 1)-expdata.At(i, 1))
	}
	return devs
}
