package mcfit

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MakeParams draws numSets candidate parameter vectors around ctr: each
// dimension is perturbed uniformly within +/- sigma and clamped to its
// [mins, maxes] interval. Rows are candidates, columns are dimensions.
func MakeParams(ctr, sigma []float64, numSets uint, mins, maxes []float64, src rand.Source) *mat.Dense {
	numVars := len(ctr)
	params := mat.NewDense(int(numSets), numVars, nil)

	for j := 0; j < numVars; j++ {
		u := distuv.Uniform{
			Min: ctr[j] - sigma[j],
			Max: ctr[j] + sigma[j],
			Src: src,
		}
		for i := 0; i < int(numSets); i++ {
			v := u.Rand()
			if v < mins[j] {
				v = mins[j]
			}
			if v > maxes[j] {
				v = maxes[j]
			}
			params.Set(i, j, v)
		}
	}

	return params
}
