package mcfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type candidateJob struct {
	Idx    int
	Params []float64
}

type candidateResult struct {
	Idx  int
	Chi2 float64
}

// candidateWorker evaluates candidate parameter sets until the jobs channel
// closes. A panicking tracker only fails its own candidate.
func (m *MCminimizer) candidateWorker(id int, trueValues *mat.Dense, jobs <-chan candidateJob, results chan<- candidateResult) {
	for job := range jobs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if logger != nil {
						message := fmt.Sprintf("worker %d recovered from panic on candidate %d: %v", id, job.Idx, r)
						logger.Error(message)
					}
					results <- candidateResult{Idx: job.Idx, Chi2: math.Inf(1)}
				}
			}()
			results <- candidateResult{Idx: job.Idx, Chi2: m.RunTrack(job.Params, trueValues)}
		}()
	}
}

// evaluateCandidates scores every row of params against the experimental
// data, fanning the work out over the minimizer's worker pool. Rounds are
// sequential: this returns only once every candidate is scored.
func (m *MCminimizer) evaluateCandidates(params, trueValues *mat.Dense) []float64 {
	numSets, _ := params.Dims()

	jobs := make(chan candidateJob, numSets)
	results := make(chan candidateResult, numSets)

	numWorkers := m.numWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	for w := 1; w <= numWorkers; w++ {
		go m.candidateWorker(w, trueValues, jobs, results)
	}

	for i := 0; i < numSets; i++ {
		jobs <- candidateJob{Idx: i, Params: mat.Row(nil, i, params)}
	}
	close(jobs)

	chi2s := make([]float64, numSets)
	for i := 0; i < numSets; i++ {
		res := <-results
		chi2s[res.Idx] = res.Chi2
	}
	return chi2s
}
