package mcfit

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MCminimizer fits track parameters to experimental data by repeatedly
// simulating candidate tracks and contracting the search neighborhood
// around the best candidate. It is a local stochastic descent: results
// depend on the initial center and sigma.
type MCminimizer struct {
	tracker    Tracker
	evtgen     *EventGenerator
	mins       []float64
	maxes      []float64
	numWorkers int
	src        rand.Source
}

func NewMinimizer(tracker Tracker, evtgen *EventGenerator, mins, maxes []float64, numWorkers int, seed uint64) *MCminimizer {
	return &MCminimizer{
		tracker:    tracker,
		evtgen:     evtgen,
		mins:       mins,
		maxes:      maxes,
		numWorkers: numWorkers,
		src:        rand.NewSource(seed),
	}
}

// MinimizeResult is the terminal state of a fit.
type MinimizeResult struct {
	Ctr        []float64  // best parameter vector
	BestTrack  *mat.Dense // raw-space matrix of the best simulated track
	MinChis    []float64  // best cost per round
	GoodParams *mat.Dense // winning candidate per round, numIters x numVars
	BestDevs   []float64  // finite deviations of the best track
}

// PrepareSimulatedTrackMatrix projects a simulated track's positions into
// raw detector space through the same tilt correction and uncalibration the
// event assembler applies.
func (m *MCminimizer) PrepareSimulatedTrackMatrix(simtrack *mat.Dense) (*mat.Dense, error) {
	p := m.evtgen.Params()
	tilted := UnTiltAndRecenter(simtrack, p.Tilt)
	return Uncalibrate(tilted, p.Vd, p.Clock, p.TBOffset)
}

// RunTrack simulates one candidate and reduces its deviations from the
// experimental data to a scalar cost: the mean squared finite deviation.
// Candidates that cannot be simulated, or whose deviations are entirely
// non-finite, score +Inf.
func (m *MCminimizer) RunTrack(p []float64, trueValues *mat.Dense) float64 {
	track, err := m.tracker.TrackParticle(p)
	if err != nil {
		if logger != nil && configuration.Verbosity > 1 {
			logger.Info(fmt.Sprintf("candidate rejected: %v", err), "minimizer")
		}
		return math.Inf(1)
	}

	simMat, err := m.PrepareSimulatedTrackMatrix(track.PositionMatrix())
	if err != nil {
		return math.Inf(1)
	}

	devs := FindDeviations(simMat, trueValues)
	if devs == nil {
		return math.Inf(1)
	}

	finite := DropNaNs(devs.RawMatrix().Data)
	if len(finite) == 0 {
		return math.Inf(1)
	}
	return floats.Dot(finite, finite) / float64(len(finite))
}

// Minimize runs numIters rounds of numPts candidates each. Every round draws
// candidates around the current center within the current sigma, scores them
// in parallel, adopts the round winner as the new center when it improves on
// the incumbent, and contracts sigma by redFactor. redFactor must lie in
// (0, 1) so the neighborhood shrinks.
func (m *MCminimizer) Minimize(ctr0, sigma0 []float64, trueValues *mat.Dense,
	numIters, numPts uint, redFactor float64) (*MinimizeResult, error) {

	numVars := len(ctr0)
	if len(sigma0) != numVars {
		return nil, &ErrLengthMismatch{PosRows: numVars, EnRows: len(sigma0)}
	}
	if redFactor <= 0 || redFactor >= 1 {
		return nil, fmt.Errorf("reduction factor %g outside (0, 1)", redFactor)
	}
	if numIters == 0 || numPts == 0 {
		return nil, fmt.Errorf("need at least one round and one candidate, got %d rounds of %d", numIters, numPts)
	}
	mins := m.mins
	maxes := m.maxes
	if len(mins) != numVars || len(maxes) != numVars {
		return nil, fmt.Errorf("parameter bounds do not match %d dimensions", numVars)
	}

	ctr := append([]float64(nil), ctr0...)
	sigma := append([]float64(nil), sigma0...)

	bestChi := m.RunTrack(ctr, trueValues)

	minChis := make([]float64, numIters)
	goodParams := mat.NewDense(int(numIters), numVars, nil)

	for k := uint(0); k < numIters; k++ {
		params := MakeParams(ctr, sigma, numPts, mins, maxes, m.src)
		chi2s := m.evaluateCandidates(params, trueValues)

		bestIdx := floats.MinIdx(chi2s)
		if chi2s[bestIdx] < bestChi {
			bestChi = chi2s[bestIdx]
			ctr = mat.Row(nil, bestIdx, params)
		}
		minChis[k] = bestChi
		goodParams.SetRow(int(k), ctr)

		floats.Scale(redFactor, sigma)

		if logger != nil && configuration.Verbosity > 0 {
			message := fmt.Sprintf("round %d/%d: chi2 = %g", k+1, numIters, bestChi)
			logger.Info(message, "minimizer")
		}
	}

	track, err := m.tracker.TrackParticle(ctr)
	if err != nil {
		return nil, fmt.Errorf("error simulating best candidate: %w", err)
	}
	bestTrack, err := m.PrepareSimulatedTrackMatrix(track.PositionMatrix())
	if err != nil {
		return nil, err
	}

	var bestDevs []float64
	if devs := FindDeviations(bestTrack, trueValues); devs != nil {
		bestDevs = DropNaNs(devs.RawMatrix().Data)
	}

	return &MinimizeResult{
		Ctr:        ctr,
		BestTrack:  bestTrack,
		MinChis:    minChis,
		GoodParams: goodParams,
		BestDevs:   bestDevs,
	}, nil
}
