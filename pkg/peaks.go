package mcfit

import (
	"math"
	"sort"

	"golang.org/x/exp/maps"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Peak is the lossy per-pad summary of a signal: the time bucket of its
// maximum and the floored maximum amplitude.
type Peak struct {
	TimeBucket uint
	Amplitude  uint
}

// peakTableThreshold rejects pads whose above-30%-of-max charge sums below
// this value.
const peakTableThreshold = 1e-3

// sortedPads returns the event's pad numbers in ascending order so derived
// tables have a stable row order.
func sortedPads(evt Event) []uint16 {
	pads := maps.Keys(evt)
	sort.Slice(pads, func(i, j int) bool { return pads[i] < pads[j] })
	return pads
}

// MakePeaks reduces each pad signal of the simulated event to its peak.
func (g *EventGenerator) MakePeaks(pos *mat.Dense, en []float64) (map[uint16]Peak, error) {
	evt, err := g.MakeEvent(pos, en)
	if err != nil {
		return nil, err
	}

	res := make(map[uint16]Peak, len(evt))
	for pad, sig := range evt {
		maxTB := floats.MaxIdx(sig)
		res[pad] = Peak{
			TimeBucket: uint(maxTB),
			Amplitude:  uint(math.Floor(sig[maxTB])),
		}
	}
	return res, nil
}

// MakePeaksTable builds one row per contributing pad with columns
// (padCenterX, padCenterY, peakCentroidTB, peakAmplitude, padNumber).
// The centroid is the charge-weighted mean time bucket over the samples
// above 30% of the pad's maximum; pads whose surviving charge sums below
// the threshold are dropped. Returns a rows x 5 matrix, or nil when every
// pad is rejected.
func (g *EventGenerator) MakePeaksTable(pos *mat.Dense, en []float64) (*mat.Dense, error) {
	evt, err := g.MakeEvent(pos, en)
	if err != nil {
		return nil, err
	}

	var rows []float64
	nrows := 0
	for _, pad := range sortedPads(evt) {
		sig := evt[pad]
		maxVal := floats.Max(sig)

		var total, weighted float64
		for tb, v := range sig {
			if v > 0.3*maxVal {
				total += v
				weighted += float64(tb) * v
			}
		}
		if total < peakTableThreshold {
			continue
		}
		ctrGrav := weighted / total

		x, y := g.pads.PadCenter(pad)
		rows = append(rows, x, y, ctrGrav, maxVal, float64(pad))
		nrows++
	}

	if nrows == 0 {
		return nil, nil
	}
	return mat.NewDense(nrows, 5, rows), nil
}
