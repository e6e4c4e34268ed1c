package mcfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Event maps pad numbers to their accumulated signal, one NumTBs-sample
// vector per pad that collected charge.
type Event map[uint16][]float64

// EventGeneratorParams are the physical parameters of the simulation. They
// are fixed at construction; use WithParams to derive a generator with
// different values.
type EventGeneratorParams struct {
	Vd              [3]float64 // drift velocity, cm/us
	Clock           float64    // sampling clock, MHz
	Shape           float64    // shaping time, us
	MassNum         uint
	Ioniz           float64 // ionization potential, eV
	MicromegasGain  float64
	ElectronicsGain float64
	Tilt            float64 // radians
	DiffSigma       float64 // transverse diffusion scale
	TBOffset        float64 // time bucket offset for uncalibration
	Overflow        OverflowPolicy
}

// EventGenerator turns track samples into per-pad digitized signals.
// All methods are safe for concurrent use: the generator holds no mutable
// state and the pad plane is read-only.
type EventGenerator struct {
	params EventGeneratorParams
	pads   PadPlane
}

func NewEventGenerator(params EventGeneratorParams, pads PadPlane) *EventGenerator {
	if params.Overflow == "" {
		params.Overflow = OverflowDrop
	}
	return &EventGenerator{params: params, pads: pads}
}

func (g *EventGenerator) Params() EventGeneratorParams {
	return g.params
}

// WithParams returns a new generator sharing the pad plane.
func (g *EventGenerator) WithParams(params EventGeneratorParams) *EventGenerator {
	return NewEventGenerator(params, g.pads)
}

// NumElec converts cumulative energy losses (MeV) to primary electron counts
// per step: floored negated differences scaled by the mass number over the
// ionization potential. The first entry has no preceding difference and is
// always zero.
func (g *EventGenerator) NumElec(en []float64) []float64 {
	result := make([]float64, len(en))
	scale := 1e6 * float64(g.params.MassNum) / g.params.Ioniz
	for i := 1; i < len(en); i++ {
		result[i] = math.Floor(-(en[i] - en[i-1]) * scale)
	}
	return result
}

// diffDirs are the eight compass offsets of the diffusion stencil, in
// units of DiffSigma. Diagonals sit at distance sqrt(2).
var diffDirs = [8][2]float64{
	{1, 0},  // East
	{-1, 0}, // West
	{0, 1},  // North
	{0, -1}, // South
	{math.Sqrt2, math.Sqrt2},   // Northeast
	{math.Sqrt2, -math.Sqrt2},  // Southeast
	{-math.Sqrt2, math.Sqrt2},  // Northwest
	{-math.Sqrt2, -math.Sqrt2}, // Southwest
}

const centerAmpl = 0.4

// DiffuseElectrons expands each (x, y, z, numElec) row into nine rows: the
// original point carrying 40% of the charge followed by eight offset clones
// sharing the remainder. Offsets grow with sqrt(z) since transverse
// diffusion scales with the square root of the drift distance. Output rows
// hold the N weighted originals first, then one contiguous N-row block per
// direction.
func (g *EventGenerator) DiffuseElectrons(tr *mat.Dense) *mat.Dense {
	numPts, cols := tr.Dims()
	numDiffPts := len(diffDirs)
	diffAmpl := (1 - centerAmpl) / float64(numDiffPts)

	result := mat.NewDense(numPts*(numDiffPts+1), cols, nil)

	for i := 0; i < numPts; i++ {
		for j := 0; j < cols; j++ {
			result.Set(i, j, tr.At(i, j))
		}
		result.Set(i, 3, tr.At(i, 3)*centerAmpl)
	}

	for ptIdx, dir := range diffDirs {
		firstRow := numPts * (ptIdx + 1)
		for i := 0; i < numPts; i++ {
			row := firstRow + i
			spread := g.params.DiffSigma * math.Sqrt(tr.At(i, 2))
			result.Set(row, 0, tr.At(i, 0)+dir[0]*spread)
			result.Set(row, 1, tr.At(i, 1)+dir[1]*spread)
			result.Set(row, 2, tr.At(i, 2))
			result.Set(row, 3, tr.At(i, 3)*diffAmpl)
		}
	}

	return result
}

// PrepareTrack composes the calibration chain: tilt correction, projection
// into raw detector space and electron counting, then diffusion. The result
// has columns (x, y, timeBucket, numElec) with 9 rows per input sample.
func (g *EventGenerator) PrepareTrack(pos *mat.Dense, en []float64) (*mat.Dense, error) {
	nrows, _ := pos.Dims()
	if nrows != len(en) {
		return nil, &ErrLengthMismatch{PosRows: nrows, EnRows: len(en)}
	}

	posTilted := UnTiltAndRecenter(pos, g.params.Tilt)
	uncal, err := Uncalibrate(posTilted, g.params.Vd, g.params.Clock, g.params.TBOffset)
	if err != nil {
		return nil, err
	}

	elec := g.NumElec(en)
	uncalPts := mat.NewDense(nrows, 4, nil)
	for i := 0; i < nrows; i++ {
		uncalPts.Set(i, 0, uncal.At(i, 0))
		uncalPts.Set(i, 1, uncal.At(i, 1))
		uncalPts.Set(i, 2, uncal.At(i, 2))
		uncalPts.Set(i, 3, elec[i])
	}

	return g.DiffuseElectrons(uncalPts), nil
}

// ConversionFactor converts a primary electron count to signal amplitude in
// ADC bins: the micromegas gain makes secondary electrons, the elementary
// charge makes coulombs, the electronics gain makes volts, and the 1 V
// preamp range saturates at ADCFullScale bins.
func (g *EventGenerator) ConversionFactor() float64 {
	return g.params.MicromegasGain * ElementaryCharge / g.params.ElectronicsGain * ADCFullScale
}

// MakeEvent simulates the full readout for one track: every diffused charge
// deposit is binned onto a pad and its avalanche pulse accumulated into that
// pad's signal. Deposits outside the plane are skipped; deposits past the
// readout window follow the overflow policy. The final diffused row is
// intentionally not binned.
func (g *EventGenerator) MakeEvent(pos *mat.Dense, en []float64) (Event, error) {
	uncal, err := g.PrepareTrack(pos, en)
	if err != nil {
		return nil, err
	}

	result := make(Event)
	convFactor := g.ConversionFactor()

	dropped := 0
	nrows, _ := uncal.Dims()
	for i := 0; i < nrows-1; i++ {
		pad := g.pads.PadNumberFromCoordinates(uncal.At(i, 0), uncal.At(i, 1))
		if pad == NoPad {
			continue
		}
		offset := uncal.At(i, 2)
		if offset > NumTBs-1 {
			if g.params.Overflow == OverflowFail {
				return nil, &ErrTBOverflow{TimeBucket: offset}
			}
			dropped++
			continue
		}

		padSignal, ok := result[pad]
		if !ok {
			padSignal = make([]float64, NumTBs)
			result[pad] = padSignal
		}
		pulse := ElecPulse(convFactor*uncal.At(i, 3), g.params.Shape, g.params.Clock, offset)
		floats.Add(padSignal, pulse)
	}

	if dropped > 0 && logger != nil && configuration.Verbosity > 1 {
		message := fmt.Sprintf("MakeEvent dropped %d out-of-window deposits", dropped)
		logger.Info(message, "eventgen")
	}

	return result, nil
}

// MakeEventFromTrack simulates the readout from a Track's combined matrix.
func (g *EventGenerator) MakeEventFromTrack(tr *Track) (Event, error) {
	return g.MakeEvent(tr.PositionMatrix(), tr.EnergyVector())
}

// MakeMeshSignal sums all pad signals into one vector, simulating the
// non-segmented mesh electrode.
func (g *EventGenerator) MakeMeshSignal(pos *mat.Dense, en []float64) ([]float64, error) {
	evt, err := g.MakeEvent(pos, en)
	if err != nil {
		return nil, err
	}

	res := make([]float64, NumTBs)
	for _, sig := range evt {
		floats.Add(res, sig)
	}
	return res, nil
}

// MakeHitPattern accumulates the total deposited charge per pad, ignoring
// time structure. It bins the prepared track directly without synthesizing
// pulses and shares MakeEvent's final-row exclusion.
func (g *EventGenerator) MakeHitPattern(pos *mat.Dense, en []float64) ([]float64, error) {
	uncal, err := g.PrepareTrack(pos, en)
	if err != nil {
		return nil, err
	}

	hits := make([]float64, NumPads)
	convFactor := g.ConversionFactor()

	nrows, _ := uncal.Dims()
	for i := 0; i < nrows-1; i++ {
		pad := g.pads.PadNumberFromCoordinates(uncal.At(i, 0), uncal.At(i, 1))
		if pad != NoPad {
			hits[pad] += convFactor * uncal.At(i, 3)
		}
	}

	return hits, nil
}
