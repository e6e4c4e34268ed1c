package mcfit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Track holds the sampled trajectory of one simulated particle: positions in
// meters and the cumulative remaining energy at each step, row for row.
type Track struct {
	pos  *mat.Dense // N x 3, meters
	en   []float64  // N, MeV
	time []float64  // N, seconds; may be nil
}

func NewTrack(pos *mat.Dense, en []float64) (*Track, error) {
	rows, _ := pos.Dims()
	if rows != len(en) {
		return nil, &ErrLengthMismatch{PosRows: rows, EnRows: len(en)}
	}
	return &Track{pos: pos, en: en}, nil
}

func (t *Track) NumPts() int {
	rows, _ := t.pos.Dims()
	return rows
}

// PositionMatrix returns the N x 3 position samples.
func (t *Track) PositionMatrix() *mat.Dense {
	return t.pos
}

// EnergyVector returns the cumulative energy samples.
func (t *Track) EnergyVector() []float64 {
	return t.en
}

// Matrix returns the combined N x 5 representation with columns
// (x, y, z, time, energy). The time column is zero when the integrator did
// not record it.
func (t *Track) Matrix() *mat.Dense {
	n := t.NumPts()
	m := mat.NewDense(n, 5, nil)
	for i := 0; i < n; i++ {
		m.Set(i, 0, t.pos.At(i, 0))
		m.Set(i, 1, t.pos.At(i, 1))
		m.Set(i, 2, t.pos.At(i, 2))
		if t.time != nil {
			m.Set(i, 3, t.time[i])
		}
		m.Set(i, 4, t.en[i])
	}
	return m
}

// Tracker integrates a particle trajectory from a parameter vector
// (x0, y0, z0, e0, azimuth, polar). The physics integrator lives outside
// this package; the minimizer only depends on this contract.
type Tracker interface {
	TrackParticle(params []float64) (*Track, error)
}

// LinearTracker is a constant-stopping-power straight-line integrator. It is
// a stand-in collaborator for tests and command-line use, not a physics
// model: energy decreases linearly with path length until exhausted.
type LinearTracker struct {
	DeDx float64 // stopping power, MeV/m
	Step float64 // step length, m
	ZMax float64 // chamber length, m
}

func (lt *LinearTracker) TrackParticle(params []float64) (*Track, error) {
	if len(params) != 6 {
		return nil, &ErrLengthMismatch{PosRows: len(params), EnRows: 6}
	}
	x, y, z := params[0], params[1], params[2]
	en := params[3]
	azi, pol := params[4], params[5]

	dx := lt.Step * math.Sin(pol) * math.Cos(azi)
	dy := lt.Step * math.Sin(pol) * math.Sin(azi)
	dz := lt.Step * math.Cos(pol)

	var rows []float64
	var ens []float64
	for en > 0 && z >= 0 && z <= lt.ZMax {
		rows = append(rows, x, y, z)
		ens = append(ens, en)
		x += dx
		y += dy
		z += dz
		en -= lt.DeDx * lt.Step
	}
	if len(ens) == 0 {
		rows = append(rows, params[0], params[1], params[2])
		ens = append(ens, 0)
	}
	pos := mat.NewDense(len(ens), 3, rows)
	return &Track{pos: pos, en: ens}, nil
}

// CheckEnergyMonotonic verifies that a cumulative energy-loss sequence never
// rises. Rising energy yields negative electron counts downstream, which the
// generator propagates unchecked.
func CheckEnergyMonotonic(en []float64) error {
	for i := 1; i < len(en); i++ {
		if en[i] > en[i-1] {
			return &ErrRisingEnergy{Index: i}
		}
	}
	return nil
}
