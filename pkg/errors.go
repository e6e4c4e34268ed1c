package mcfit

import "fmt"

// ErrDegenerateDrift is returned when the z component of the drift velocity
// is too close to zero to map drift distances onto time buckets.
type ErrDegenerateDrift struct {
	VdZ float64
}

func (e *ErrDegenerateDrift) Error() string {
	return fmt.Sprintf("degenerate drift velocity: vd_z = %g cm/us", e.VdZ)
}

// ErrTBOverflow is returned when a signal would start beyond the last time
// bucket of the readout window and the overflow policy is set to fail.
type ErrTBOverflow struct {
	TimeBucket float64
}

func (e *ErrTBOverflow) Error() string {
	return fmt.Sprintf("time bucket overflow: %g > %d", e.TimeBucket, NumTBs-1)
}

// ErrLengthMismatch is returned when position and energy samples of a track
// do not have the same number of rows.
type ErrLengthMismatch struct {
	PosRows int
	EnRows  int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("sample length mismatch: %d position rows, %d energy rows", e.PosRows, e.EnRows)
}

// ErrRisingEnergy is returned by CheckEnergyMonotonic when the cumulative
// energy-loss sequence increases between two samples.
type ErrRisingEnergy struct {
	Index int
}

func (e *ErrRisingEnergy) Error() string {
	return fmt.Sprintf("energy sample %d rises above sample %d", e.Index, e.Index-1)
}

// ErrPadMap represents an error while loading the pad plane from the database.
type ErrPadMap struct {
	Err error
}

func (e *ErrPadMap) Error() string {
	return fmt.Sprintf("error loading pad map: %v", e.Err)
}
