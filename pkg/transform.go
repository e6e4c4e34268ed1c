package mcfit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// minDriftZ is the smallest |vd_z| (cm/us) for which uncalibration is
// considered well defined.
const minDriftZ = 1e-9

// Calibrate maps raw detector positions (x, y in meters, z in time buckets)
// to physical chamber positions (meters, z = net drift distance).
// Positions are in meters, vd in cm/us and clock in MHz.
func Calibrate(pos *mat.Dense, vd [3]float64, clock float64) *mat.Dense {
	rows, cols := pos.Dims()
	result := mat.NewDense(rows, cols, nil)
	scale := clock * 1e-4
	for i := 0; i < rows; i++ {
		tb := pos.At(i, 2)
		for j := 0; j < 3; j++ {
			result.Set(i, j, pos.At(i, j)+tb*-vd[j]/scale)
		}
		result.Set(i, 2, result.At(i, 2)-tb)
	}
	return result
}

// Uncalibrate is the inverse of Calibrate: given physical positions it
// computes the time bucket at which each drift distance is observed and
// back-projects x and y accordingly. The offset shifts the whole track in
// time to place it inside the readout window.
// Fails when the z component of the drift velocity is degenerate.
func Uncalibrate(pos *mat.Dense, vd [3]float64, clock float64, offset float64) (*mat.Dense, error) {
	if math.Abs(vd[2]) < minDriftZ {
		return nil, &ErrDegenerateDrift{VdZ: vd[2]}
	}

	rows, cols := pos.Dims()
	result := mat.NewDense(rows, cols, nil)
	scale := clock * 1e-4
	for i := 0; i < rows; i++ {
		tb := pos.At(i, 2)*scale/(-vd[2]) + offset
		for j := 0; j < 3; j++ {
			result.Set(i, j, pos.At(i, j)-tb*-vd[j]/scale)
		}
		result.Set(i, 2, tb)
	}
	return result, nil
}

// UnTiltAndRecenter undoes the detector mounting tilt by rotating all points
// about the x axis by -tilt radians and recentering y. The y offset after
// rotation is tan(tilt) * 1.0 m since the rotation axis sits on the pad plane.
func UnTiltAndRecenter(pos *mat.Dense, tilt float64) *mat.Dense {
	sin, cos := math.Sin(tilt), math.Cos(tilt)
	tan := math.Tan(tilt)

	rows, cols := pos.Dims()
	result := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		x, y, z := pos.At(i, 0), pos.At(i, 1), pos.At(i, 2)
		result.Set(i, 0, x)
		result.Set(i, 1, cos*y+sin*z-tan)
		result.Set(i, 2, -sin*y+cos*z)
	}
	return result
}
