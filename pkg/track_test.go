package mcfit

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewTrackLengthMismatch(t *testing.T) {
	pos := mat.NewDense(3, 3, nil)
	_, err := NewTrack(pos, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	var mismatch *ErrLengthMismatch
	if !errors.As(err, &mismatch) {
		t.Errorf("error type = %T, want *ErrLengthMismatch", err)
	}
}

func TestTrackMatrixColumns(t *testing.T) {
	pos := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	track, err := NewTrack(pos, []float64{10, 9})
	if err != nil {
		t.Fatalf("NewTrack returned error: %v", err)
	}

	m := track.Matrix()
	rows, cols := m.Dims()
	if rows != 2 || cols != 5 {
		t.Fatalf("dims = %dx%d, want 2x5", rows, cols)
	}
	if m.At(1, 0) != 4 || m.At(1, 1) != 5 || m.At(1, 2) != 6 {
		t.Error("position columns do not match input")
	}
	if m.At(0, 3) != 0 {
		t.Errorf("time column = %v, want 0 when not recorded", m.At(0, 3))
	}
	if m.At(0, 4) != 10 || m.At(1, 4) != 9 {
		t.Error("energy column does not match input")
	}
}

func TestLinearTrackerStepsUntilExhausted(t *testing.T) {
	tracker := &LinearTracker{DeDx: 1.0, Step: 0.1, ZMax: 1.0}

	track, err := tracker.TrackParticle([]float64{0, 0, 0.5, 0.25, 0, 0})
	if err != nil {
		t.Fatalf("TrackParticle returned error: %v", err)
	}
	if track.NumPts() != 3 {
		t.Fatalf("NumPts = %d, want 3", track.NumPts())
	}

	pos := track.PositionMatrix()
	for i, wantZ := range []float64{0.5, 0.6, 0.7} {
		if math.Abs(pos.At(i, 2)-wantZ) > 1e-12 {
			t.Errorf("z[%d] = %v, want %v", i, pos.At(i, 2), wantZ)
		}
	}

	en := track.EnergyVector()
	if err := CheckEnergyMonotonic(en); err != nil {
		t.Errorf("energy should never rise: %v", err)
	}
	if en[0] != 0.25 {
		t.Errorf("en[0] = %v, want 0.25", en[0])
	}
}

func TestLinearTrackerStopsAtChamberEnd(t *testing.T) {
	tracker := &LinearTracker{DeDx: 0.01, Step: 0.1, ZMax: 1.0}

	track, err := tracker.TrackParticle([]float64{0, 0, 0.85, 100, 0, 0})
	if err != nil {
		t.Fatalf("TrackParticle returned error: %v", err)
	}
	pos := track.PositionMatrix()
	last := track.NumPts() - 1
	if pos.At(last, 2) > 1.0 {
		t.Errorf("last z = %v, want <= chamber length", pos.At(last, 2))
	}
}

func TestLinearTrackerWrongParamCount(t *testing.T) {
	tracker := &LinearTracker{DeDx: 1, Step: 0.1, ZMax: 1}
	if _, err := tracker.TrackParticle([]float64{1, 2, 3}); err == nil {
		t.Error("expected error for wrong parameter count")
	}
}

func TestCheckEnergyMonotonic(t *testing.T) {
	if err := CheckEnergyMonotonic([]float64{3, 2, 2, 1}); err != nil {
		t.Errorf("non-rising sequence flagged: %v", err)
	}

	err := CheckEnergyMonotonic([]float64{3, 2, 2.5})
	if err == nil {
		t.Fatal("expected error for rising energy")
	}
	var rising *ErrRisingEnergy
	if !errors.As(err, &rising) {
		t.Fatalf("error type = %T, want *ErrRisingEnergy", err)
	}
	if rising.Index != 2 {
		t.Errorf("Index = %d, want 2", rising.Index)
	}
}
