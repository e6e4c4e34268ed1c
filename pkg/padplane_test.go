package mcfit

import (
	"math"
	"testing"
)

func TestRectPadPlaneLookup(t *testing.T) {
	plane := &RectPadPlane{X0: -0.5, Y0: -0.5, Pitch: 0.1, Cols: 10, Rows: 10}

	pad := plane.PadNumberFromCoordinates(-0.45, -0.45)
	if pad != 0 {
		t.Errorf("lower-left pad = %d, want 0", pad)
	}

	pad = plane.PadNumberFromCoordinates(0.05, -0.45)
	if pad != 5 {
		t.Errorf("pad = %d, want 5", pad)
	}

	pad = plane.PadNumberFromCoordinates(-0.45, 0.05)
	if pad != 50 {
		t.Errorf("pad = %d, want 50", pad)
	}
}

func TestRectPadPlaneOutside(t *testing.T) {
	plane := &RectPadPlane{X0: -0.5, Y0: -0.5, Pitch: 0.1, Cols: 10, Rows: 10}

	for _, pt := range [][2]float64{
		{-0.6, 0},
		{0.6, 0},
		{0, -0.51},
		{0, 0.5},
	} {
		if pad := plane.PadNumberFromCoordinates(pt[0], pt[1]); pad != NoPad {
			t.Errorf("point (%v, %v): pad = %d, want NoPad", pt[0], pt[1], pad)
		}
	}
}

func TestRectPadPlaneCenterRoundTrip(t *testing.T) {
	plane := &RectPadPlane{X0: -0.5, Y0: -0.5, Pitch: 0.1, Cols: 10, Rows: 10}

	for _, pad := range []uint16{0, 5, 50, 99} {
		x, y := plane.PadCenter(pad)
		if got := plane.PadNumberFromCoordinates(x, y); got != pad {
			t.Errorf("pad %d center (%v, %v) maps back to %d", pad, x, y, got)
		}
	}
}

func TestPadMapNearestCenter(t *testing.T) {
	m := NewPadMap(0.1)
	m.Insert(1, 0.0, 0.0)
	m.Insert(2, 0.1, 0.0)
	m.Insert(3, 0.0, 0.1)

	if m.NumPads() != 3 {
		t.Fatalf("NumPads = %d, want 3", m.NumPads())
	}

	if pad := m.PadNumberFromCoordinates(0.01, -0.01); pad != 1 {
		t.Errorf("pad = %d, want 1", pad)
	}
	if pad := m.PadNumberFromCoordinates(0.09, 0.02); pad != 2 {
		t.Errorf("pad = %d, want 2", pad)
	}
	if pad := m.PadNumberFromCoordinates(-0.02, 0.12); pad != 3 {
		t.Errorf("pad = %d, want 3", pad)
	}
}

func TestPadMapOutsideAnyPad(t *testing.T) {
	m := NewPadMap(0.1)
	m.Insert(1, 0.0, 0.0)

	// beyond half a pitch in x from the only center
	if pad := m.PadNumberFromCoordinates(0.06, 0.0); pad != NoPad {
		t.Errorf("pad = %d, want NoPad", pad)
	}
	if pad := m.PadNumberFromCoordinates(5.0, 5.0); pad != NoPad {
		t.Errorf("far point: pad = %d, want NoPad", pad)
	}
}

func TestPadMapUnknownCenter(t *testing.T) {
	m := NewPadMap(0.1)
	m.Insert(1, 0.0, 0.0)

	x, y := m.PadCenter(42)
	if !math.IsNaN(x) || !math.IsNaN(y) {
		t.Errorf("unknown pad center = (%v, %v), want NaN", x, y)
	}
}
