package mcfit

import (
	"math"
	"testing"
)

func TestSquareWave(t *testing.T) {
	wave := SquareWave(10, 2, 3, 5.0)
	if len(wave) != 10 {
		t.Fatalf("len = %d, want 10", len(wave))
	}
	for i, v := range wave {
		want := 0.0
		if i >= 2 && i < 5 {
			want = 5.0
		}
		if v != want {
			t.Errorf("wave[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestSquareWaveClippedAtEnd(t *testing.T) {
	wave := SquareWave(10, 8, 5, 1.0)
	for i, v := range wave {
		want := 0.0
		if i >= 8 {
			want = 1.0
		}
		if v != want {
			t.Errorf("wave[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestElecPulseLength(t *testing.T) {
	pulse := ElecPulse(1.0, 0.28, 12.5, 0)
	if len(pulse) != NumTBs {
		t.Errorf("len = %d, want %d", len(pulse), NumTBs)
	}
}

func TestElecPulseZeroBeforeOffset(t *testing.T) {
	offset := 10.3
	pulse := ElecPulse(1.0, 0.28, 12.5, offset)

	firstPt := int(math.Ceil(offset))
	for i := 0; i < firstPt; i++ {
		if pulse[i] != 0 {
			t.Errorf("pulse[%d] = %v, want 0 before offset", i, pulse[i])
		}
	}
	if pulse[firstPt] <= 0 {
		t.Errorf("pulse[%d] = %v, want > 0 right after offset", firstPt, pulse[firstPt])
	}
}

func TestElecPulseAmplitudeLinearity(t *testing.T) {
	one := ElecPulse(1.0, 0.28, 12.5, 5)
	two := ElecPulse(2.0, 0.28, 12.5, 5)

	for i := range one {
		if math.Abs(two[i]-2*one[i]) > 1e-12 {
			t.Errorf("pulse[%d]: got %v, want %v", i, two[i], 2*one[i])
		}
	}
}

func TestElecPulseNegativeOffsetClamped(t *testing.T) {
	pulse := ElecPulse(1.0, 0.28, 12.5, -3.5)
	if pulse[0] == 0 {
		t.Error("pulse[0] should be nonzero when the offset precedes the window")
	}
}
