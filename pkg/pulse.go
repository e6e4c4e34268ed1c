package mcfit

import "math"

// approxSin is a 4-term Taylor expansion of sin, accurate for the small
// arguments spanned by the amplitude-significant part of the pulse.
func approxSin(t float64) float64 {
	t2 := t * t
	return t - t*t2/6 + t*t2*t2/120 - t*t2*t2*t2/5040
}

// ElecPulse synthesizes the single-electron-avalanche response of the
// electronics: a NumTBs-sample vector, zero before ceil(offset), then
// amplitude * exp(-3t) * sin(t) * t^3 / 0.044 with t = (i-offset)/(shape*clock).
// Shape and clock must carry compatible units, e.g. us and MHz.
func ElecPulse(amplitude, shape, clock, offset float64) []float64 {
	res := make([]float64, NumTBs)
	s := shape * clock

	firstPt := int(math.Ceil(offset))
	if firstPt < 0 {
		firstPt = 0
	}
	for i := firstPt; i < NumTBs; i++ {
		t := (float64(i) - offset) / s
		res[i] = amplitude * math.Exp(-3*t) * approxSin(t) * t * t * t / 0.044
	}
	return res
}

// SquareWave returns a vector of the given size holding height over
// [leftEdge, leftEdge+width), clipped to the vector length.
func SquareWave(size, leftEdge, width int, height float64) []float64 {
	res := make([]float64, size)
	for i := leftEdge; i < leftEdge+width && i < size; i++ {
		res[i] = height
	}
	return res
}
