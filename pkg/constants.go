package mcfit

const (
	// NumTBs is the number of time buckets in one digitized channel.
	NumTBs = 512

	// NoPad is the sentinel returned by pad lookups for points that fall
	// outside the instrumented plane. It must never appear as an event key.
	NoPad uint16 = 20000

	// NumPads is the channel count of the pad plane, sizing hit patterns.
	NumPads = 10240

	// ElementaryCharge in coulombs.
	ElementaryCharge = 1.602176565e-19

	// ADCFullScale is the ADC code corresponding to the 1 V preamp range.
	ADCFullScale = 4096
)
