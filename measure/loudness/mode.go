package loudness

// Mode is a bitmask of requested measurements. Composite flags imply
// their prerequisites, mirroring the reference mode enum: S implies M,
// I implies M, LRA implies S, SamplePeak and TruePeak imply M.
type Mode uint32

const (
	// ModeM enables momentary (400 ms) loudness.
	ModeM Mode = 1 << 0

	// ModeS enables short-term (3 s) loudness. Implies ModeM.
	ModeS = (1 << 1) | ModeM

	// ModeI enables gated integrated (global) loudness. Implies ModeM.
	ModeI = (1 << 2) | ModeM

	// ModeLRA enables loudness range. Implies ModeS.
	ModeLRA = (1 << 3) | ModeS

	// ModeSamplePeak enables per-channel sample-peak tracking. Implies ModeM.
	ModeSamplePeak = (1 << 4) | ModeM

	// ModeTruePeak enables per-channel oversampled true-peak tracking.
	// Implies ModeM.
	ModeTruePeak = (1 << 5) | ModeM

	// ModeHistogram selects histogram storage (1000 bins, O(1) memory)
	// for the 400 ms and 3 s block sequences instead of an unbounded
	// block list. It is a construction-time storage strategy switch,
	// not an additional measurement, and is mutually exclusive with
	// block-list storage for the lifetime of the meter.
	ModeHistogram Mode = 1 << 6
)

// Has reports whether all bits of flag are set in m.
func (m Mode) Has(flag Mode) bool {
	return m&flag == flag
}
