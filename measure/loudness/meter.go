package loudness

import (
	"math"

	"github.com/arqu-audio/r128meter/dsp/buffer"
	"github.com/arqu-audio/r128meter/dsp/filter/biquad"
	"github.com/arqu-audio/r128meter/dsp/filter/weighting"
	"github.com/arqu-audio/r128meter/dsp/resample"
)

const (
	// Integration window durations in seconds.
	momentaryDuration = 0.4
	shortTermDuration = 3.0

	// Gating thresholds, in LU/LUFS.
	absThreshold       = -70.0
	relThreshold       = -10.0
	lraRelThreshold    = -20.0
	histogramLowBound  = -70.0
	histogramHighBound = 5.0
	histogramBinWidth  = 0.1
	histogramBins      = 1000

	// maxBlockHistory is a sane ceiling on unbounded block-list growth,
	// modelling the allocation failure the reference implementation
	// reports as ERROR_NOMEM. At a 100ms hop this is roughly 19 years
	// of continuous ingestion.
	maxBlockHistory = 6_000_000_000
)

// negativeInfinity is the well-known sentinel returned for loudness
// values with no surviving gated blocks (or all-silent input).
var negativeInfinity = math.Inf(-1)

// Meter implements EBU R128 / ITU-R BS.1770 loudness metering for a
// single stream.
type Meter struct {
	sampleRate float64
	channels   int
	mode       Mode
	roles      []ChannelRole

	weighting []*biquad.Chain

	momWindowSamples   int
	shortWindowSamples int
	momHistory         []*buffer.Buffer
	shortHistory       []*buffer.Buffer
	momWriteIdx        int
	shortWriteIdx      int
	momRunningSums     []float64
	shortRunningSums   []float64

	totalFrames  int64
	neededFrames int
	blockHop     int

	blockList400  []float64
	blockList3000 []float64
	histogram400  [histogramBins]uint64
	histogram3000 [histogramBins]uint64

	samplePeak   []float64
	truePeak     []float64
	oversamplers []*resample.Resampler
}

// NewMeter creates a loudness meter with the given options.
func NewMeter(opts ...MeterOption) *Meter {
	cfg := ApplyMeterOptions(opts...)

	m := &Meter{
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		mode:       cfg.Mode,
	}

	m.roles = resolveChannelRoles(cfg.Channels, cfg.ChannelRoles)
	m.reconfigure()

	return m
}

func resolveChannelRoles(channels int, override []ChannelRole) []ChannelRole {
	roles := defaultChannelMap(channels)
	for i := 0; i < len(override) && i < channels; i++ {
		roles[i] = override[i]
	}

	return roles
}

// reconfigure (re)allocates all per-channel state for the current
// channel count and sample rate. Block history is not touched; callers
// that need a full reset call Reset explicitly.
func (m *Meter) reconfigure() {
	m.weighting = make([]*biquad.Chain, m.channels)
	for i := range m.weighting {
		m.weighting[i] = weighting.NewK(m.sampleRate)
	}

	m.momWindowSamples = int(math.Round(momentaryDuration * m.sampleRate))
	m.shortWindowSamples = int(math.Round(shortTermDuration * m.sampleRate))

	m.momHistory = make([]*buffer.Buffer, m.channels)
	m.shortHistory = make([]*buffer.Buffer, m.channels)

	for i := range m.channels {
		m.momHistory[i] = buffer.New(m.momWindowSamples)
		m.shortHistory[i] = buffer.New(m.shortWindowSamples)
	}

	m.momRunningSums = make([]float64, m.channels)
	m.shortRunningSums = make([]float64, m.channels)

	m.samplePeak = make([]float64, m.channels)
	m.truePeak = make([]float64, m.channels)
	m.oversamplers = make([]*resample.Resampler, m.channels)

	if m.mode.Has(ModeTruePeak) {
		for i := range m.oversamplers {
			m.oversamplers[i] = newTruePeakOversampler(m.sampleRate)
		}
	}

	m.blockHop = max(int(math.Round(0.1*m.sampleRate)), 1)
	m.neededFrames = m.blockHop
	m.momWriteIdx = 0
	m.shortWriteIdx = 0
	m.totalFrames = 0
}

// newTruePeakOversampler returns the polyphase oversampler for true-peak
// detection at the given sample rate, or nil when no oversampling is
// required (rate >= 192 kHz is measured at native resolution).
func newTruePeakOversampler(sampleRate float64) *resample.Resampler {
	var up int

	switch {
	case sampleRate < 96000:
		up = 4
	case sampleRate < 192000:
		up = 2
	default:
		return nil
	}

	r, err := resample.NewRational(up, 1, resample.WithQuality(resample.QualityBest))
	if err != nil {
		// up is always a small positive integer here; NewRational only
		// fails on an invalid ratio.
		panic(err)
	}

	return r
}

// Reset clears all filter state, sliding-window history, block history,
// and peak trackers, returning the meter to its just-constructed state.
func (m *Meter) Reset() {
	for i := range m.channels {
		m.weighting[i].Reset()
		m.momHistory[i].Zero()
		m.shortHistory[i].Zero()

		m.momRunningSums[i] = 0
		m.shortRunningSums[i] = 0
		m.samplePeak[i] = 0
		m.truePeak[i] = 0

		if m.oversamplers[i] != nil {
			m.oversamplers[i].Reset()
		}
	}

	m.momWriteIdx = 0
	m.shortWriteIdx = 0
	m.totalFrames = 0
	m.neededFrames = m.blockHop
	m.blockList400 = nil
	m.blockList3000 = nil
	m.histogram400 = [histogramBins]uint64{}
	m.histogram3000 = [histogramBins]uint64{}
}

// SetChannel assigns a channel role, overriding the default channel map.
func (m *Meter) SetChannel(index int, role ChannelRole) error {
	if index < 0 || index >= m.channels {
		return ErrInvalidChannelIndex
	}

	m.roles[index] = role

	return nil
}

// ChangeParameters reconfigures the meter for a new channel count and
// sample rate. Filter state, sliding windows, and the in-flight partial
// block are reset; the channel map reverts to the default; accumulated
// block history and peak values are preserved, per the channel-independent
// nature of peak measurement. Returns ErrNoChange if neither parameter
// differs from the current configuration.
func (m *Meter) ChangeParameters(channels int, sampleRate float64) error {
	if channels == m.channels && sampleRate == m.sampleRate {
		return ErrNoChange
	}

	if channels <= 0 || sampleRate <= 0 {
		return ErrOutOfMemory
	}

	savedSamplePeak := m.samplePeak
	savedTruePeak := m.truePeak

	m.channels = channels
	m.sampleRate = sampleRate
	m.roles = defaultChannelMap(channels)
	m.reconfigure()

	for i := 0; i < len(savedSamplePeak) && i < channels; i++ {
		m.samplePeak[i] = savedSamplePeak[i]
		m.truePeak[i] = savedTruePeak[i]
	}

	return nil
}

// ingest processes one interleaved frame of already-normalized [-1, 1)
// samples, one float64 per channel.
func (m *Meter) ingest(frame []float64) error {
	for c := range m.channels {
		x := frame[c]

		if m.mode.Has(ModeSamplePeak) {
			if ax := math.Abs(x); ax > m.samplePeak[c] {
				m.samplePeak[c] = ax
			}
		}

		if m.mode.Has(ModeTruePeak) {
			m.trackTruePeak(c, x)
		}

		y := m.weighting[c].ProcessSample(x)
		weighted := y * y * m.roles[c].weight()

		momSamples := m.momHistory[c].Samples()
		oldMom := momSamples[m.momWriteIdx]
		momSamples[m.momWriteIdx] = weighted
		m.momRunningSums[c] += weighted - oldMom

		shortSamples := m.shortHistory[c].Samples()
		oldShort := shortSamples[m.shortWriteIdx]
		shortSamples[m.shortWriteIdx] = weighted
		m.shortRunningSums[c] += weighted - oldShort
	}

	m.momWriteIdx = (m.momWriteIdx + 1) % m.momWindowSamples
	m.shortWriteIdx = (m.shortWriteIdx + 1) % m.shortWindowSamples
	m.totalFrames++

	m.neededFrames--
	if m.neededFrames <= 0 {
		m.neededFrames = m.blockHop
		return m.emitBlocks()
	}

	return nil
}

func (m *Meter) trackTruePeak(c int, x float64) {
	r := m.oversamplers[c]
	if r == nil {
		if ax := math.Abs(x); ax > m.truePeak[c] {
			m.truePeak[c] = ax
		}

		return
	}

	for _, os := range r.Process([]float64{x}) {
		if ax := math.Abs(os); ax > m.truePeak[c] {
			m.truePeak[c] = ax
		}
	}
}

func (m *Meter) emitBlocks() error {
	histogram := m.mode.Has(ModeHistogram)

	if m.mode.Has(ModeI) && m.totalFrames >= int64(m.momWindowSamples) {
		ms := m.meanSquare(m.momRunningSums, m.momWindowSamples)
		if err := m.recordBlock(ms, histogram, &m.blockList400, &m.histogram400); err != nil {
			return err
		}
	}

	if m.mode.Has(ModeLRA) && m.totalFrames >= int64(m.shortWindowSamples) {
		ms := m.meanSquare(m.shortRunningSums, m.shortWindowSamples)
		if err := m.recordBlock(ms, histogram, &m.blockList3000, &m.histogram3000); err != nil {
			return err
		}
	}

	return nil
}

func (m *Meter) meanSquare(runningSums []float64, windowSamples int) float64 {
	sum := 0.0
	for _, s := range runningSums {
		sum += s
	}

	return sum / float64(windowSamples)
}

func (m *Meter) recordBlock(ms float64, histogram bool, list *[]float64, hist *[histogramBins]uint64) error {
	if histogram {
		l := loudnessFromMeanSquare(ms)
		if l < histogramLowBound {
			// Below the absolute gate: no reduction counts this block.
			return nil
		}

		hist[histogramBin(l)]++
		return nil
	}

	if len(*list) >= maxBlockHistory {
		return ErrOutOfMemory
	}

	*list = append(*list, ms)

	return nil
}

// histogramBin maps a loudness value in LU/LUFS to its bin index in
// [0, histogramBins), clamping out-of-range values to the edge bins.
func histogramBin(l float64) int {
	if l >= histogramHighBound {
		return int(math.Round((histogramHighBound-histogramLowBound)/histogramBinWidth)) - 1
	}

	i := int((l - histogramLowBound) / histogramBinWidth)
	if i < 0 {
		return 0
	}

	if i >= histogramBins {
		return histogramBins - 1
	}

	return i
}

// binLoudness returns the loudness at the midpoint of histogram bin i.
func binLoudness(i int) float64 {
	return histogramLowBound + (float64(i)+0.5)*histogramBinWidth
}

// loudnessFromMeanSquare converts a weighted mean-square energy to LUFS
// using the BS.1770 reference offset. Mean squares that are exactly zero
// map to the negative-infinity sentinel.
func loudnessFromMeanSquare(ms float64) float64 {
	if ms <= 0 {
		return negativeInfinity
	}

	return -0.691 + 10.0*math.Log10(ms)
}

// meanSquareFromLoudness inverts loudnessFromMeanSquare, used to recover
// an approximate linear energy from a histogram bin midpoint.
func meanSquareFromLoudness(l float64) float64 {
	return math.Pow(10, (l+0.691)/10)
}

// Momentary returns the current momentary (400 ms) loudness in LUFS, or
// the negative-infinity sentinel for silence.
func (m *Meter) Momentary() (float64, error) {
	if !m.mode.Has(ModeM) {
		return 0, ErrInvalidMode
	}

	return loudnessFromMeanSquare(m.meanSquare(m.momRunningSums, m.momWindowSamples)), nil
}

// ShortTerm returns the current short-term (3 s) loudness in LUFS, or
// the negative-infinity sentinel for silence.
func (m *Meter) ShortTerm() (float64, error) {
	if !m.mode.Has(ModeS) {
		return 0, ErrInvalidMode
	}

	return loudnessFromMeanSquare(m.meanSquare(m.shortRunningSums, m.shortWindowSamples)), nil
}
