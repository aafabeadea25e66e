package loudness

// SamplePeak returns the maximum absolute sample value observed on the
// given channel since construction or the last Reset.
func (m *Meter) SamplePeak(channel int) (float64, error) {
	if !m.mode.Has(ModeSamplePeak) {
		return 0, ErrInvalidMode
	}

	if channel < 0 || channel >= m.channels {
		return 0, ErrInvalidChannelIndex
	}

	return m.samplePeak[channel], nil
}

// TruePeak returns the maximum absolute oversampled inter-sample peak
// observed on the given channel since construction or the last Reset.
func (m *Meter) TruePeak(channel int) (float64, error) {
	if !m.mode.Has(ModeTruePeak) {
		return 0, ErrInvalidMode
	}

	if channel < 0 || channel >= m.channels {
		return 0, ErrInvalidChannelIndex
	}

	return m.truePeak[channel], nil
}
