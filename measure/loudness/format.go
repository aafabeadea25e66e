package loudness

const (
	int16Scale = 1.0 / 32768.0
	int32Scale = 1.0 / 2147483648.0
)

// AddFramesInt16 ingests interleaved 16-bit signed PCM frames.
func (m *Meter) AddFramesInt16(samples []int16) error {
	frame := make([]float64, m.channels)

	for i := 0; i+m.channels <= len(samples); i += m.channels {
		for c := range m.channels {
			frame[c] = float64(samples[i+c]) * int16Scale
		}

		if err := m.ingest(frame); err != nil {
			return err
		}
	}

	return nil
}

// AddFramesInt32 ingests interleaved 32-bit signed PCM frames.
func (m *Meter) AddFramesInt32(samples []int32) error {
	frame := make([]float64, m.channels)

	for i := 0; i+m.channels <= len(samples); i += m.channels {
		for c := range m.channels {
			frame[c] = float64(samples[i+c]) * int32Scale
		}

		if err := m.ingest(frame); err != nil {
			return err
		}
	}

	return nil
}

// AddFramesFloat32 ingests interleaved 32-bit float PCM frames in [-1, 1].
func (m *Meter) AddFramesFloat32(samples []float32) error {
	frame := make([]float64, m.channels)

	for i := 0; i+m.channels <= len(samples); i += m.channels {
		for c := range m.channels {
			frame[c] = float64(samples[i+c])
		}

		if err := m.ingest(frame); err != nil {
			return err
		}
	}

	return nil
}

// AddFramesFloat64 ingests interleaved 64-bit float PCM frames in [-1, 1].
func (m *Meter) AddFramesFloat64(samples []float64) error {
	frame := make([]float64, m.channels)

	for i := 0; i+m.channels <= len(samples); i += m.channels {
		copy(frame, samples[i:i+m.channels])

		if err := m.ingest(frame); err != nil {
			return err
		}
	}

	return nil
}
