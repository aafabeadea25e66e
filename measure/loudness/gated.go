package loudness

// weightedBlock pairs a block's mean-square energy with its contribution
// count: 1 for a block-list entry, the bin count for a histogram entry.
type weightedBlock struct {
	ms     float64
	weight float64
}

// blocks400 returns the 400 ms window's accumulated blocks, in whichever
// storage representation this meter uses.
func (m *Meter) blocks400() []weightedBlock {
	if m.mode.Has(ModeHistogram) {
		return blocksFromHistogram(&m.histogram400)
	}

	return blocksFromList(m.blockList400)
}

func blocksFromList(list []float64) []weightedBlock {
	out := make([]weightedBlock, len(list))
	for i, ms := range list {
		out[i] = weightedBlock{ms: ms, weight: 1}
	}

	return out
}

func blocksFromHistogram(hist *[histogramBins]uint64) []weightedBlock {
	var out []weightedBlock

	for i, count := range hist {
		if count == 0 {
			continue
		}

		out = append(out, weightedBlock{
			ms:     meanSquareFromLoudness(binLoudness(i)),
			weight: float64(count),
		})
	}

	return out
}

// Global returns the gated integrated (program) loudness in LUFS,
// computed over all 400 ms blocks accumulated since construction or the
// last Reset, using the two-stage BS.1770 absolute/relative gate.
func (m *Meter) Global() (float64, error) {
	if !m.mode.Has(ModeI) {
		return 0, ErrInvalidMode
	}

	return gatedLoudness(m.blocks400()), nil
}

// GlobalMultiple returns the gated integrated loudness pooled across
// several independently accumulated meters, as if their block histories
// had been recorded by a single meter. All meters must have ModeI
// enabled and must agree on block-list vs. histogram storage.
func GlobalMultiple(meters []*Meter) (float64, error) {
	pooled, err := pooledBlocks(meters, ModeI, (*Meter).blocks400)
	if err != nil {
		return 0, err
	}

	return gatedLoudness(pooled), nil
}

// pooledBlocks validates that every meter supports the required mode and
// shares a storage strategy, then concatenates their blocks.
func pooledBlocks(meters []*Meter, required Mode, extract func(*Meter) []weightedBlock) ([]weightedBlock, error) {
	if len(meters) == 0 {
		return nil, ErrInvalidMode
	}

	histogram := meters[0].mode.Has(ModeHistogram)

	var pooled []weightedBlock

	for _, mtr := range meters {
		if mtr == nil || !mtr.mode.Has(required) {
			return nil, ErrInvalidMode
		}

		if mtr.mode.Has(ModeHistogram) != histogram {
			return nil, ErrInvalidMode
		}

		pooled = append(pooled, extract(mtr)...)
	}

	return pooled, nil
}

// gatedLoudness implements the two-pass BS.1770 gated loudness reduction
// over an arbitrary set of weighted blocks.
func gatedLoudness(blocks []weightedBlock) float64 {
	var ungatedSum, ungatedWeight float64

	for _, b := range blocks {
		if loudnessFromMeanSquare(b.ms) >= absThreshold {
			ungatedSum += b.ms * b.weight
			ungatedWeight += b.weight
		}
	}

	if ungatedWeight == 0 {
		return negativeInfinity
	}

	relGate := loudnessFromMeanSquare(ungatedSum/ungatedWeight) + relThreshold

	var gatedSum, gatedWeight float64

	for _, b := range blocks {
		if l := loudnessFromMeanSquare(b.ms); l >= absThreshold && l >= relGate {
			gatedSum += b.ms * b.weight
			gatedWeight += b.weight
		}
	}

	if gatedWeight == 0 {
		return negativeInfinity
	}

	return loudnessFromMeanSquare(gatedSum / gatedWeight)
}
