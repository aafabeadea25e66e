package loudness

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	lraLowPercentile  = 0.10
	lraHighPercentile = 0.95
)

// blocks3000 returns the 3 s window's accumulated blocks, in whichever
// storage representation this meter uses.
func (m *Meter) blocks3000() []weightedBlock {
	if m.mode.Has(ModeHistogram) {
		return blocksFromHistogram(&m.histogram3000)
	}

	return blocksFromList(m.blockList3000)
}

// Range returns the EBU Tech 3342 loudness range (LRA) in LU, computed
// over all 3 s blocks accumulated since construction or the last Reset.
func (m *Meter) Range() (float64, error) {
	if !m.mode.Has(ModeLRA) {
		return 0, ErrInvalidMode
	}

	return loudnessRange(m.blocks3000()), nil
}

// RangeMultiple returns the LRA pooled across several independently
// accumulated meters. All meters must have ModeLRA enabled and must
// agree on block-list vs. histogram storage.
func RangeMultiple(meters []*Meter) (float64, error) {
	pooled, err := pooledBlocks(meters, ModeLRA, (*Meter).blocks3000)
	if err != nil {
		return 0, err
	}

	return loudnessRange(pooled), nil
}

// loudnessRange implements the EBU Tech 3342 gated percentile range over
// an arbitrary set of weighted 3 s blocks: absolute gate at -70 LUFS,
// then a relative gate 20 LU below the ungated mean, then the spread
// between the 10th and 95th percentile of what survives.
func loudnessRange(blocks []weightedBlock) float64 {
	var ungatedSum, ungatedWeight float64

	type survivor struct {
		loudness float64
		weight   float64
	}

	absGated := make([]survivor, 0, len(blocks))

	for _, b := range blocks {
		l := loudnessFromMeanSquare(b.ms)
		if l >= absThreshold {
			ungatedSum += b.ms * b.weight
			ungatedWeight += b.weight
			absGated = append(absGated, survivor{loudness: l, weight: b.weight})
		}
	}

	if ungatedWeight == 0 {
		return 0
	}

	relGate := loudnessFromMeanSquare(ungatedSum/ungatedWeight) + lraRelThreshold

	var values, weights []float64

	for _, s := range absGated {
		if s.loudness >= relGate {
			values = append(values, s.loudness)
			weights = append(weights, s.weight)
		}
	}

	if len(values) < 2 {
		return 0
	}

	sort.Sort(&weightedSeries{values: values, weights: weights})

	low := stat.Quantile(lraLowPercentile, stat.LinInterp, values, weights)
	high := stat.Quantile(lraHighPercentile, stat.LinInterp, values, weights)

	return high - low
}

// weightedSeries sorts parallel value/weight slices together by value,
// as required by gonum's stat.Quantile.
type weightedSeries struct {
	values  []float64
	weights []float64
}

func (s *weightedSeries) Len() int { return len(s.values) }

func (s *weightedSeries) Less(i, j int) bool { return s.values[i] < s.values[j] }

func (s *weightedSeries) Swap(i, j int) {
	s.values[i], s.values[j] = s.values[j], s.values[i]
	s.weights[i], s.weights[j] = s.weights[j], s.weights[i]
}
