package weighting

import (
	"math"

	"github.com/arqu-audio/r128meter/dsp/filter/biquad"
)

// ITU-R BS.1770 K-weighting reference filter parameters, as measured at
// 48 kHz and re-discretised for other rates via the same bilinear
// transform with pre-warping (K = tan(pi*f0/sr)) this package already
// uses for its IEC 61672 curves.
const (
	kShelfFreq = 1681.9744509555319
	kShelfGain = 3.999843853973347
	kShelfQ    = 0.7071752369554196

	kHighpassFreq = 38.13547087602444
	kHighpassQ    = 0.5003270373238773
)

// NewK returns a two-stage [biquad.Chain] implementing the ITU-R BS.1770
// K-weighting curve: a high-shelf stage boosting above ~1.7 kHz, cascaded
// with a high-pass stage below ~38 Hz. Unlike the IEC 61672 curves in
// this package it is not normalized to 0 dB at 1 kHz; its calibration is
// folded into the loudness engine's −0.691 LUFS offset instead.
//
// Panics if sampleRate <= 0.
func NewK(sampleRate float64) *biquad.Chain {
	if sampleRate <= 0 {
		panic("weighting: sample rate must be positive")
	}

	return biquad.NewChain([]biquad.Coefficients{
		kHighShelf(sampleRate),
		kHighpass(sampleRate),
	})
}

// kHighShelf computes the BS.1770 high-shelf stage using the pre-warped
// bilinear transform of the reference analog prototype.
func kHighShelf(sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * kShelfFreq / sr)
	vh := math.Pow(10, kShelfGain/20)
	vb := math.Pow(vh, 0.4996667741545416)

	a0 := 1 + k/kShelfQ + k*k

	return biquad.Coefficients{
		B0: (vh + vb*k/kShelfQ + k*k) / a0,
		B1: 2 * (k*k - vh) / a0,
		B2: (vh - vb*k/kShelfQ + k*k) / a0,
		A1: 2 * (k*k - 1) / a0,
		A2: (1 - k/kShelfQ + k*k) / a0,
	}
}

// kHighpass computes the BS.1770 high-pass stage using the pre-warped
// bilinear transform of the reference analog prototype.
func kHighpass(sr float64) biquad.Coefficients {
	k := math.Tan(math.Pi * kHighpassFreq / sr)
	a0 := 1 + k/kHighpassQ + k*k

	return biquad.Coefficients{
		B0: 1,
		B1: -2,
		B2: 1,
		A1: 2 * (k*k - 1) / a0,
		A2: (1 - k/kHighpassQ + k*k) / a0,
	}
}
