// Package weighting provides A, B, C, and Z frequency weighting filters
// per IEC 61672, plus the ITU-R BS.1770 K-weighting curve used for
// loudness measurement.
//
// Frequency weighting curves shape the magnitude response of a signal to
// approximate the frequency-dependent sensitivity of human hearing.
// The standard defines four curves:
//
//   - A-weighting (6th order): approximates the 40-phon equal-loudness contour.
//     Most widely used for noise measurements (e.g., LAeq, LAmax).
//   - B-weighting (5th order): approximates the 70-phon equal-loudness contour.
//     Rarely used in modern practice.
//   - C-weighting (4th order): approximates the 100-phon equal-loudness contour.
//     Used for peak measurements and C-A difference calculations.
//   - Z-weighting (zero-weighting): unity gain at all frequencies, a flat
//     reference defined in IEC 61672:2003 to replace the unweighted "Linear"
//     designation.
//
// The IEC 61672 curves are normalized to 0 dB at the 1 kHz reference
// frequency; [TypeK] (see [NewK]) is not, since its calibration is the
// -0.691 LUFS offset applied by the loudness engine that consumes it.
// The returned [biquad.Chain] can be used for both real-time sample-by-sample
// processing and offline block processing.
//
// The implementation uses the bilinear transform of the IEC 61672 analog
// prototype poles to compute digital biquad coefficients. Each IEC 61672
// curve is decomposed into a second-order high-pass section, first-order
// low-pass sections and (for A and B) first-order high-pass sections,
// cascaded via [biquad.Chain]; [TypeK] cascades a high-shelf and a
// high-pass section built from the BS.1770 reference parameters.
package weighting
