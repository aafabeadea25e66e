// Package loudness implements EBU R128 / ITU-R BS.1770 loudness
// metering: K-weighted momentary, short-term, and gated integrated
// loudness, EBU Tech 3342 loudness range (LRA), and sample/true peak
// tracking.
//
// A [Meter] is a per-stream state object. It is created with a channel
// count, sample rate, and a [Mode] bitmask selecting which measurements
// to compute, ingests interleaved PCM frames via the AddFrames family of
// methods, and is queried for any subset of the enabled measurements.
// Querying a measurement whose mode flag was not requested at
// construction returns [ErrInvalidMode].
//
// A Meter is not safe for concurrent use by multiple goroutines; each
// stream state must be driven by a single goroutine. The multi-instance
// reducers ([GlobalMultiple], [RangeMultiple]) only read their input
// meters and may be called while other distinct meters are being used
// concurrently elsewhere.
package loudness
