// Command r128meter measures EBU R128 / ITU-R BS.1770 loudness and peak
// levels of a raw interleaved PCM stream.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/arqu-audio/r128meter/measure/loudness"
)

func main() {
	var (
		channels  = flag.Int("channels", 2, "number of interleaved input channels")
		rate      = flag.Float64("rate", 48000, "input sample rate in Hz")
		format    = flag.String("format", "s16", "sample format: s16, s32, f32, f64")
		histogram = flag.Bool("histogram", false, "use O(1)-memory histogram storage instead of an unbounded block list")
		input     = flag.String("i", "-", "input file, or - for stdin")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags]\n\nMeasures loudness and peak levels of raw interleaved PCM.\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if err := run(*channels, *rate, *format, *histogram, *input); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(channels int, rate float64, format string, histogram bool, inputPath string) error {
	r, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer r.Close()

	mode := loudness.ModeI | loudness.ModeLRA | loudness.ModeSamplePeak | loudness.ModeTruePeak
	if histogram {
		mode |= loudness.ModeHistogram
	}

	m := loudness.NewMeter(
		loudness.WithChannels(channels),
		loudness.WithSampleRate(rate),
		loudness.WithMode(mode),
	)

	if err := ingest(m, r, format); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	return report(m, channels)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

const ingestChunkFrames = 4096

// ingest streams r through the meter in fixed-size chunks, decoding each
// sample according to format.
func ingest(m *loudness.Meter, r io.Reader, format string) error {
	switch format {
	case "s16":
		return ingestInt16(m, r)
	case "s32":
		return ingestInt32(m, r)
	case "f32":
		return ingestFloat32(m, r)
	case "f64":
		return ingestFloat64(m, r)
	default:
		return fmt.Errorf("unsupported format %q (want s16, s32, f32, or f64)", format)
	}
}

func ingestInt16(m *loudness.Meter, r io.Reader) error {
	buf := make([]int16, ingestChunkFrames)

	for {
		n, err := readSamples(r, buf, 2, func(b []byte, i int) int16 {
			return int16(binary.LittleEndian.Uint16(b[i*2:]))
		})
		if n > 0 {
			if err := m.AddFramesInt16(buf[:n]); err != nil {
				return err
			}
		}

		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}
	}
}

func ingestInt32(m *loudness.Meter, r io.Reader) error {
	buf := make([]int32, ingestChunkFrames)

	for {
		n, err := readSamples(r, buf, 4, func(b []byte, i int) int32 {
			return int32(binary.LittleEndian.Uint32(b[i*4:]))
		})
		if n > 0 {
			if err := m.AddFramesInt32(buf[:n]); err != nil {
				return err
			}
		}

		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}
	}
}

func ingestFloat32(m *loudness.Meter, r io.Reader) error {
	buf := make([]float32, ingestChunkFrames)

	for {
		n, err := readSamples(r, buf, 4, func(b []byte, i int) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		})
		if n > 0 {
			if err := m.AddFramesFloat32(buf[:n]); err != nil {
				return err
			}
		}

		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}
	}
}

func ingestFloat64(m *loudness.Meter, r io.Reader) error {
	buf := make([]float64, ingestChunkFrames)

	for {
		n, err := readSamples(r, buf, 8, func(b []byte, i int) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
		})
		if n > 0 {
			if err := m.AddFramesFloat64(buf[:n]); err != nil {
				return err
			}
		}

		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}
	}
}

// readSamples fills dst from r, decoding bytesPerSample-wide little-endian
// values with decode, and returns the number of samples filled. It
// returns io.EOF once no further full sample could be read.
func readSamples[T any](r io.Reader, dst []T, bytesPerSample int, decode func([]byte, int) T) (int, error) {
	raw := make([]byte, len(dst)*bytesPerSample)

	n, err := io.ReadFull(r, raw)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, err
	}

	full := n / bytesPerSample
	for i := range full {
		dst[i] = decode(raw, i)
	}

	if full == 0 {
		return 0, io.EOF
	}

	if n < len(raw) {
		return full, io.EOF
	}

	return full, nil
}

func report(m *loudness.Meter, channels int) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	global, err := m.Global()
	if err != nil {
		return err
	}

	lra, err := m.Range()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "integrated\t%s\n", formatLUFS(global))
	fmt.Fprintf(w, "loudness range\t%.1f LU\n", lra)

	for c := range channels {
		sp, err := m.SamplePeak(c)
		if err != nil {
			return err
		}

		tp, err := m.TruePeak(c)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "channel %d sample peak\t%.2f dBFS\n", c, linearToDB(sp))
		fmt.Fprintf(w, "channel %d true peak\t%.2f dBTP\n", c, linearToDB(tp))
	}

	return nil
}

func formatLUFS(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf LUFS"
	}

	return fmt.Sprintf("%.1f LUFS", v)
}

func linearToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}
