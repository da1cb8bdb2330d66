// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Source is a stream of interleaved float32 samples. An afile.File open for
// reading is a Source, as are the pipeline stages of this package.
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() float64
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved samples, full scale 1.
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Sink accepts interleaved float32 samples. An afile.File open for writing
// is a Sink.
type Sink interface {
	Channels() int
	WriteFloat32(src []float32) (int, error)
}

// Copy streams src into dst until src is exhausted and returns the number of
// samples copied. Both sides must have the same channel count.
func Copy(dst Sink, src Source) (int64, error) {
	if dst.Channels() != src.Channels() {
		return 0, fmt.Errorf("%w: %d channels into %d", ErrChannelMismatch, src.Channels(), dst.Channels())
	}
	size := max(src.BufSize(), src.Channels())
	buf := make([]float32, size-size%src.Channels())

	var total int64
	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			if _, werr := dst.WriteFloat32(buf[:n]); werr != nil {
				return total, fmt.Errorf("writing samples: %w", werr)
			}
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("reading samples: %w", err)
		}
	}
}
