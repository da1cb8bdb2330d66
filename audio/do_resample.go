// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// NewPipeline builds the conversion stages over src: resampling to rate when
// it differs from the source rate, then mixing down to mono when mono is
// set. A rate of 0 keeps the source rate.
//
// Example:
//
//	src, _ := afile.Open("speech.wav", afile.DefaultOptions())
//	p, err := audio.NewPipeline(src, 8000, true)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
func NewPipeline(src Source, rate float64, mono bool) (Source, error) {
	if rate < 0 {
		return nil, fmt.Errorf("%w: %g Hz", ErrInvalidRate, rate)
	}
	out := src
	if rate != 0 && rate != src.SampleRate() {
		r, err := NewResampler(src, rate)
		if err != nil {
			return nil, err
		}
		out = r
	}
	if mono && out.Channels() > 1 {
		out = NewMonoMixer(out)
	}
	return out, nil
}

// ReadAll reads src to the end and returns the interleaved samples.
func ReadAll(src Source) ([]float32, error) {
	size := max(src.BufSize(), src.Channels())
	buf := make([]float32, size-size%src.Channels())
	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("reading samples: %w", err)
		}
	}
}
