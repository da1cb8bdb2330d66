// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audfile/utils"
)

// maxEmptyReads bounds consecutive reads that return neither samples nor an
// error.
const maxEmptyReads = 100

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	src      Source
	dstRate  float64
	ratio    float64 // srcRate / dstRate - how many source frames per output frame
	channels int

	// Four frames around the output position:
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool

	// Position of the next output frame between frames[1] and frames[2]
	pos float64

	// Block of source samples not yet taken into frames
	srcBuf   []float32
	block    []float32
	srcEOF   bool
	finished bool

	// One-pole low-pass filter state for anti-aliasing (when downsampling)
	filterState []float32
	useFilter   bool
	filterAlpha float32
}

// NewResampler converts src to dstRate Hz. A rate equal to the source rate
// passes every frame through unchanged.
func NewResampler(src Source, dstRate float64) (*Resampler, error) {
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %g Hz to %g Hz", ErrInvalidRate, src.SampleRate(), dstRate)
	}
	channels := src.Channels()
	ratio := src.SampleRate() / dstRate

	// Simple one-pole low-pass filter when downsampling
	useFilter := ratio > 1.0
	var filterAlpha float32
	if useFilter {
		filterAlpha = 0.5
	}

	size := max(src.BufSize(), channels)
	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, size-size%channels),
		useFilter:   useFilter,
		filterAlpha: filterAlpha,
		filterState: make([]float32, channels),
	}
	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}
	return r, nil
}

func (r *Resampler) SampleRate() float64 { return r.dstRate }
func (r *Resampler) Channels() int       { return r.channels }
func (r *Resampler) BufSize() int        { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. It reports false at the
// end of the source.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for empty := 0; len(r.block) < r.channels; empty++ {
		if r.srcEOF {
			return false, nil
		}
		if empty >= maxEmptyReads {
			return false, io.ErrNoProgress
		}
		n, err := r.src.ReadSamples(r.srcBuf)
		r.block = r.srcBuf[:n-n%r.channels]
		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("reading resampler source: %w", err)
		}
	}
	copy(dst, r.block[:r.channels])
	r.block = r.block[r.channels:]

	if r.useFilter {
		if !r.primed && !r.hasFrame[1] {
			// Start from the first frame to avoid a warm-up transient
			copy(r.filterState, dst)
		}
		for c := range r.channels {
			dst[c] = utils.LowPass(dst[c], r.filterState[c], r.filterAlpha)
			r.filterState[c] = dst[c]
		}
	}
	return true, nil
}

// prime loads the first frames. The frame before the first is a copy of it.
func (r *Resampler) prime() error {
	ok, err := r.nextFrame(r.frames[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.frames[0], r.frames[1])
	r.hasFrame[0], r.hasFrame[1] = true, true
	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.frames[i])
		if err != nil {
			return err
		}
		r.hasFrame[i] = ok
		if !ok {
			break
		}
	}
	r.primed = true
	return nil
}

// advance shifts the frame window by one source frame. It returns io.EOF
// once the window has moved past the last frame.
func (r *Resampler) advance() error {
	first := r.frames[0]
	copy(r.frames[:], r.frames[1:])
	r.frames[3] = first
	copy(r.hasFrame[:], r.hasFrame[1:])
	r.hasFrame[3] = false
	if r.hasFrame[2] {
		ok, err := r.nextFrame(r.frames[3])
		if err != nil {
			return err
		}
		r.hasFrame[3] = ok
	}
	if !r.hasFrame[1] {
		return io.EOF
	}
	return nil
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.finished {
		return 0, io.EOF
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			if errors.Is(err, io.EOF) {
				r.finished = true
			}
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels
	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				if errors.Is(err, io.EOF) {
					r.finished = true
				}
				return written * r.channels, err
			}
		}

		alpha := float32(r.pos)
		for c := range r.channels {
			y0 := r.frames[0][c]
			y1 := r.frames[1][c]
			y2 := y1
			if r.hasFrame[2] {
				y2 = r.frames[2][c]
			}
			y3 := y2
			if r.hasFrame[3] {
				y3 = r.frames[3][c]
			}
			dst[written*r.channels+c] = utils.CubicInterpolate(y0, y1, y2, y3, alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
