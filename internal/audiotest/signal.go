// SPDX-License-Identifier: EPL-2.0

// Package audiotest generates test signals, either as interleaved sample
// slices for writing files or as sources for stream pipelines.
package audiotest

import (
	"io"
	"math"
)

// Waveform gives the value of a channel at a frame.
type Waveform func(frame, channel int) float64

// Sine is a sine wave of the given frequency and amplitude. Each channel is
// a quarter period ahead of the previous one.
func Sine(rate, freq, amp float64) Waveform {
	return func(frame, channel int) float64 {
		t := float64(frame) / rate
		return amp * math.Sin(2*math.Pi*freq*t+float64(channel)*math.Pi/2)
	}
}

// Constant is a constant signal.
func Constant(v float64) Waveform {
	return func(int, int) float64 { return v }
}

// Ramp rises from -amp to amp over n frames, offset by channel.
func Ramp(n int, amp float64) Waveform {
	return func(frame, channel int) float64 {
		if n < 2 {
			return 0
		}
		k := (frame + channel) % n
		return amp * (2*float64(k)/float64(n-1) - 1)
	}
}

// Interleaved returns frames of w for nchan channels.
func Interleaved(w Waveform, nchan, frames int) []float64 {
	out := make([]float64, 0, nchan*frames)
	for i := range frames {
		for c := range nchan {
			out = append(out, w(i, c))
		}
	}
	return out
}

// Source plays a waveform as an audio.Source.
type Source struct {
	rate      float64
	channels  int
	frames    int // total frames to generate
	generated int
	wave      Waveform
}

// NewSource creates a source of frames frames.
func NewSource(rate float64, channels, frames int, w Waveform) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, wave: w}
}

// NewSineSource creates a full-scale sine source.
func NewSineSource(rate float64, channels, frames int, freq float64) *Source {
	return NewSource(rate, channels, frames, Sine(rate, freq, 1))
}

// NewSilentSource creates a source of zeros.
func NewSilentSource(rate float64, channels, frames int) *Source {
	return NewSource(rate, channels, frames, Constant(0))
}

// NewConstantSource creates a source with a constant value.
func NewConstantSource(rate float64, channels, frames int, v float64) *Source {
	return NewSource(rate, channels, frames, Constant(v))
}

func (s *Source) SampleRate() float64 { return s.rate }
func (s *Source) Channels() int       { return s.channels }
func (s *Source) BufSize() int        { return 4096 }
func (s *Source) Close() error        { return nil }

// Reset starts the signal again.
func (s *Source) Reset() { s.generated = 0 }

// ReadSamples writes whole frames only and returns io.EOF with the last ones.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.generated >= s.frames {
		return 0, io.EOF
	}
	n := min(len(dst)/s.channels, s.frames-s.generated)
	for i := range n {
		for c := range s.channels {
			dst[i*s.channels+c] = float32(s.wave(s.generated+i, c))
		}
	}
	s.generated += n
	if s.generated >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}
