// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"fmt"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
	"github.com/ik5/audfile/logger"
	"github.com/ik5/audfile/speaker"
)

// Unknown length marker for sample counts and byte lengths.
const UnknownLen int64 = -1

// HeaderlessParams describe raw sample data with no header.
type HeaderlessParams struct {
	Kind       codec.Kind      `yaml:"format"`
	Order      codec.ByteOrder `yaml:"order"`
	Channels   int             `yaml:"channels"`
	SampleRate float64         `yaml:"sample_rate"`
	Offset     int64           `yaml:"offset"`
	FullScale  float64         `yaml:"full_scale"`
}

// DefaultHeaderless is 16-bit little-endian mono at 8 kHz.
func DefaultHeaderless() *HeaderlessParams {
	return &HeaderlessParams{Kind: codec.Int16, Order: codec.LittleEndian, Channels: 1, SampleRate: 8000}
}

// DecodeOptions are shared by all header decoders.
type DecodeOptions struct {
	Log        *logger.Logger
	InfoMax    int
	Headerless *HeaderlessParams
}

// ReadParams is what a decoder learns from a header.
type ReadParams struct {
	Container   Container
	Format      codec.Format
	Res         int // significant bits per sample
	NumChannels int
	// NumSamples counts samples over all channels, UnknownLen if the data
	// extends to the end of a sequential stream.
	NumSamples int64
	SampleRate float64
	// FullScale is the file full scale, 0 for the native value of the format.
	FullScale float64
	DataStart int64
	DataLen   int64
	Info      *info.Records
	Layout    *info.Layout
	Speakers  speaker.Config
}

// NewReadParams returns parameters with fresh records and layout.
func NewReadParams(c Container, o DecodeOptions) *ReadParams {
	return &ReadParams{
		Container:  c,
		NumSamples: UnknownLen,
		DataLen:    UnknownLen,
		Info:       info.NewRecords(o.InfoMax),
		Layout:     info.NewLayout(),
	}
}

// Frames is the number of sample frames, UnknownLen when not known.
func (p *ReadParams) Frames() int64 {
	if p.NumSamples < 0 || p.NumChannels < 1 {
		return UnknownLen
	}
	return p.NumSamples / int64(p.NumChannels)
}

// ResolveData reconciles the declared data extent with the stream and sets
// NumSamples. DataStart is absolute. A declared length of UnknownLen runs to
// the end of the stream when its size is known. Data extending past the end
// of the stream and partial frames are trimmed with a warning.
func (p *ReadParams) ResolveData(r *binio.Reader, log *logger.Logger) error {
	if p.NumChannels < 1 {
		return fmt.Errorf("%w: %d channels", ErrInconsistent, p.NumChannels)
	}
	if p.Res == 0 {
		p.Res = p.Format.Kind.Bits()
	}
	size := r.Size()
	if p.DataLen == UnknownLen {
		if size < 0 {
			p.NumSamples = UnknownLen
			return nil
		}
		p.DataLen = max(size-p.DataStart, 0)
	}
	if size >= 0 && p.DataStart+p.DataLen > size {
		avail := max(size-p.DataStart, 0)
		log.Warn("%s: data length %d exceeds file, using %d", p.Container, p.DataLen, avail)
		p.DataLen = avail
	}
	w := int64(p.Format.Width())
	if w == 0 {
		return nil
	}
	n := p.DataLen / w
	if n*w != p.DataLen {
		log.Warn("%s: data length %d is not a multiple of the sample size", p.Container, p.DataLen)
	}
	return p.SetSamples(n, log)
}

// SetSamples sets the total sample count, truncating to whole frames with a
// warning.
func (p *ReadParams) SetSamples(n int64, log *logger.Logger) error {
	if n < 0 {
		p.NumSamples = UnknownLen
		return nil
	}
	nc := int64(p.NumChannels)
	if n%nc != 0 {
		log.Warn("%s: %d samples is not a multiple of %d channels, truncated", p.Container, n, nc)
		n -= n % nc
	}
	p.NumSamples = n
	if w := int64(p.Format.Width()); w > 0 {
		p.DataLen = n * w
	}
	return nil
}

// Validate checks the fields every decoder must fill.
func (p *ReadParams) Validate() error {
	switch {
	case p.Format.Kind == codec.Undefined:
		return fmt.Errorf("%w: sample format", ErrMissingChunk)
	case p.NumChannels < 1:
		return fmt.Errorf("%w: %d channels", ErrInconsistent, p.NumChannels)
	case p.SampleRate <= 0:
		return fmt.Errorf("%w: sampling rate %g", ErrInconsistent, p.SampleRate)
	case p.Res < 1 || (p.Format.Width() > 0 && p.Res > 8*p.Format.Width()):
		return fmt.Errorf("%w: %d bits in a %d-byte sample", ErrInconsistent, p.Res, p.Format.Width())
	}
	return nil
}

// WriteParams request a new file.
type WriteParams struct {
	Container   Container
	Format      codec.Format
	Res         int // 0 for the full container width
	NumChannels int
	SampleRate  float64
	// NumFrames is the frame count if known in advance, else UnknownLen.
	NumFrames int64
	Speakers  speaker.Config
}

// DataBytes is the announced data length, UnknownLen if frames are unknown
// or the format has variable width.
func (p *WriteParams) DataBytes() int64 {
	w := int64(p.Format.Width())
	if p.NumFrames < 0 || w == 0 {
		return UnknownLen
	}
	return p.NumFrames * int64(p.NumChannels) * w
}

// Check validates the request independently of the container.
func (p *WriteParams) Check() error {
	if p.NumChannels < 1 {
		return fmt.Errorf("%w: %d channels", ErrInconsistent, p.NumChannels)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sampling rate %g", ErrInconsistent, p.SampleRate)
	}
	if p.Format.Kind == codec.Undefined {
		return fmt.Errorf("%w: no sample format", ErrUnsupported)
	}
	if p.Res == 0 {
		p.Res = p.Format.Kind.Bits()
	}
	if w := p.Format.Width(); w > 0 && (p.Res < 1 || p.Res > 8*w) {
		return fmt.Errorf("%w: %d bits in a %d-byte sample", ErrInconsistent, p.Res, w)
	}
	if len(p.Speakers) > p.NumChannels {
		return fmt.Errorf("%w: %d speakers for %d channels", speaker.ErrTooMany, len(p.Speakers), p.NumChannels)
	}
	return nil
}
