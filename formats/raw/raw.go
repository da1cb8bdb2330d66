// SPDX-License-Identifier: EPL-2.0

// Package raw handles headerless audio data. Reading takes the data layout
// from formats.HeaderlessParams; writing emits the samples alone.
package raw

import (
	"fmt"

	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
)

// Decode describes the data of a headerless file from o.Headerless, or from
// formats.DefaultHeaderless when that is nil.
func Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error) {
	h := o.Headerless
	if h == nil {
		h = formats.DefaultHeaderless()
	}
	if h.Kind.IsText() {
		return nil, fmt.Errorf("%w: %s data without a header", formats.ErrUnsupported, h.Kind)
	}
	if h.Offset < 0 {
		return nil, fmt.Errorf("%w: data offset %d", formats.ErrInconsistent, h.Offset)
	}

	p := formats.NewReadParams(formats.Headerless, o)
	p.Format.Kind = h.Kind
	p.Format.Order = h.Order
	p.NumChannels = h.Channels
	p.SampleRate = h.SampleRate
	p.FullScale = h.FullScale
	p.DataStart = h.Offset
	if size := r.Size(); size >= 0 && h.Offset > size {
		o.Log.Warn("%s: data offset %d is past the end of the file", p.Container, h.Offset)
		p.DataStart = size
	}
	p.Layout.Add("header", 0, p.DataStart)

	if err := p.ResolveData(r, o.Log); err != nil {
		return nil, err
	}
	if p.DataLen >= 0 {
		p.Layout.Add("data", p.DataStart, p.DataStart+p.DataLen)
	}
	return p, p.Validate()
}

// Encode checks the request. Nothing precedes the data, so records are
// dropped.
func Encode(w *binio.Writer, p *formats.WriteParams, _ *info.Records) (*formats.Header, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	if p.Format.Width() == 0 {
		return nil, fmt.Errorf("%w: %s data without a header", formats.ErrUnsupported, p.Format.Kind)
	}
	return &formats.Header{DataStart: w.Pos(), Declared: p.DataBytes()}, nil
}
