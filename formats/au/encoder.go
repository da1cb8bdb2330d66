// SPDX-License-Identifier: EPL-2.0

package au

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
)

// Encode writes a big-endian AU header for p and leaves w at the start of
// the data. The sampling rate is rounded to an integer. Records go into the
// annotation after an "AFsp" marker; the annotation is padded with NULs so
// the data starts on a multiple of 8.
func Encode(w *binio.Writer, p *formats.WriteParams, recs *info.Records) (*formats.Header, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	enc, ok := encodingFor(p.Format.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, p.Format.Kind)
	}
	if p.SampleRate > math.MaxUint32 {
		return nil, fmt.Errorf("%w: sampling rate %g", formats.ErrInconsistent, p.SampleRate)
	}
	p.Format.Order = codec.BigEndian
	be := binary.BigEndian

	var ann []byte
	if recs != nil && recs.Len() > 0 {
		ann = append([]byte(afspMarker), recs.Blob()...)
	}
	annLen := max(len(ann), 4)
	annLen += (8 - (fixedSize+annLen)%8) % 8
	offset := fixedSize + annLen

	h := &formats.Header{Declared: p.DataBytes()}
	size := uint32(unknownLen)
	if h.Declared >= 0 {
		size = formats.Clamp32(h.Declared)
	}
	base := w.Pos()

	w.Text(magic)
	w.U32(be, uint32(offset))
	w.U32(be, size)
	w.U32(be, enc)
	w.U32(be, uint32(math.Round(p.SampleRate)))
	w.U32(be, uint32(p.NumChannels))
	w.Bytes(ann)
	w.Zeros(annLen - len(ann))
	if err := w.Err(); err != nil {
		return nil, err
	}
	h.DataStart = w.Pos()
	h.Fields = []formats.SizeField{{
		Name:  "AU data size",
		At:    base + 8,
		Order: codec.BigEndian,
		Value: func(n, _ int64) uint32 { return formats.Clamp32(n) },
	}}
	return h, nil
}
