// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-audio/riff"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
)

var le = binary.LittleEndian

// formatTag picks the WAVE format tag for a sample kind.
func formatTag(k codec.Kind) (uint16, error) {
	switch k {
	case codec.Uint8, codec.Int16, codec.Int24, codec.Int32:
		return tagPCM, nil
	case codec.Float32, codec.Float64:
		return tagFloat, nil
	case codec.ALaw:
		return tagALaw, nil
	case codec.MuLaw:
		return tagMuLaw, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, k)
}

// Encode writes a WAVE header for p and leaves w at the start of the data.
// Sample data is always little-endian; p.Format.Order is set accordingly.
// Records with a LIST/INFO equivalent go there, the rest into an afsp chunk.
func Encode(w *binio.Writer, p *formats.WriteParams, recs *info.Records) (*formats.Header, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	tag, err := formatTag(p.Format.Kind)
	if err != nil {
		return nil, err
	}
	p.Format.Order = codec.LittleEndian
	if p.SampleRate > math.MaxUint32 {
		return nil, fmt.Errorf("%w: sampling rate %g", formats.ErrInconsistent, p.SampleRate)
	}

	width := p.Format.Width()
	nchan := p.NumChannels
	blockAlign := nchan * width
	rate := uint32(math.Round(p.SampleRate))
	mask, hasMask := p.Speakers.Mask()

	extensible := false
	switch tag {
	case tagPCM:
		extensible = nchan > 2 || p.Res < 8*width || 8*width > 16 || hasMask
	case tagFloat:
		extensible = nchan > 2 || hasMask
	}
	if blockAlign > math.MaxUint16 || nchan > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d channels", formats.ErrUnsupported, nchan)
	}

	h := &formats.Header{Declared: p.DataBytes(), PadOdd: true}
	declared := max(h.Declared, 0)
	frames := max(p.NumFrames, 0)
	base := w.Pos()

	// The header is assembled in memory so the RIFF size can be filled in
	// before anything reaches a sequential stream.
	var hb bytes.Buffer
	hw := binio.NewWriter(&hb)
	hw.Bytes(riff.RiffID[:])
	hw.U32(le, 0)
	hw.Bytes(riff.WavFormatID[:])

	hw.Bytes(riff.FmtID[:])
	switch {
	case extensible:
		hw.U32(le, 40)
		hw.U16(le, tagExtensible)
	case tag == tagPCM:
		hw.U32(le, 16)
		hw.U16(le, tag)
	default:
		hw.U32(le, 18)
		hw.U16(le, tag)
	}
	hw.U16(le, uint16(nchan))
	hw.U32(le, rate)
	hw.U32(le, rate*uint32(blockAlign))
	hw.U16(le, uint16(blockAlign))
	hw.U16(le, uint16(8*width))
	switch {
	case extensible:
		hw.U16(le, 22)
		hw.U16(le, uint16(p.Res))
		hw.U32(le, mask)
		hw.U16(le, tag)
		hw.Bytes(subFormatTail[:])
	case tag != tagPCM:
		hw.U16(le, 0)
	}

	if tag != tagPCM {
		hw.Bytes(factID[:])
		hw.U32(le, 4)
		h.Fields = append(h.Fields, formats.SizeField{
			Name:  "fact frames",
			At:    base + hw.Pos(),
			Order: codec.LittleEndian,
			Value: func(_, frames int64) uint32 { return formats.Clamp32(frames) },
		})
		hw.U32(le, formats.Clamp32(frames))
	}

	if recs != nil {
		rest := recs.Clone()
		writeInfoList(hw, rest)
		if rest.Len() > 0 {
			blob := rest.Blob()
			n := int64(len(afspMarker) + len(blob))
			hw.Bytes(afspID[:])
			hw.U32(le, uint32(n))
			hw.Text(afspMarker)
			hw.Bytes(blob)
			hw.Zeros(int(n & 1))
		}
	}

	hw.Bytes(riff.DataFormatID[:])
	hw.U32(le, formats.Clamp32(declared))
	if err := hw.Flush(); err != nil {
		return nil, err
	}

	b := hb.Bytes()
	hdrLen := int64(len(b)) - 8
	le.PutUint32(b[4:8], formats.Clamp32(hdrLen+pad2(declared)))
	w.Bytes(b)
	if err := w.Err(); err != nil {
		return nil, err
	}
	h.DataStart = w.Pos()

	h.Fields = append(h.Fields,
		formats.SizeField{
			Name:  "RIFF size",
			At:    base + 4,
			Order: codec.LittleEndian,
			Value: func(n, _ int64) uint32 { return formats.Clamp32(hdrLen + pad2(n)) },
		},
		formats.SizeField{
			Name:  "data size",
			At:    h.DataStart - 4,
			Order: codec.LittleEndian,
			Value: func(n, _ int64) uint32 { return formats.Clamp32(n) },
		},
	)
	return h, nil
}

// writeInfoList moves the records that have an INFO tag from recs into a
// LIST/INFO chunk.
func writeInfoList(w *binio.Writer, recs *info.Records) {
	type sub struct {
		tag  string
		text string
	}
	var subs []sub
	size := int64(4)
	for _, m := range infoMap {
		text, ok := recs.Take(m.id)
		if !ok {
			continue
		}
		subs = append(subs, sub{m.tag, text})
		size += 8 + pad2(int64(len(text)+1))
	}
	if len(subs) == 0 {
		return
	}
	w.Bytes(listID[:])
	w.U32(le, uint32(size))
	w.Bytes(infoID[:])
	for _, s := range subs {
		n := int64(len(s.text) + 1)
		w.Tag(s.tag)
		w.U32(le, uint32(n))
		w.Text(s.text)
		w.Zeros(int(1 + n&1))
	}
}
