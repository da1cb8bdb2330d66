// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
)

// compressionFor picks the AIFF-C compression type. Plain AIFF has none and
// takes big-endian integers only.
func compressionFor(c formats.Container, k codec.Kind) (compression, error) {
	code := ""
	switch c {
	case formats.AIFF:
		if k.IsPCM() && k != codec.Uint8 {
			return compressions[0], nil
		}
	case formats.AIFFC:
		switch k {
		case codec.Int8, codec.Int16, codec.Int24, codec.Int32:
			code = "NONE"
		case codec.Uint8:
			code = "raw "
		case codec.Float32:
			code = "fl32"
		case codec.Float64:
			code = "fl64"
		case codec.MuLaw:
			code = "ulaw"
		case codec.ALaw:
			code = "alaw"
		}
	case formats.AIFFCSowt:
		if k.IsPCM() && k != codec.Uint8 {
			code = "sowt"
		}
	default:
		return compression{}, fmt.Errorf("%w: %s is not an AIFF container", formats.ErrUnsupported, c)
	}
	if code != "" {
		var id [4]byte
		copy(id[:], code)
		if cm, ok := lookupCompression(id); ok {
			return cm, nil
		}
	}
	return compression{}, fmt.Errorf("%w: %s in %s", ErrUnsupportedEncoding, k, c)
}

// Encode writes an AIFF or AIFF-C header for p and leaves w at the start of
// the sound data. p.Container selects AIFF, AIFF-C or AIFF-C/sowt and
// p.Format.Order is set to match. Title, author, copyright and comment go to
// their own text chunks, other records to an ANNO chunk starting "AFsp".
func Encode(w *binio.Writer, p *formats.WriteParams, recs *info.Records) (*formats.Header, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	comp, err := compressionFor(p.Container, p.Format.Kind)
	if err != nil {
		return nil, err
	}
	p.Format.Order = comp.order
	aifc := p.Container != formats.AIFF
	if p.NumChannels > math.MaxInt16 {
		return nil, fmt.Errorf("%w: %d channels", formats.ErrUnsupported, p.NumChannels)
	}

	sampleSize := p.Res
	if p.Format.Kind.IsG711() {
		sampleSize = 16
	}

	h := &formats.Header{Declared: p.DataBytes(), PadOdd: true}
	declared := max(h.Declared, 0)
	frames := max(p.NumFrames, 0)
	base := w.Pos()

	var hb bytes.Buffer
	hw := binio.NewWriter(&hb)
	hw.Bytes(formID[:])
	hw.U32(be, 0)
	if aifc {
		hw.Bytes(aifcID[:])
		hw.Bytes(fverID[:])
		hw.U32(be, 4)
		hw.U32(be, aifcVersion)
	} else {
		hw.Bytes(aiffID[:])
	}

	hw.Bytes(commID[:])
	if aifc {
		hw.U32(be, uint32(22+pstringLen(comp.name)))
	} else {
		hw.U32(be, 18)
	}
	hw.U16(be, uint16(p.NumChannels))
	framesAt := hw.Pos()
	hw.U32(be, formats.Clamp32(frames))
	hw.U16(be, uint16(sampleSize))
	hw.Ext80(p.SampleRate)
	if aifc {
		hw.Tag(comp.code)
		writePString(hw, comp.name)
	}

	if recs != nil {
		rest := recs.Clone()
		for _, t := range textChunks {
			text, ok := rest.Take(t.rec)
			if !ok {
				continue
			}
			writeChunk(hw, t.id, []byte(text))
		}
		if rest.Len() > 0 {
			writeChunk(hw, annoID, append([]byte(afspMarker), rest.Blob()...))
		}
	}

	hw.Bytes(ssndID[:])
	hw.U32(be, formats.Clamp32(8+declared))
	hw.U32(be, 0) // offset
	hw.U32(be, 0) // block size
	if err := hw.Flush(); err != nil {
		return nil, err
	}

	b := hb.Bytes()
	hdrLen := int64(len(b)) - 8
	be.PutUint32(b[4:8], formats.Clamp32(hdrLen+pad2(declared)))
	w.Bytes(b)
	if err := w.Err(); err != nil {
		return nil, err
	}
	h.DataStart = w.Pos()

	h.Fields = []formats.SizeField{
		{
			Name:  "FORM size",
			At:    base + 4,
			Order: codec.BigEndian,
			Value: func(n, _ int64) uint32 { return formats.Clamp32(hdrLen + pad2(n)) },
		},
		{
			Name:  "COMM frames",
			At:    base + framesAt,
			Order: codec.BigEndian,
			Value: func(_, frames int64) uint32 { return formats.Clamp32(frames) },
		},
		{
			Name:  "SSND size",
			At:    h.DataStart - 12,
			Order: codec.BigEndian,
			Value: func(n, _ int64) uint32 { return formats.Clamp32(8 + n) },
		},
	}
	return h, nil
}

// pstringLen is the length of a Pascal string padded to an even size.
func pstringLen(s string) int64 { return pad2(int64(1 + len(s))) }

func writePString(w *binio.Writer, s string) {
	if len(s) > 255 {
		s = s[:255]
	}
	w.U8(uint8(len(s)))
	w.Text(s)
	w.Zeros(int(pstringLen(s)) - 1 - len(s))
}

func writeChunk(w *binio.Writer, id [4]byte, body []byte) {
	w.Bytes(id[:])
	w.U32(be, uint32(len(body)))
	w.Bytes(body)
	w.Zeros(len(body) & 1)
}
