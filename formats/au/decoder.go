// SPDX-License-Identifier: EPL-2.0

package au

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
)

// Decode parses an AU header from the start of r and leaves r at the start
// of the data.
func Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error) {
	p := formats.NewReadParams(formats.AU, o)

	b, err := r.Bytes(fixedSize)
	if err != nil {
		return nil, fmt.Errorf("reading AU header: %w", err)
	}
	var bo binary.ByteOrder
	switch string(b[:4]) {
	case magic:
		bo = binary.BigEndian
		p.Format.Order = codec.BigEndian
	case magicLE:
		bo = binary.LittleEndian
		p.Format.Order = codec.LittleEndian
	default:
		return nil, ErrNotAuFile
	}
	offset := int64(bo.Uint32(b[4:8]))
	size := bo.Uint32(b[8:12])
	enc := bo.Uint32(b[12:16])
	p.SampleRate = float64(bo.Uint32(b[16:20]))
	p.NumChannels = int(bo.Uint32(b[20:24]))

	kind, ok := encodings[enc]
	if !ok {
		return nil, fmt.Errorf("%w: encoding %d", ErrUnsupportedEncoding, enc)
	}
	p.Format.Kind = kind
	if offset < fixedSize {
		return nil, fmt.Errorf("%w: AU data offset %d", formats.ErrInconsistent, offset)
	}
	p.Layout.Add("header", 0, fixedSize)

	if n := offset - fixedSize; n > 0 {
		ann, err := r.Bytes(int(n))
		if err != nil {
			return nil, fmt.Errorf("reading AU annotation: %w", err)
		}
		if err := annotation(p, ann); err != nil {
			return nil, err
		}
		p.Layout.Add("annotation", fixedSize, offset)
	}

	p.DataStart = offset
	p.DataLen = int64(size)
	if size == unknownLen {
		p.DataLen = formats.UnknownLen
	}
	if err := p.ResolveData(r, o.Log); err != nil {
		return nil, err
	}
	if p.DataLen >= 0 {
		p.Layout.Add("data", offset, offset+p.DataLen)
	}
	return p, p.Validate()
}

func annotation(p *formats.ReadParams, b []byte) error {
	if bytes.HasPrefix(b, []byte(afspMarker)) {
		return p.Info.AddBlob(b[len(afspMarker):])
	}
	text := strings.TrimRight(string(bytes.TrimRight(b, "\x00")), " \r\n")
	if text == "" {
		return nil
	}
	return p.Info.Add(info.Comment, text)
}
