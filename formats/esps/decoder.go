// SPDX-License-Identifier: EPL-2.0

package esps

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/internal/binio"
)

// Fixed header offsets.
const (
	offDataStart = 8
	offRecSize   = 12
	offMagic     = 16
	offNdrec     = 124
	offNdouble   = 132
	offNfloat    = 136
	offNlong     = 140
	offNshort    = 144
	fixedSize    = 148
)

const (
	magic       = 0x00006A1A
	genericCode = 13
)

// Generic item value types.
const (
	typeDouble = 1
	typeFloat  = 2
	typeLong   = 3
	typeShort  = 4
)

// Decode parses an ESPS header and leaves r at the start of the data.
func Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error) {
	p := formats.NewReadParams(formats.ESPS, o)
	hdr, err := r.Bytes(fixedSize)
	if err != nil {
		return nil, fmt.Errorf("reading ESPS header: %w", err)
	}
	var bo binary.ByteOrder
	switch {
	case binary.BigEndian.Uint32(hdr[offMagic:]) == magic:
		bo = binary.BigEndian
		p.Format.Order = codec.BigEndian
	case binary.LittleEndian.Uint32(hdr[offMagic:]) == magic:
		bo = binary.LittleEndian
		p.Format.Order = codec.LittleEndian
	default:
		return nil, ErrNotESPSFile
	}

	dataStart := int64(bo.Uint32(hdr[offDataStart:]))
	recSize := int64(bo.Uint32(hdr[offRecSize:]))
	ndrec := int64(int32(bo.Uint32(hdr[offNdrec:])))
	if dataStart < fixedSize {
		return nil, fmt.Errorf("%w: ESPS data offset %d", formats.ErrInconsistent, dataStart)
	}

	counts := []struct {
		n    uint32
		kind codec.Kind
	}{
		{bo.Uint32(hdr[offNdouble:]), codec.Float64},
		{bo.Uint32(hdr[offNfloat:]), codec.Float32},
		{bo.Uint32(hdr[offNlong:]), codec.Int32},
		{bo.Uint32(hdr[offNshort:]), codec.Int16},
	}
	for _, c := range counts {
		if c.n == 0 {
			continue
		}
		if p.Format.Kind != codec.Undefined {
			return nil, fmt.Errorf("%w: mixed data types in a record", ErrBadLayout)
		}
		p.Format.Kind = c.kind
		p.NumChannels = int(c.n)
	}
	if p.Format.Kind == codec.Undefined {
		return nil, fmt.Errorf("%w: no sample data in records", ErrBadLayout)
	}
	if frame := int64(p.NumChannels * p.Format.Width()); recSize != frame {
		return nil, fmt.Errorf("%w: record size %d for %d %s values", ErrBadLayout, recSize, p.NumChannels, p.Format.Kind)
	}
	if p.Format.Kind.IsFloat() {
		p.FullScale = 32768
	}

	rest, err := r.Bytes(int(dataStart - fixedSize))
	if err != nil {
		return nil, fmt.Errorf("reading ESPS header items: %w", err)
	}
	items := append(hdr, rest...)
	p.Layout.Add("header", 0, dataStart)

	rate, ok := generic(items, "record_freq", bo)
	if !ok || rate <= 0 {
		return nil, ErrNoSampleRate
	}
	p.SampleRate = rate
	for _, name := range []string{"start_time", "max_value"} {
		if v, ok := generic(items, name, bo); ok {
			if err := p.Info.Add(name+":", strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
				return nil, err
			}
		}
	}

	p.DataStart = dataStart
	p.DataLen = formats.UnknownLen
	if ndrec > 0 {
		p.DataLen = ndrec * recSize
	} else {
		o.Log.Debug("ESPS: record count not set, using the file size")
	}
	if err := p.ResolveData(r, o.Log); err != nil {
		return nil, err
	}
	if p.DataLen >= 0 {
		p.Layout.Add("data", dataStart, dataStart+p.DataLen)
	}
	return p, p.Validate()
}

// genericKey is the byte pattern that starts a generic header item.
func genericKey(name string, bo binary.ByteOrder) []byte {
	words := (len(name) + 4) / 4
	key := make([]byte, 6+4*words)
	bo.PutUint16(key[0:], genericCode)
	bo.PutUint32(key[2:], uint32(words))
	copy(key[6:], name)
	return key
}

// generic finds a numeric generic item and returns its first value.
func generic(b []byte, name string, bo binary.ByteOrder) (float64, bool) {
	key := genericKey(name, bo)
	i := bytes.Index(b, key)
	if i < 0 {
		return 0, false
	}
	b = b[i+len(key):]
	if len(b) < 6 {
		return 0, false
	}
	count := bo.Uint32(b[0:])
	typ := bo.Uint16(b[4:])
	b = b[6:]
	if count == 0 {
		return 0, false
	}
	switch {
	case typ == typeDouble && len(b) >= 8:
		return math.Float64frombits(bo.Uint64(b)), true
	case typ == typeFloat && len(b) >= 4:
		return float64(math.Float32frombits(bo.Uint32(b))), true
	case typ == typeLong && len(b) >= 4:
		return float64(int32(bo.Uint32(b))), true
	case typ == typeShort && len(b) >= 2:
		return float64(int16(bo.Uint16(b))), true
	}
	return 0, false
}
