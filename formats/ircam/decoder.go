// SPDX-License-Identifier: EPL-2.0

// Package ircam reads IRCAM soundfile headers.
//
// The header is a fixed 1024 bytes: a magic number naming the machine that
// wrote the file, the sampling rate as a 32-bit float, the channel count,
// the pack mode and a list of coded blocks. Files from VAX and MIPS machines
// are little-endian, those from Sun and NeXT machines big-endian. VAX
// floating point is not converted; the rate is read as IEEE.
package ircam

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
)

const headerSize = 1024

var magics = []struct {
	magic string
	order codec.ByteOrder
}{
	{"\x64\xa3\x01\x00", codec.LittleEndian}, // VAX
	{"\x00\x02\xa3\x64", codec.BigEndian},    // Sun
	{"\x64\xa3\x03\x00", codec.LittleEndian}, // MIPS
	{"\x00\x04\xa3\x64", codec.BigEndian},    // NeXT
}

// Pack modes.
const (
	packInt8    = 0x00001
	packInt16   = 0x00002
	packFloat32 = 0x00004
	packInt32   = 0x40004
	packALaw    = 0x10001
	packMuLaw   = 0x20001
)

var packModes = map[uint32]codec.Kind{
	packInt8:    codec.Int8,
	packInt16:   codec.Int16,
	packFloat32: codec.Float32,
	packInt32:   codec.Int32,
	packALaw:    codec.ALaw,
	packMuLaw:   codec.MuLaw,
}

// Header block codes.
const (
	codeEnd     = 0
	codeComment = 2
)

// Decode parses the 1024-byte IRCAM header.
func Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error) {
	p := formats.NewReadParams(formats.IRCAM, o)
	hdr, err := r.Bytes(headerSize)
	if err != nil {
		return nil, fmt.Errorf("reading IRCAM header: %w", err)
	}
	found := false
	for _, m := range magics {
		if string(hdr[:4]) == m.magic {
			p.Format.Order = m.order
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotIRCAMFile
	}
	bo := p.Format.Order.Binary()

	p.SampleRate = float64(math.Float32frombits(bo.Uint32(hdr[4:])))
	p.NumChannels = int(int32(bo.Uint32(hdr[8:])))
	pack := bo.Uint32(hdr[12:])
	kind, ok := packModes[pack]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnsupportedEncoding, pack)
	}
	p.Format.Kind = kind
	if err := comments(p, hdr[16:], bo); err != nil {
		return nil, err
	}
	p.Layout.Add("header", 0, headerSize)

	p.DataStart = headerSize
	if err := p.ResolveData(r, o.Log); err != nil {
		return nil, err
	}
	if p.DataLen >= 0 {
		p.Layout.Add("data", headerSize, headerSize+p.DataLen)
	}
	return p, p.Validate()
}

// comments walks the coded blocks and stores comment text.
func comments(p *formats.ReadParams, b []byte, bo binary.ByteOrder) error {
	for len(b) >= 4 {
		code := bo.Uint16(b[0:])
		size := int(bo.Uint16(b[2:]))
		if code == codeEnd || size < 4 || size > len(b) {
			return nil
		}
		if code == codeComment {
			text := strings.TrimRight(string(b[4:size]), "\x00 \n")
			if text != "" {
				if err := p.Info.Add(info.Comment, text); err != nil {
					return err
				}
			}
		}
		b = b[size:]
	}
	return nil
}
