// SPDX-License-Identifier: EPL-2.0

package esps

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/internal/binio"
)

type espsSpec struct {
	bo      binary.ByteOrder
	counts  [4]uint32 // doubles, floats, longs, shorts
	recSize uint32
	ndrec   int32
	items   []byte
}

// espsFile lays out a fixed header, the generic items and the data.
func espsFile(s espsSpec, data []byte) []byte {
	hdr := make([]byte, fixedSize)
	dataStart := fixedSize + len(s.items)
	s.bo.PutUint32(hdr[offDataStart:], uint32(dataStart))
	s.bo.PutUint32(hdr[offRecSize:], s.recSize)
	s.bo.PutUint32(hdr[offMagic:], magic)
	s.bo.PutUint32(hdr[offNdrec:], uint32(s.ndrec))
	for i, off := range []int{offNdouble, offNfloat, offNlong, offNshort} {
		s.bo.PutUint32(hdr[off:], s.counts[i])
	}
	out := append(hdr, s.items...)
	return append(out, data...)
}

// doubleItem writes a generic item holding one double.
func doubleItem(bo binary.ByteOrder, name string, v float64) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, bo, uint16(13))
	words := (len(name) + 4) / 4
	binary.Write(buf, bo, uint32(words))
	padded := make([]byte, 4*words)
	copy(padded, name)
	buf.Write(padded)
	binary.Write(buf, bo, uint32(1))
	binary.Write(buf, bo, uint16(typeDouble))
	binary.Write(buf, bo, math.Float64bits(v))
	return buf.Bytes()
}

func decode(data []byte, seq bool) (*formats.ReadParams, error) {
	var r io.Reader = bytes.NewReader(data)
	if seq {
		r = struct{ io.Reader }{r}
	}
	return Decode(binio.NewReader(r), formats.DecodeOptions{})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		spec  espsSpec
		data  int
		seq   bool
		want  codec.Format
		nchan int
		wantN int64
		scale float64
	}{
		{
			name: "shorts big-endian",
			spec: espsSpec{bo: binary.BigEndian, counts: [4]uint32{0, 0, 0, 1}, recSize: 2, ndrec: 5,
				items: doubleItem(binary.BigEndian, "record_freq", 8000)},
			data: 10, want: codec.Format{Kind: codec.Int16, Order: codec.BigEndian}, nchan: 1, wantN: 5,
		},
		{
			name: "floats little-endian stereo",
			spec: espsSpec{bo: binary.LittleEndian, counts: [4]uint32{0, 2, 0, 0}, recSize: 8, ndrec: 3,
				items: doubleItem(binary.LittleEndian, "record_freq", 8000)},
			data: 24, want: codec.Format{Kind: codec.Float32, Order: codec.LittleEndian}, nchan: 2, wantN: 6, scale: 32768,
		},
		{
			name: "record count from file size",
			spec: espsSpec{bo: binary.BigEndian, counts: [4]uint32{1, 0, 0, 0}, recSize: 8, ndrec: 0,
				items: doubleItem(binary.BigEndian, "record_freq", 8000)},
			data: 32, want: codec.Format{Kind: codec.Float64, Order: codec.BigEndian}, nchan: 1, wantN: 4, scale: 32768,
		},
		{
			name: "record count unknown on a stream",
			spec: espsSpec{bo: binary.BigEndian, counts: [4]uint32{0, 0, 1, 0}, recSize: 4, ndrec: 0,
				items: doubleItem(binary.BigEndian, "record_freq", 8000)},
			data: 32, seq: true, want: codec.Format{Kind: codec.Int32, Order: codec.BigEndian}, nchan: 1, wantN: formats.UnknownLen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := decode(espsFile(tt.spec, make([]byte, tt.data)), tt.seq)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if p.Format != tt.want || p.NumChannels != tt.nchan {
				t.Errorf("got %v x%d, want %v x%d", p.Format, p.NumChannels, tt.want, tt.nchan)
			}
			if p.SampleRate != 8000 {
				t.Errorf("SampleRate = %g, want 8000", p.SampleRate)
			}
			if p.NumSamples != tt.wantN {
				t.Errorf("NumSamples = %d, want %d", p.NumSamples, tt.wantN)
			}
			if p.FullScale != tt.scale {
				t.Errorf("FullScale = %g, want %g", p.FullScale, tt.scale)
			}
		})
	}
}

func TestDecode_GenericItems(t *testing.T) {
	t.Parallel()

	bo := binary.LittleEndian
	items := append(doubleItem(bo, "start_time", 1.5), doubleItem(bo, "record_freq", 16000)...)
	items = append(items, doubleItem(bo, "max_value", 1234)...)
	// A longer name with the same prefix must not match.
	items = append(doubleItem(bo, "record_freq_old", 1), items...)

	p, err := decode(espsFile(espsSpec{bo: bo, counts: [4]uint32{0, 0, 0, 1}, recSize: 2, ndrec: 1, items: items}, make([]byte, 2)), false)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.SampleRate != 16000 {
		t.Errorf("SampleRate = %g, want 16000", p.SampleRate)
	}
	for id, want := range map[string]string{"start_time:": "1.5", "max_value:": "1234"} {
		if got, _ := p.Info.Get(id); got != want {
			t.Errorf("Info.Get(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	rate := doubleItem(binary.BigEndian, "record_freq", 8000)
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"no magic", make([]byte, 200), ErrNotESPSFile},
		{"short", make([]byte, 20), formats.ErrTruncated},
		{"mixed types", espsFile(espsSpec{bo: binary.BigEndian, counts: [4]uint32{0, 1, 0, 1}, recSize: 6, items: rate}, nil), ErrBadLayout},
		{"no data types", espsFile(espsSpec{bo: binary.BigEndian, items: rate}, nil), formats.ErrUnsupported},
		{"record size", espsFile(espsSpec{bo: binary.BigEndian, counts: [4]uint32{0, 0, 0, 2}, recSize: 6, items: rate}, nil), ErrBadLayout},
		{"no rate", espsFile(espsSpec{bo: binary.BigEndian, counts: [4]uint32{0, 0, 0, 1}, recSize: 2}, nil), ErrNoSampleRate},
		{"wrong byte order key", espsFile(espsSpec{bo: binary.BigEndian, counts: [4]uint32{0, 0, 0, 1}, recSize: 2,
			items: doubleItem(binary.LittleEndian, "record_freq", 8000)}, nil), formats.ErrMissingChunk},
	}
	for _, tt := range tests {
		if _, err := decode(tt.data, false); !errors.Is(err, tt.want) {
			t.Errorf("%s: Decode() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}
