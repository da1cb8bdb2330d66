// SPDX-License-Identifier: EPL-2.0

package csl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
)

type chunk struct {
	id   string
	body []byte
}

func nspFile(chunks ...chunk) []byte {
	body := new(bytes.Buffer)
	for _, c := range chunks {
		body.WriteString(c.id)
		binary.Write(body, binary.LittleEndian, uint32(len(c.body)))
		body.Write(c.body)
		if len(c.body)%2 == 1 {
			body.WriteByte(0)
		}
	}
	buf := new(bytes.Buffer)
	buf.WriteString("FORMDS16")
	binary.Write(buf, binary.LittleEndian, uint32(body.Len()))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func hedr(date string, rate, length uint32, peaks ...uint16) chunk {
	buf := new(bytes.Buffer)
	d := make([]byte, dateLen)
	copy(d, date)
	buf.Write(d)
	binary.Write(buf, binary.LittleEndian, rate)
	binary.Write(buf, binary.LittleEndian, length)
	binary.Write(buf, binary.LittleEndian, peaks)
	id := "HEDR"
	if len(peaks) > 2 {
		id = "HDR8"
	}
	return chunk{id, buf.Bytes()}
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
		data  []byte
		seq   bool
		nchan int
		wantN int64
	}{
		{"mono A", nspFile(hedr("Jan 01 12:00:00 2001", 10000, 3, 100, 0xFFFF), chunk{"SDA_", make([]byte, 6)}), false, 1, 3},
		{"mono B sequential", nspFile(hedr("", 10000, 2, 0xFFFF, 50), chunk{"SD_B", make([]byte, 4)}), true, 1, 2},
		{"stereo", nspFile(hedr("", 10000, 2, 100, 200), chunk{"NOTE", []byte("note")}, chunk{"SDAB", make([]byte, 8)}), false, 2, 4},
		{"four channels", nspFile(hedr("", 10000, 1, 1, 2, 3, 4, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF), chunk{"SDAB", make([]byte, 8)}), false, 4, 4},
		{"header after data", nspFile(chunk{"SDA_", make([]byte, 6)}, hedr("", 8000, 3, 1, 0xFFFF)), false, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := decode(tt.data, tt.seq)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if p.NumChannels != tt.nchan {
				t.Errorf("NumChannels = %d, want %d", p.NumChannels, tt.nchan)
			}
			if p.NumSamples != tt.wantN {
				t.Errorf("NumSamples = %d, want %d", p.NumSamples, tt.wantN)
			}
			if p.SampleRate <= 0 {
				t.Errorf("SampleRate = %g", p.SampleRate)
			}
		})
	}
}

func TestDecode_Records(t *testing.T) {
	t.Parallel()

	data := nspFile(hedr("Jan 01 12:00:00 2001", 20000, 1, 5, 0xFFFF), chunk{"NOTE", []byte("odd")}, chunk{"SDA_", make([]byte, 2)})
	p, err := decode(data, false)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got, _ := p.Info.Get(info.Date); got != "Jan 01 12:00:00 2001" {
		t.Errorf("date = %q", got)
	}
	if got, _ := p.Info.Get(info.Comment); got != "odd" {
		t.Errorf("comment = %q", got)
	}
	if msgs := p.Layout.Check(); len(msgs) != 0 {
		t.Errorf("Layout.Check() = %v", msgs)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		seq  bool
		want error
	}{
		{"bad magic", []byte("FORMAIFF\x00\x00\x00\x00"), false, ErrNotCSLFile},
		{"no header", nspFile(chunk{"SDA_", make([]byte, 2)}), false, ErrNoHeader},
		{"data before header on stream", nspFile(chunk{"SDA_", make([]byte, 2)}, hedr("", 8000, 1, 1, 0xFFFF)), true, formats.ErrMissingChunk},
		{"no data", nspFile(hedr("", 8000, 1, 1, 0xFFFF)), false, ErrNoData},
		{"short header", nspFile(chunk{"HEDR", make([]byte, 10)}, chunk{"SDA_", nil}), false, formats.ErrInconsistent},
	}
	for _, tt := range tests {
		if _, err := decode(tt.data, tt.seq); !errors.Is(err, tt.want) {
			t.Errorf("%s: Decode() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}
