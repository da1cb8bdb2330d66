// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
	"github.com/ik5/audfile/logger"
)

type chunk struct {
	id   string
	body []byte
}

// formFile assembles a FORM file of the given type. A negative declared size
// is replaced by the true size.
func formFile(form string, declared int64, chunks ...chunk) []byte {
	body := new(bytes.Buffer)
	body.WriteString(form)
	for _, c := range chunks {
		body.WriteString(c.id)
		binary.Write(body, binary.BigEndian, uint32(len(c.body)))
		body.Write(c.body)
		if len(c.body)%2 == 1 {
			body.WriteByte(0)
		}
	}
	if declared < 0 {
		declared = int64(body.Len())
	}
	buf := new(bytes.Buffer)
	buf.WriteString("FORM")
	binary.Write(buf, binary.BigEndian, uint32(declared))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func commChunk(nchan int16, frames uint32, bits int16, rate float64) chunk {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, nchan)
	binary.Write(buf, binary.BigEndian, frames)
	binary.Write(buf, binary.BigEndian, bits)
	var ext [10]byte
	binio.PutExt80(ext[:], rate)
	buf.Write(ext[:])
	return chunk{id: "COMM", body: buf.Bytes()}
}

func aifcComm(nchan int16, frames uint32, bits int16, rate float64, code string) chunk {
	c := commChunk(nchan, frames, bits, rate)
	buf := bytes.NewBuffer(c.body)
	buf.WriteString(code)
	buf.Write([]byte{0, 0}) // empty name
	return chunk{id: "COMM", body: buf.Bytes()}
}

func fverChunk() chunk {
	return chunk{id: "FVER", body: []byte{0xA2, 0x80, 0x51, 0x40}}
}

func ssndChunk(offset uint32, data []byte) chunk {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, offset)
	binary.Write(buf, binary.BigEndian, uint32(0))
	buf.Write(make([]byte, offset))
	buf.Write(data)
	return chunk{id: "SSND", body: buf.Bytes()}
}

func int16BE(samples ...int16) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, samples)
	return buf.Bytes()
}

// sequential hides the Seeker of a reader.
type sequential struct{ io.Reader }

func decodeBytes(t *testing.T, data []byte, seq bool, log *logger.Logger) (*formats.ReadParams, error) {
	t.Helper()
	var r io.Reader = bytes.NewReader(data)
	if seq {
		r = sequential{r}
	}
	return Decode(binio.NewReader(r), formats.DecodeOptions{Log: log})
}

func TestDecode_AIFF16(t *testing.T) {
	t.Parallel()

	data := formFile("AIFF", -1, commChunk(2, 3, 16, 44100), ssndChunk(0, int16BE(1, 2, 3, 4, 5, 6)))
	for _, seq := range []bool{false, true} {
		p, err := decodeBytes(t, data, seq, nil)
		if err != nil {
			t.Fatalf("Decode() error = %v, want nil", err)
		}
		if p.Container != formats.AIFF {
			t.Errorf("Container = %v, want %v", p.Container, formats.AIFF)
		}
		if want := (codec.Format{Kind: codec.Int16, Order: codec.BigEndian}); p.Format != want {
			t.Errorf("Format = %v, want %v", p.Format, want)
		}
		if p.NumChannels != 2 || p.SampleRate != 44100 {
			t.Errorf("got %d channels at %g Hz, want 2 at 44100", p.NumChannels, p.SampleRate)
		}
		if p.NumSamples != 6 {
			t.Errorf("NumSamples = %d, want 6", p.NumSamples)
		}
		if p.DataStart != 54 {
			t.Errorf("DataStart = %d, want 54", p.DataStart)
		}
	}
}

func TestDecode_Compressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    string
		bits    int16
		want    codec.Format
		wantRes int
	}{
		{"NONE", 16, codec.Format{Kind: codec.Int16, Order: codec.BigEndian}, 16},
		{"NONE", 12, codec.Format{Kind: codec.Int16, Order: codec.BigEndian}, 12},
		{"twos", 8, codec.Format{Kind: codec.Int8, Order: codec.BigEndian}, 8},
		{"NONE", 20, codec.Format{Kind: codec.Int24, Order: codec.BigEndian}, 20},
		{"sowt", 16, codec.Format{Kind: codec.Int16, Order: codec.LittleEndian}, 16},
		{"sowt", 32, codec.Format{Kind: codec.Int32, Order: codec.LittleEndian}, 32},
		{"in24", 24, codec.Format{Kind: codec.Int24, Order: codec.BigEndian}, 24},
		{"raw ", 8, codec.Format{Kind: codec.Uint8, Order: codec.BigEndian}, 8},
		{"fl32", 32, codec.Format{Kind: codec.Float32, Order: codec.BigEndian}, 32},
		{"FL64", 64, codec.Format{Kind: codec.Float64, Order: codec.BigEndian}, 64},
		{"ulaw", 16, codec.Format{Kind: codec.MuLaw, Order: codec.BigEndian}, 8},
		{"ALAW", 16, codec.Format{Kind: codec.ALaw, Order: codec.BigEndian}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()

			width := tt.want.Width()
			data := formFile("AIFC", -1, fverChunk(),
				aifcComm(1, 4, tt.bits, 8000, tt.code),
				ssndChunk(0, make([]byte, 4*width)))
			p, err := decodeBytes(t, data, false, nil)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if p.Container != formats.AIFFC {
				t.Errorf("Container = %v, want %v", p.Container, formats.AIFFC)
			}
			if p.Format != tt.want {
				t.Errorf("Format = %v, want %v", p.Format, tt.want)
			}
			if p.Res != tt.wantRes {
				t.Errorf("Res = %d, want %d", p.Res, tt.wantRes)
			}
			if p.NumSamples != 4 {
				t.Errorf("NumSamples = %d, want 4", p.NumSamples)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	comm := commChunk(1, 2, 16, 8000)
	ssnd := ssndChunk(0, int16BE(1, 2))
	tests := []struct {
		name string
		data []byte
		seq  bool
		want error
	}{
		{"not FORM", []byte("RIFF\x00\x00\x00\x04WAVE"), false, ErrNotAiffFile},
		{"other form", formFile("8SVX", -1), false, formats.ErrBadMagic},
		{"empty", nil, false, formats.ErrTruncated},
		{"no COMM", formFile("AIFF", -1, ssnd), false, ErrNoCommonChunk},
		{"no SSND", formFile("AIFF", -1, comm), false, ErrNoSoundChunk},
		{"SSND first sequential", formFile("AIFF", -1, ssnd, comm), true, ErrNoCommonChunk},
		{"short COMM", formFile("AIFF", -1, chunk{"COMM", make([]byte, 10)}, ssnd), false, ErrBadCommonChunk},
		{"unknown compression", formFile("AIFC", -1, aifcComm(1, 2, 16, 8000, "ima4"), ssnd), false, formats.ErrUnsupported},
		{"zero channels", formFile("AIFF", -1, commChunk(0, 2, 16, 8000), ssnd), false, formats.ErrInconsistent},
		{"bad sample size", formFile("AIFF", -1, commChunk(1, 2, 40, 8000), ssnd), false, ErrUnsupportedEncoding},
		{"zero rate", formFile("AIFF", -1, commChunk(1, 2, 16, 0), ssnd), false, formats.ErrInconsistent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeBytes(t, tt.data, tt.seq, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecode_TruncatedChunk(t *testing.T) {
	t.Parallel()

	data := formFile("AIFF", -1, commChunk(1, 2, 16, 8000))
	data = append(data, "ANNO\x00\x00\x01\x00short"...)
	_, err := decodeBytes(t, data, false, nil)
	if !errors.Is(err, formats.ErrTruncated) {
		t.Errorf("Decode() error = %v, want %v", err, formats.ErrTruncated)
	}
}

func TestDecode_CommAfterSound(t *testing.T) {
	t.Parallel()

	data := formFile("AIFF", -1, ssndChunk(0, int16BE(7, 8, 9)), commChunk(1, 3, 16, 22050))
	p, err := decodeBytes(t, data, false, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.NumSamples != 3 || p.DataStart != 28 {
		t.Errorf("NumSamples = %d, DataStart = %d, want 3 and 28", p.NumSamples, p.DataStart)
	}
	if got := len(p.Layout.Chunks()); got != 3 {
		t.Errorf("layout has %d chunks, want 3:\n%s", got, p.Layout)
	}
}

func TestDecode_SoundOffset(t *testing.T) {
	t.Parallel()

	data := formFile("AIFF", -1, commChunk(1, 2, 16, 8000), ssndChunk(6, int16BE(-1, 1)))
	p, err := decodeBytes(t, data, false, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.DataStart != 38+16+6 {
		t.Errorf("DataStart = %d, want %d", p.DataStart, 38+16+6)
	}
	if p.DataLen != 4 {
		t.Errorf("DataLen = %d, want 4", p.DataLen)
	}
}

func TestDecode_FrameCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		frames   uint32
		samples  int
		wantN    int64
		wantWarn bool
	}{
		{"exact", 4, 4, 4, false},
		{"overstated", 10, 4, 4, true},
		{"zero", 0, 4, 4, true},
		{"trailing data", 3, 4, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := formFile("AIFF", -1, commChunk(1, tt.frames, 16, 8000), ssndChunk(0, make([]byte, 2*tt.samples)))
			var logBuf bytes.Buffer
			p, err := decodeBytes(t, data, false, logger.New(&logBuf, "info"))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if p.NumSamples != tt.wantN {
				t.Errorf("NumSamples = %d, want %d", p.NumSamples, tt.wantN)
			}
			if got := strings.Contains(logBuf.String(), "COMM gives"); got != tt.wantWarn {
				t.Errorf("warning logged = %v, want %v (%q)", got, tt.wantWarn, logBuf.String())
			}
		})
	}
}

func TestDecode_FormSize(t *testing.T) {
	t.Parallel()

	data := formFile("AIFF", 1000, commChunk(1, 2, 16, 8000), ssndChunk(0, int16BE(1, 2)))
	var logBuf bytes.Buffer
	p, err := decodeBytes(t, data, false, logger.New(&logBuf, "info"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.NumSamples != 2 {
		t.Errorf("NumSamples = %d, want 2", p.NumSamples)
	}
	if !strings.Contains(logBuf.String(), "FORM chunk size") {
		t.Errorf("no FORM size warning in %q", logBuf.String())
	}
}

func TestDecode_SequentialUnknownLength(t *testing.T) {
	t.Parallel()

	data := formFile("AIFF", -1, commChunk(1, 0, 16, 8000), ssndChunk(0, nil))
	data = append(data, int16BE(1, 2, 3)...)
	p, err := decodeBytes(t, data, true, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.NumSamples != formats.UnknownLen {
		t.Errorf("NumSamples = %d, want unknown", p.NumSamples)
	}
}

func TestDecode_TextChunks(t *testing.T) {
	t.Parallel()

	data := formFile("AIFF", -1,
		commChunk(1, 1, 16, 8000),
		chunk{"NAME", []byte("Tone")},
		chunk{"AUTH", []byte("Someone")},
		chunk{"(c) ", []byte("2001")},
		chunk{"ANNO", []byte("first note")},
		chunk{"ANNO", []byte("AFsp" + "program: CopyAudio\x00date: 2001-01-01\x00")},
		chunk{"MARK", []byte{0, 0}},
		ssndChunk(0, int16BE(0)))
	p, err := decodeBytes(t, data, false, nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := map[string]string{
		info.Title:     "Tone",
		info.Author:    "Someone",
		info.Copyright: "2001",
		info.Comment:   "first note",
		info.Program:   "CopyAudio",
		info.Date:      "2001-01-01",
	}
	for id, text := range want {
		if got, ok := p.Info.Get(id); !ok || got != text {
			t.Errorf("Info.Get(%q) = %q, %v, want %q", id, got, ok, text)
		}
	}
	if msgs := p.Layout.Check(); len(msgs) != 0 {
		t.Errorf("Layout.Check() = %v", msgs)
	}
	if got, want := p.Layout.Span()+4, int64(binary.BigEndian.Uint32(data[4:8])); got != want {
		t.Errorf("chunk lengths %d, FORM size %d", got, want)
	}
}

func BenchmarkDecode(b *testing.B) {
	data := formFile("AIFC", -1, fverChunk(), aifcComm(2, 1000, 16, 48000, "sowt"),
		chunk{"NAME", []byte("bench")}, ssndChunk(0, make([]byte, 4000)))

	for b.Loop() {
		if _, err := Decode(binio.NewReader(bytes.NewReader(data)), formats.DecodeOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}
