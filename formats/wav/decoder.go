// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-audio/riff"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/internal/binio"
	"github.com/ik5/audfile/logger"
	"github.com/ik5/audfile/speaker"
)

type decoder struct {
	r   *binio.Reader
	p   *formats.ReadParams
	log *logger.Logger

	fmtSeen    bool
	tag        uint16
	bits       int
	validBits  int
	blockAlign int
	mask       uint32
	factFrames int64
}

type chunkHandler func(d *decoder, c *riff.Chunk) error

var handlers = map[[4]byte]chunkHandler{
	riff.FmtID: (*decoder).readFmt,
	factID:     (*decoder).readFact,
	listID:     (*decoder).readList,
	bextID:     (*decoder).readBext,
	afspID:     (*decoder).readAFsp,
}

// Decode parses a RIFF/WAVE header from the start of r and leaves r inside
// or after the data. On a sequential stream parsing stops at the data chunk;
// on a seekable one chunks after the data are scanned as well.
func Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error) {
	d := &decoder{
		r:          r,
		p:          formats.NewReadParams(formats.WAVE, o),
		log:        o.Log,
		factFrames: formats.UnknownLen,
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.p, nil
}

func (d *decoder) run() error {
	parser := riff.New(d.r)
	id, size, err := parser.IDnSize()
	if err != nil {
		return fmt.Errorf("reading RIFF header: %w", truncated(err))
	}
	if id != riff.RiffID {
		return ErrNotWavFile
	}
	form, err := d.r.Tag()
	if err != nil {
		return err
	}
	if form != riff.WavFormatID {
		return ErrNotWavFile
	}
	d.p.Layout.Add("RIFF", 0, 12)

	end := int64(size) + 8
	if fs := d.r.Size(); fs >= 0 && end != fs {
		d.log.Warn("WAVE: RIFF chunk size %d inconsistent with file size %d, using file size", size, fs)
		end = fs
	}

	dataFound := false
	for d.r.Pos()+8 <= end {
		start := d.r.Pos()
		id, size, err := parser.IDnSize()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading chunk header at %d: %w", start, truncated(err))
		}
		name := string(id[:])

		if id == riff.DataFormatID {
			if !d.fmtSeen {
				return ErrNoFormatChunk
			}
			dataFound = true
			more, err := d.data(start, int64(size), end)
			if err != nil {
				return err
			}
			if !more {
				break
			}
			continue
		}

		next := start + 8 + pad2(int64(size))
		if rem := d.r.Remaining(); rem >= 0 && next > d.r.Size() {
			if next-d.r.Size() == 1 && start+8+int64(size) == d.r.Size() {
				next = d.r.Size()
			} else {
				return fmt.Errorf("%w: chunk %q at %d needs %d bytes, %d left", formats.ErrTruncated, name, start, size, rem)
			}
		}
		if h, ok := handlers[id]; ok {
			c := &riff.Chunk{ID: id, Size: int(size), R: io.LimitReader(d.r, int64(size))}
			if err := h(d, c); err != nil {
				return fmt.Errorf("chunk %q: %w", name, err)
			}
		}
		if err := d.r.SeekTo(next); err != nil {
			return err
		}
		d.p.Layout.Add(name, start, next)
	}

	if !d.fmtSeen {
		return ErrNoFormatChunk
	}
	if !dataFound {
		return ErrNoDataChunk
	}
	return d.finish()
}

// data records the data extent. It reports whether trailing chunks should be
// scanned.
func (d *decoder) data(start, size, end int64) (bool, error) {
	p := d.p
	p.DataStart = start + 8
	p.DataLen = size
	rem := d.r.Remaining()
	switch {
	case rem < 0 && size == 0:
		p.DataLen = formats.UnknownLen
	case rem >= 0 && size == 0 && rem > 0:
		d.log.Warn("WAVE: data chunk size is zero, using remaining %d bytes", rem)
		p.DataLen = rem
	case rem >= 0 && size > rem:
		d.log.Warn("WAVE: data chunk size %d exceeds remaining %d bytes", size, rem)
		p.DataLen = rem
	}

	if p.DataLen == formats.UnknownLen {
		d.p.Layout.Add("data", start, start+8)
		return false, nil
	}
	next := p.DataStart + pad2(p.DataLen)
	if fs := d.r.Size(); fs >= 0 && next > fs {
		next = fs
	}
	d.p.Layout.Add("data", start, next)
	if !d.r.Seekable() || next+8 > end {
		return false, nil
	}
	if err := d.r.SeekTo(next); err != nil {
		return false, err
	}
	return true, nil
}

func (d *decoder) readFmt(c *riff.Chunk) error {
	if c.Size < 16 {
		return fmt.Errorf("%w: %d bytes", ErrBadFormatChunk, c.Size)
	}
	var (
		tag, nchan, blockAlign, bits uint16
		rate, avgBytes               uint32
	)
	for _, f := range []any{&tag, &nchan, &rate, &avgBytes, &blockAlign, &bits} {
		if err := c.ReadLE(f); err != nil {
			return truncated(err)
		}
	}
	d.tag = tag
	d.bits = int(bits)
	d.blockAlign = int(blockAlign)
	d.p.NumChannels = int(nchan)
	d.p.SampleRate = float64(rate)

	if c.Size >= 18 {
		var cbSize uint16
		if err := c.ReadLE(&cbSize); err != nil {
			return truncated(err)
		}
		if tag == tagExtensible {
			if cbSize < 22 || c.Size < 40 {
				return fmt.Errorf("%w: extensible format with %d extra bytes", ErrBadFormatChunk, cbSize)
			}
			var (
				valid uint16
				mask  uint32
				guid  [16]byte
			)
			for _, f := range []any{&valid, &mask, &guid} {
				if err := c.ReadLE(f); err != nil {
					return truncated(err)
				}
			}
			if !bytes.Equal(guid[2:], subFormatTail[:]) {
				return fmt.Errorf("%w: sub-format GUID % x", ErrUnsupportedEncoding, guid)
			}
			d.tag = binary.LittleEndian.Uint16(guid[:2])
			d.validBits = int(valid)
			d.mask = mask
		}
	} else if tag == tagExtensible {
		return fmt.Errorf("%w: extensible format without extension", ErrBadFormatChunk)
	}
	d.fmtSeen = true
	return nil
}

func (d *decoder) readFact(c *riff.Chunk) error {
	if c.Size < 4 {
		return nil
	}
	var frames uint32
	if err := c.ReadLE(&frames); err != nil {
		return truncated(err)
	}
	d.factFrames = int64(frames)
	return nil
}

func (d *decoder) readList(c *riff.Chunk) error {
	b, err := chunkBytes(c)
	if err != nil {
		return err
	}
	if len(b) < 4 || !bytes.Equal(b[:4], infoID[:]) {
		return nil
	}
	b = b[4:]
	for len(b) >= 8 {
		var tag [4]byte
		copy(tag[:], b[:4])
		n := int64(binary.LittleEndian.Uint32(b[4:8]))
		b = b[8:]
		if n > int64(len(b)) {
			d.log.Warn("WAVE: LIST/INFO %q subchunk truncated", string(tag[:]))
			n = int64(len(b))
		}
		text := strings.TrimRight(string(b[:n]), "\x00")
		if err := d.p.Info.Add(infoRecordID(tag), text); err != nil {
			return err
		}
		b = b[min(pad2(n), int64(len(b))):]
	}
	return nil
}

// Broadcast extension field sizes.
const (
	bextDescription = 256
	bextOriginator  = 32
	bextReference   = 32
	bextDate        = 10
	bextTime        = 8
	bextFixed       = 602
)

func (d *decoder) readBext(c *riff.Chunk) error {
	b, err := chunkBytes(c)
	if err != nil {
		return err
	}
	if len(b) < bextFixed {
		d.log.Warn("WAVE: bext chunk is %d bytes, want at least %d", len(b), bextFixed)
		return nil
	}
	field := func(n int) string {
		s := strings.TrimRight(string(b[:n]), "\x00 ")
		b = b[n:]
		return s
	}
	desc := field(bextDescription)
	orig := field(bextOriginator)
	ref := field(bextReference)
	date := field(bextDate)
	tm := field(bextTime)
	timeRef := binary.LittleEndian.Uint64(b[:8])
	history := strings.TrimRight(string(b[bextFixed-bextDescription-bextOriginator-bextReference-bextDate-bextTime:]), "\x00\r\n ")

	recs := []struct{ id, text string }{
		{"description:", desc},
		{"originator:", orig},
		{"originator_reference:", ref},
		{"origination_date:", strings.TrimSpace(date + " " + tm)},
		{"coding_history:", history},
	}
	for _, r := range recs {
		if r.text == "" {
			continue
		}
		if err := d.p.Info.Add(r.id, r.text); err != nil {
			return err
		}
	}
	if timeRef != 0 {
		return d.p.Info.Add("time_reference:", fmt.Sprint(timeRef))
	}
	return nil
}

func (d *decoder) readAFsp(c *riff.Chunk) error {
	b, err := chunkBytes(c)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(b, []byte(afspMarker)) {
		return nil
	}
	return d.p.Info.AddBlob(b[len(afspMarker):])
}

func (d *decoder) finish() error {
	p := d.p
	if p.NumChannels < 1 || d.blockAlign%p.NumChannels != 0 {
		return fmt.Errorf("%w: block size %d for %d channels", ErrBadFormatChunk, d.blockAlign, p.NumChannels)
	}
	width := d.blockAlign / p.NumChannels
	p.Format.Order = codec.LittleEndian

	switch d.tag {
	case tagPCM:
		switch width {
		case 1:
			p.Format.Kind = codec.Uint8
		case 2:
			p.Format.Kind = codec.Int16
		case 3:
			p.Format.Kind = codec.Int24
		case 4:
			p.Format.Kind = codec.Int32
		default:
			return fmt.Errorf("%w: %d-byte PCM", ErrUnsupportedEncoding, width)
		}
	case tagFloat:
		switch width {
		case 4:
			p.Format.Kind = codec.Float32
		case 8:
			p.Format.Kind = codec.Float64
		default:
			return fmt.Errorf("%w: %d-byte float", ErrUnsupportedEncoding, width)
		}
	case tagALaw, tagMuLaw:
		if width != 1 {
			return fmt.Errorf("%w: %d-byte G.711", ErrUnsupportedEncoding, width)
		}
		p.Format.Kind = codec.ALaw
		if d.tag == tagMuLaw {
			p.Format.Kind = codec.MuLaw
		}
	default:
		return fmt.Errorf("%w: format tag 0x%04x", ErrUnsupportedEncoding, d.tag)
	}

	p.Res = d.bits
	if d.validBits > 0 {
		p.Res = d.validBits
	}
	if p.Res <= 0 || p.Res > 8*width {
		d.log.Warn("WAVE: %d bits per sample in a %d-byte container, using %d", p.Res, width, 8*width)
		p.Res = 8 * width
	}
	if d.mask != 0 {
		p.Speakers = speaker.FromMask(d.mask, p.NumChannels)
	}

	if d.tag != tagPCM && d.factFrames >= 0 {
		total := d.factFrames * int64(p.NumChannels)
		switch {
		case p.DataLen == formats.UnknownLen:
			p.DataLen = total * int64(width)
		case p.DataLen != total*int64(width):
			d.log.Warn("WAVE: fact chunk gives %d frames, data holds %d", d.factFrames, p.DataLen/int64(d.blockAlign))
		}
	}
	if err := p.ResolveData(d.r, d.log); err != nil {
		return err
	}
	return p.Validate()
}

func chunkBytes(c *riff.Chunk) ([]byte, error) {
	b, err := io.ReadAll(c.R)
	if err != nil {
		return nil, err
	}
	if len(b) < c.Size {
		return nil, fmt.Errorf("%w: %d of %d bytes", formats.ErrTruncated, len(b), c.Size)
	}
	return b, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", formats.ErrTruncated, err)
	}
	return err
}
