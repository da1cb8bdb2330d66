// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/internal/binio"
	"github.com/ik5/audfile/logger"
)

type decoder struct {
	r    *binio.Reader
	p    *formats.ReadParams
	log  *logger.Logger
	aifc bool

	commSeen   bool
	frames     int64
	sampleSize int
	comp       compression
	ssndSeen   bool
}

type chunkHandler func(d *decoder, b []byte) error

var handlers = map[[4]byte]chunkHandler{
	commID: (*decoder).readComm,
	annoID: (*decoder).readAnno,
}

func init() {
	for _, t := range textChunks {
		if t.id == annoID {
			continue
		}
		rec := t.rec
		handlers[t.id] = func(d *decoder, b []byte) error {
			return d.addText(rec, b)
		}
	}
}

// Decode parses an AIFF or AIFF-C header from the start of r. A seekable
// stream is scanned to the end of the FORM chunk so that COMM may follow
// SSND; a sequential stream stops at SSND.
func Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error) {
	d := &decoder{
		r:      r,
		p:      formats.NewReadParams(formats.AIFF, o),
		log:    o.Log,
		frames: formats.UnknownLen,
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.p, nil
}

func (d *decoder) chunkHeader() ([4]byte, int64, error) {
	id, err := d.r.Tag()
	if err != nil {
		return id, 0, err
	}
	size, err := d.r.U32(be)
	if err != nil {
		return id, 0, truncated(err)
	}
	return id, int64(size), nil
}

func (d *decoder) run() error {
	id, size, err := d.chunkHeader()
	if err != nil {
		return fmt.Errorf("reading FORM header: %w", truncated(err))
	}
	if id != formID {
		return ErrNotAiffFile
	}
	form, err := d.r.Tag()
	if err != nil {
		return truncated(err)
	}
	switch form {
	case aiffID:
	case aifcID:
		d.aifc = true
		d.p.Container = formats.AIFFC
	default:
		return ErrNotAiffFile
	}
	d.p.Layout.Add("FORM", 0, 12)

	end := size + 8
	if fs := d.r.Size(); fs >= 0 && end != fs {
		d.log.Warn("%s: FORM chunk size %d inconsistent with file size %d, using file size", d.p.Container, size, fs)
		end = fs
	}

	for d.r.Pos()+8 <= end {
		start := d.r.Pos()
		id, size, err := d.chunkHeader()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading chunk header at %d: %w", start, truncated(err))
		}
		name := string(id[:])

		if id == ssndID {
			more, err := d.sound(start, size, end)
			if err != nil {
				return err
			}
			if !more {
				break
			}
			continue
		}

		next := start + 8 + pad2(size)
		if rem := d.r.Remaining(); rem >= 0 && next > d.r.Size() {
			if next-d.r.Size() == 1 && start+8+size == d.r.Size() {
				next = d.r.Size()
			} else {
				return fmt.Errorf("%w: chunk %q at %d needs %d bytes, %d left", formats.ErrTruncated, name, start, size, rem)
			}
		}
		if h, ok := handlers[id]; ok {
			b, err := d.r.Bytes(int(size))
			if err != nil {
				return fmt.Errorf("chunk %q: %w", name, truncated(err))
			}
			if err := h(d, b); err != nil {
				return fmt.Errorf("chunk %q: %w", name, err)
			}
		}
		if err := d.r.SeekTo(next); err != nil {
			return err
		}
		d.p.Layout.Add(name, start, next)
	}

	if !d.commSeen {
		return ErrNoCommonChunk
	}
	if !d.ssndSeen {
		return ErrNoSoundChunk
	}
	return d.finish()
}

// sound records the SSND extent. It reports whether chunks after it should
// be scanned.
func (d *decoder) sound(start, size, end int64) (bool, error) {
	if !d.commSeen && !d.r.Seekable() {
		return false, ErrNoCommonChunk
	}
	if size < 8 {
		return false, fmt.Errorf("%w: SSND chunk of %d bytes", formats.ErrInconsistent, size)
	}
	offset, err := d.r.U32(be)
	if err != nil {
		return false, truncated(err)
	}
	if _, err := d.r.U32(be); err != nil { // block size
		return false, truncated(err)
	}
	d.ssndSeen = true

	p := d.p
	p.DataStart = start + 16 + int64(offset)
	p.DataLen = size - 8 - int64(offset)
	if p.DataLen < 0 {
		return false, fmt.Errorf("%w: SSND offset %d beyond chunk size %d", formats.ErrInconsistent, offset, size)
	}
	if rem := d.r.Remaining(); rem < 0 {
		if p.DataLen == 0 {
			p.DataLen = formats.UnknownLen
		}
	} else {
		rem = max(rem-int64(offset), 0)
		switch {
		case p.DataLen == 0 && rem > 0:
			d.log.Warn("%s: SSND chunk is empty, using remaining %d bytes", p.Container, rem)
			p.DataLen = rem
		case p.DataLen > rem:
			d.log.Warn("%s: SSND chunk size %d exceeds remaining %d bytes", p.Container, size, rem)
			p.DataLen = rem
		}
	}

	if p.DataLen == formats.UnknownLen {
		d.p.Layout.Add("SSND", start, p.DataStart)
		return false, nil
	}
	next := p.DataStart + pad2(p.DataLen)
	if fs := d.r.Size(); fs >= 0 && next > fs {
		next = fs
	}
	d.p.Layout.Add("SSND", start, next)
	if !d.r.Seekable() || next+8 > end {
		return false, nil
	}
	if err := d.r.SeekTo(next); err != nil {
		return false, err
	}
	return true, nil
}

func (d *decoder) readComm(b []byte) error {
	want := 18
	if d.aifc {
		want = 22
	}
	if len(b) < want {
		return fmt.Errorf("%w: %d bytes", ErrBadCommonChunk, len(b))
	}
	d.p.NumChannels = int(int16(be.Uint16(b[0:2])))
	d.frames = int64(be.Uint32(b[2:6]))
	d.sampleSize = int(int16(be.Uint16(b[6:8])))
	d.p.SampleRate = binio.Ext80(b[8:18])

	d.comp = compressions[0]
	if d.aifc {
		var code [4]byte
		copy(code[:], b[18:22])
		c, ok := lookupCompression(code)
		if !ok {
			return fmt.Errorf("%w: compression type %q", ErrUnsupportedEncoding, string(code[:]))
		}
		d.comp = c
	}
	d.commSeen = true
	return nil
}

func (d *decoder) readAnno(b []byte) error {
	if bytes.HasPrefix(b, []byte(afspMarker)) {
		return d.p.Info.AddBlob(b[len(afspMarker):])
	}
	return d.addText(textChunks[len(textChunks)-1].rec, b)
}

func (d *decoder) addText(id string, b []byte) error {
	text := strings.TrimRight(string(b), "\x00 ")
	if text == "" {
		return nil
	}
	return d.p.Info.Add(id, text)
}

func (d *decoder) finish() error {
	p := d.p
	if p.NumChannels < 1 {
		return fmt.Errorf("%w: %d channels", ErrBadCommonChunk, p.NumChannels)
	}
	p.Format.Order = d.comp.order
	p.Format.Kind = d.comp.kind
	switch {
	case p.Format.Kind == codec.Undefined:
		if d.sampleSize < 1 || d.sampleSize > 32 {
			return fmt.Errorf("%w: %d-bit integer samples", ErrUnsupportedEncoding, d.sampleSize)
		}
		p.Format.Kind = intKind(d.sampleSize)
		p.Res = d.sampleSize
	case p.Format.Kind.IsPCM() && d.sampleSize > 0 && d.sampleSize <= p.Format.Kind.Bits():
		p.Res = d.sampleSize
	default:
		p.Res = p.Format.Kind.Bits()
	}

	block := int64(p.NumChannels * p.Format.Width())
	if p.DataLen == formats.UnknownLen {
		if d.frames > 0 {
			p.DataLen = d.frames * block
		}
	} else {
		avail := p.DataLen / block
		if fs := d.r.Size(); fs >= 0 {
			avail = min(avail, max(fs-p.DataStart, 0)/block)
		}
		switch {
		case d.frames > avail || (d.frames == 0 && avail > 0):
			d.log.Warn("%s: COMM gives %d frames, sound data holds %d", p.Container, d.frames, avail)
			p.DataLen = avail * block
		case d.frames < avail:
			d.log.Debug("%s: %d bytes of sound data after the last frame", p.Container, p.DataLen-d.frames*block)
			p.DataLen = d.frames * block
		}
	}
	if err := p.ResolveData(d.r, d.log); err != nil {
		return err
	}
	return p.Validate()
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", formats.ErrTruncated, err)
	}
	return err
}
