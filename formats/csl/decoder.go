// SPDX-License-Identifier: EPL-2.0

// Package csl reads Computerized Speech Lab NSP headers.
//
// An NSP file is "FORMDS16", a little-endian length and a sequence of
// chunks. HEDR (or HDR8 for up to eight channels) carries the recording
// date, sampling rate, length and per-channel peak values; a peak of 0xFFFF
// marks an unused channel. NOTE holds a comment. The samples are 16-bit
// little-endian integers in SDA_ (channel A), SD_B (channel B) or SDAB
// (interleaved channels).
package csl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
	"github.com/ik5/audfile/logger"
)

var le = binary.LittleEndian

const (
	preamble   = "FORMDS16"
	dateLen    = 20
	hedrSize   = 32
	peakAbsent = 0xFFFF
)

type decoder struct {
	r   *binio.Reader
	p   *formats.ReadParams
	log *logger.Logger

	hdrSeen  bool
	active   int   // channels with a peak value
	length   int64 // samples per channel from the header
	dataSeen bool
}

type chunkHandler func(d *decoder, b []byte) error

var handlers = map[string]chunkHandler{
	"HEDR": (*decoder).readHeader,
	"HDR8": (*decoder).readHeader,
	"NOTE": (*decoder).readNote,
}

var dataChannels = map[string]int{
	"SDA_": 1,
	"SD_B": 1,
	"SDAB": 2,
}

// Decode parses an NSP header.
func Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error) {
	d := &decoder{r: r, p: formats.NewReadParams(formats.CSL, o), log: o.Log}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.p, nil
}

func (d *decoder) run() error {
	b, err := d.r.Bytes(12)
	if err != nil {
		return fmt.Errorf("reading NSP preamble: %w", err)
	}
	if string(b[:8]) != preamble {
		return ErrNotCSLFile
	}
	end := int64(le.Uint32(b[8:])) + 12
	if fs := d.r.Size(); fs >= 0 && end != fs {
		d.log.Warn("CSL: FORM size %d inconsistent with file size %d, using file size", end-12, fs)
		end = fs
	}
	d.p.Layout.Add("FORM", 0, 12)
	d.p.Format = codec.Format{Kind: codec.Int16, Order: codec.LittleEndian}

	for d.r.Pos()+8 <= end {
		start := d.r.Pos()
		id, err := d.r.Tag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		size32, err := d.r.U32(le)
		if err != nil {
			return err
		}
		size := int64(size32)
		name := string(id[:])

		if nchan, ok := dataChannels[name]; ok {
			if !d.hdrSeen && !d.r.Seekable() {
				return ErrNoHeader
			}
			if d.dataSeen {
				d.log.Warn("CSL: extra %s chunk ignored", name)
			} else {
				d.dataSeen = true
				d.p.NumChannels = nchan
				d.p.DataStart = start + 8
				d.p.DataLen = size
			}
			next := start + 8 + size + size&1
			d.p.Layout.Add(name, start, next)
			if !d.r.Seekable() {
				break
			}
			if err := d.r.SeekTo(min(next, end)); err != nil {
				return err
			}
			continue
		}

		body, err := d.r.Bytes(int(size))
		if err != nil {
			return fmt.Errorf("chunk %q: %w", name, err)
		}
		if h, ok := handlers[name]; ok {
			if err := h(d, body); err != nil {
				return fmt.Errorf("chunk %q: %w", name, err)
			}
		}
		next := start + 8 + size + size&1
		if err := d.r.SeekTo(min(next, end)); err != nil {
			return err
		}
		d.p.Layout.Add(name, start, next)
	}

	if !d.hdrSeen {
		return ErrNoHeader
	}
	if !d.dataSeen {
		return ErrNoData
	}
	return d.finish()
}

func (d *decoder) readHeader(b []byte) error {
	if len(b) < hedrSize {
		return fmt.Errorf("%w: CSL header of %d bytes", formats.ErrInconsistent, len(b))
	}
	if date := strings.TrimRight(string(b[:dateLen]), "\x00 "); date != "" {
		if err := d.p.Info.Add(info.Date, date); err != nil {
			return err
		}
	}
	d.p.SampleRate = float64(le.Uint32(b[dateLen:]))
	d.length = int64(le.Uint32(b[dateLen+4:]))
	d.active = 0
	for peaks := b[dateLen+8:]; len(peaks) >= 2; peaks = peaks[2:] {
		if le.Uint16(peaks) != peakAbsent {
			d.active++
		}
	}
	d.hdrSeen = true
	return nil
}

func (d *decoder) readNote(b []byte) error {
	text := strings.TrimRight(string(b), "\x00 ")
	if text == "" {
		return nil
	}
	return d.p.Info.Add(info.Comment, text)
}

func (d *decoder) finish() error {
	p := d.p
	if p.NumChannels == 2 && d.active > 2 {
		p.NumChannels = d.active
	}
	if want := d.length * int64(p.NumChannels) * 2; d.length > 0 && want != p.DataLen {
		d.log.Debug("CSL: header length %d disagrees with %d data bytes", d.length, p.DataLen)
	}
	if err := p.ResolveData(d.r, d.log); err != nil {
		return err
	}
	return p.Validate()
}
