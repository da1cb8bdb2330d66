// SPDX-License-Identifier: EPL-2.0

// Package text reads and writes text audio files.
//
// A text audio file starts with the line "%//". Header lines begin with '%'
// and are grouped into sections separated by further "%//" lines. In the
// first section "key: value" lines carry the sampling frequency, the number
// of channels, the full scale and any other information records; a first
// line without a colon is the title. The second section is a free-form
// description and later sections describe the product. The sample values
// follow the header as decimal numbers, one frame per line.
//
// The text16 variant is the same content in UTF-16 little-endian with a byte
// order mark. It can be read but not written.
package text

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
	"github.com/ik5/audfile/logger"
)

const (
	sentinel = "%//"
	bom16    = "\xff\xfe"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DataReader returns the sample text of a file of kind k as UTF-8.
func DataReader(r io.Reader, k codec.Kind) io.Reader {
	if k == codec.Text16 {
		return transform.NewReader(r, utf16le.NewDecoder())
	}
	return r
}

type decoder struct {
	r    *binio.Reader
	p    *formats.ReadParams
	log  *logger.Logger
	unit int // bytes per code unit

	section int
	lines   int // non-empty lines in the current section
	desc    []string
	prod    []string
}

// Decode parses a text or text16 audio header and leaves r at the first
// line of sample data.
func Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error) {
	d := &decoder{r: r, log: o.Log, unit: 1, section: 1}
	lead, err := r.Bytes(2)
	if err != nil {
		return nil, ErrNotTextFile
	}
	if string(lead) == bom16 {
		d.unit = 2
		d.p = formats.NewReadParams(formats.Text16, o)
		d.p.Format.Kind = codec.Text16
		if lead, err = r.Bytes(2 * len(sentinel)); err != nil {
			return nil, ErrNotTextFile
		}
		if lead, err = utf16le.NewDecoder().Bytes(lead); err != nil {
			return nil, ErrNotTextFile
		}
	} else {
		d.p = formats.NewReadParams(formats.Text, o)
		d.p.Format.Kind = codec.Text
		c, err := r.Bytes(1)
		if err != nil {
			return nil, ErrNotTextFile
		}
		lead = append(lead, c...)
	}
	if string(lead) != sentinel {
		return nil, ErrNotTextFile
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.p, nil
}

func (d *decoder) run() error {
	// Rest of the sentinel line.
	if _, _, err := d.line(false); err != nil {
		return err
	}
	for {
		line, ok, err := d.line(true)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := d.header(line); err != nil {
			return err
		}
	}
	if err := d.flushSections(); err != nil {
		return err
	}

	p := d.p
	p.DataStart = d.r.Pos()
	p.Layout.Add("header", 0, p.DataStart)
	if p.NumChannels == 0 {
		d.log.Debug("%s: number of channels not given, assuming 1", p.Container)
		p.NumChannels = 1
	}
	if p.SampleRate == 0 {
		return ErrNoSampleRate
	}

	count := formats.UnknownLen
	if d.r.Seekable() {
		n, err := codec.NewTextDecoder(DataReader(d.r, p.Format.Kind)).Count()
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("counting text samples: %w", err)
		}
		count = n
		if err := d.r.SeekTo(p.DataStart); err != nil {
			return err
		}
	}
	if err := p.ResolveData(d.r, d.log); err != nil {
		return err
	}
	if err := p.SetSamples(count, d.log); err != nil {
		return err
	}
	if p.DataLen >= 0 {
		p.Layout.Add("data", p.DataStart, p.DataStart+p.DataLen)
	}
	return p.Validate()
}

// line reads one line. With header set, a line that does not start with '%'
// is pushed back and ok is false. End of file also ends the header.
func (d *decoder) line(header bool) (string, bool, error) {
	var raw []byte
	unit := make([]byte, d.unit)
	for {
		if _, err := io.ReadFull(d.r, unit); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if len(raw) == 0 {
					return "", false, nil
				}
				break
			}
			return "", false, fmt.Errorf("reading text header: %w", err)
		}
		if header && len(raw) == 0 && !d.is(unit, '%') {
			d.r.Unread(unit)
			return "", false, nil
		}
		if d.is(unit, '\n') {
			break
		}
		raw = append(raw, unit...)
	}
	if d.unit == 2 {
		var err error
		if raw, err = utf16le.NewDecoder().Bytes(raw); err != nil {
			return "", false, fmt.Errorf("%w: %v", ErrBadField, err)
		}
	}
	return strings.TrimRight(string(raw), "\r"), true, nil
}

func (d *decoder) is(unit []byte, c byte) bool {
	if d.unit == 2 {
		return unit[0] == c && unit[1] == 0
	}
	return unit[0] == c
}

func (d *decoder) header(line string) error {
	content := strings.TrimSpace(strings.TrimPrefix(line, "%"))
	if content == "//" {
		d.section++
		d.lines = 0
		return nil
	}
	if content == "" {
		return nil
	}
	defer func() { d.lines++ }()

	switch {
	case d.section == 2:
		d.desc = append(d.desc, content)
		return nil
	case d.section > 2:
		d.prod = append(d.prod, content)
		return nil
	}
	if key, val, ok := field(content); ok {
		return d.setField(key, val)
	}
	if _, ok := d.p.Info.Get(info.Title); !ok && d.lines == 0 {
		return d.p.Info.Add(info.Title, content)
	}
	return d.p.Info.Add(info.Comment, content)
}

func field(s string) (key, val string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
}

func (d *decoder) setField(key, val string) error {
	p := d.p
	switch strings.ToLower(key) {
	case "sampling frequency", "sampling rate", "sample rate":
		v, err := number(val)
		if err != nil || v <= 0 {
			return fmt.Errorf("%w: sampling frequency %q", ErrBadField, val)
		}
		p.SampleRate = v
	case "number of channels", "channels":
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: number of channels %q", ErrBadField, val)
		}
		p.NumChannels = n
	case "full scale":
		v, err := number(val)
		if err != nil || v <= 0 {
			return fmt.Errorf("%w: full scale %q", ErrBadField, val)
		}
		p.FullScale = v
	default:
		return p.Info.Add(info.NormalizeID(key), val)
	}
	return nil
}

// number parses the leading number of a value such as "8000 Hz".
func number(s string) (float64, error) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(f[0], 64)
}

func (d *decoder) flushSections() error {
	if len(d.desc) > 0 {
		if err := d.p.Info.Add(info.Description, strings.Join(d.desc, "\n")); err != nil {
			return err
		}
	}
	if len(d.prod) > 0 {
		return d.p.Info.Add(info.Product, strings.Join(d.prod, "\n"))
	}
	return nil
}
