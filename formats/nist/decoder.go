// SPDX-License-Identifier: EPL-2.0

package nist

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
	"github.com/ik5/audfile/logger"
)

const (
	preamble = "NIST_1A\n"
	endHead  = "end_head"
)

// field is one "name -type value" header line.
type field struct {
	name  string
	typ   byte // 'i', 'r' or 's'
	value string
}

type header struct {
	fields []field
	log    *logger.Logger
}

func (h *header) lookup(name string) (field, bool) {
	for _, f := range h.fields {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

func (h *header) integer(name string, required bool) (int64, bool, error) {
	f, ok := h.lookup(name)
	if !ok {
		if required {
			return 0, false, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		return 0, false, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(f.value), 10, 64)
	if err != nil || v < 0 {
		return 0, false, fmt.Errorf("%w: %s = %q", ErrBadField, name, f.value)
	}
	return v, true, nil
}

func (h *header) str(name string) (string, bool) {
	f, ok := h.lookup(name)
	return strings.ToLower(strings.TrimSpace(f.value)), ok
}

// parseFields reads header lines up to end_head.
func parseFields(b []byte) ([]field, error) {
	var fields []field
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\x00")
		if strings.TrimSpace(line) == endHead {
			return fields, nil
		}
		name, rest, ok := strings.Cut(strings.TrimLeft(line, " "), " ")
		if !ok || !strings.HasPrefix(rest, "-") || len(rest) < 2 {
			continue
		}
		typ, value, _ := strings.Cut(rest[1:], " ")
		f := field{name: name, typ: typ[0], value: value}
		if f.typ == 's' {
			if n, err := strconv.Atoi(typ[1:]); err == nil && n >= 0 && n < len(value) {
				f.value = value[:n]
			}
		}
		fields = append(fields, f)
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingField, endHead)
}

// Decode parses a NIST SPHERE header. Every header field is also stored as
// an information record.
func Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error) {
	p := formats.NewReadParams(formats.NIST, o)
	b, err := r.Bytes(16)
	if err != nil {
		return nil, fmt.Errorf("reading NIST preamble: %w", err)
	}
	if string(b[:8]) != preamble {
		return nil, ErrNotSphereFile
	}
	hdrSize, err := strconv.ParseInt(strings.TrimSpace(string(b[8:16])), 10, 64)
	if err != nil || hdrSize < 16 {
		return nil, fmt.Errorf("%w: header size %q", ErrBadField, strings.TrimSpace(string(b[8:16])))
	}
	rest, err := r.Bytes(int(hdrSize - 16))
	if err != nil {
		return nil, fmt.Errorf("reading NIST header: %w", err)
	}
	fields, err := parseFields(rest)
	if err != nil {
		return nil, err
	}
	h := &header{fields: fields, log: o.Log}
	for _, f := range fields {
		if err := p.Info.Add(info.NormalizeID(f.name), f.value); err != nil {
			return nil, err
		}
	}
	p.Layout.Add("header", 0, hdrSize)

	if err := h.params(p); err != nil {
		return nil, err
	}
	count, _, err := h.integer("sample_count", true)
	if err != nil {
		return nil, err
	}

	p.DataStart = hdrSize
	width := int64(p.Format.Width())
	nchan := int64(p.NumChannels)
	total := count * nchan
	// Some multi-channel files give the total over all channels instead of
	// the per-channel count.
	if size := r.Size(); size >= 0 && nchan > 1 {
		avail := size - hdrSize
		if total*width > avail && count*width == avail {
			o.Log.Warn("NIST: sample_count %d counts all %d channels, using %d frames", count, nchan, count/nchan)
			total = count
		}
	}
	p.DataLen = total * width
	if err := p.ResolveData(r, o.Log); err != nil {
		return nil, err
	}
	p.Layout.Add("data", p.DataStart, p.DataStart+p.DataLen)
	return p, p.Validate()
}

// params fills the sample format, channel count and rate.
func (h *header) params(p *formats.ReadParams) error {
	nbytes, _, err := h.integer("sample_n_bytes", true)
	if err != nil {
		return err
	}
	nchan, _, err := h.integer("channel_count", true)
	if err != nil {
		return err
	}
	p.NumChannels = int(nchan)

	coding, ok := h.str("sample_coding")
	if !ok || coding == "" {
		coding = "pcm"
	}
	base, extra, _ := strings.Cut(coding, ",")
	if strings.HasPrefix(extra, "embedded") {
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, coding)
	}
	switch base {
	case "pcm":
		switch nbytes {
		case 1:
			p.Format.Kind = codec.Int8
		case 2:
			p.Format.Kind = codec.Int16
		case 3:
			p.Format.Kind = codec.Int24
		case 4:
			p.Format.Kind = codec.Int32
		default:
			return fmt.Errorf("%w: %d-byte PCM", ErrUnsupportedEncoding, nbytes)
		}
	case "ulaw", "mu-law":
		p.Format.Kind = codec.MuLaw
	case "alaw":
		p.Format.Kind = codec.ALaw
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, coding)
	}
	if p.Format.Kind.IsG711() && nbytes != 1 {
		return fmt.Errorf("%w: %s with %d bytes per sample", ErrBadField, base, nbytes)
	}

	if err := h.byteOrder(p, int(nbytes)); err != nil {
		return err
	}

	if f, ok := h.lookup("sample_rate"); ok {
		rate, err := strconv.ParseFloat(strings.TrimSpace(f.value), 64)
		if err != nil {
			return fmt.Errorf("%w: sample_rate = %q", ErrBadField, f.value)
		}
		p.SampleRate = rate
	} else if p.Format.Kind == codec.MuLaw {
		h.log.Debug("NIST: no sample_rate for mu-law data, assuming 8000 Hz")
		p.SampleRate = 8000
	} else {
		return fmt.Errorf("%w: sample_rate", ErrMissingField)
	}

	if bits, ok, err := h.integer("sample_sig_bits", false); err != nil {
		return err
	} else if ok && bits > 0 && bits <= 8*nbytes && p.Format.Kind.IsPCM() {
		p.Res = int(bits)
	}
	return nil
}

// byteOrder interprets sample_byte_format: "01", "0123" and so on are
// little-endian, "10", "3210" big-endian.
func (h *header) byteOrder(p *formats.ReadParams, nbytes int) error {
	bf, ok := h.str("sample_byte_format")
	switch {
	case nbytes == 1:
		p.Format.Order = codec.BigEndian
	case !ok:
		h.log.Warn("NIST: no sample_byte_format, assuming big-endian")
		p.Format.Order = codec.BigEndian
	case len(bf) == nbytes && bf[0] == '0':
		p.Format.Order = codec.LittleEndian
	case len(bf) == nbytes && bf[len(bf)-1] == '0':
		p.Format.Order = codec.BigEndian
	default:
		return fmt.Errorf("%w: sample_byte_format %q", ErrUnsupportedEncoding, bf)
	}
	return nil
}
