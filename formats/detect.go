// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audfile/internal/binio"
)

// Lookahead is the number of leading bytes examined by the detector. It
// covers the SPPACK magic at the end of a 512-byte header.
const Lookahead = 512

type signature struct {
	c      Container
	name   string
	off    int
	magic  string
	off2   int
	magic2 string
	min    int
	// test replaces the magic comparison for headers without a magic.
	test func(b []byte) bool
}

// inrsRates are the sampling rates an INRS-Telecom header may hold.
var inrsRates = []float32{20000.0 / 3, 8000, 10000, 12000, 16000, 20000}

// inrsRate reports whether b starts with a little-endian float32 rate from
// the INRS set.
func inrsRate(b []byte) bool {
	v := math.Float32frombits(binary.LittleEndian.Uint32(b))
	for _, r := range inrsRates {
		if math.Abs(float64(v-r)) < 0.01 {
			return true
		}
	}
	return false
}

// signatures are tried in order. Specific two-part entries come before the
// generic RIFF and FORM entries that catch the remaining variants.
var signatures = []signature{
	{c: AU, name: "AU audio file", magic: ".snd", min: 24},
	{c: AU, name: "AU audio file (little-endian)", magic: "dns.", min: 24},
	{c: WAVE, name: "WAVE file", magic: "RIFF", off2: 8, magic2: "WAVE", min: 12},
	{c: AIFF, name: "AIFF sound file", magic: "FORM", off2: 8, magic2: "AIFF", min: 12},
	{c: AIFFC, name: "AIFF-C sound file", magic: "FORM", off2: 8, magic2: "AIFC", min: 12},
	{c: CSL, name: "CSL NSP file", magic: "FORM", off2: 4, magic2: "DS16", min: 12},
	{c: NIST, name: "NIST SPHERE audio file", magic: "NIST_1A\n", off2: 8, magic2: "   1024\n", min: 16},
	{c: ESPS, name: "ESPS audio file", off: 16, magic: "\x00\x00\x6a\x1a", min: 32},
	{c: ESPS, name: "ESPS audio file (little-endian)", off: 16, magic: "\x1a\x6a\x00\x00", min: 32},
	{c: IRCAM, name: "IRCAM soundfile (VAX)", magic: "\x64\xa3\x01\x00", min: 16},
	{c: IRCAM, name: "IRCAM soundfile (Sun)", magic: "\x00\x02\xa3\x64", min: 16},
	{c: IRCAM, name: "IRCAM soundfile (MIPS)", magic: "\x64\xa3\x03\x00", min: 16},
	{c: IRCAM, name: "IRCAM soundfile (NeXT)", magic: "\x00\x04\xa3\x64", min: 16},
	{c: Text16, name: "text16 audio file", magic: "\xff\xfe%\x00/\x00/\x00", min: 8},
	{c: Text, name: "text audio file", magic: "%//", min: 3},

	{c: Unsupported, name: "SPW signal file", magic: "$SIGNAL FILE 9\n", min: 15},
	{c: Unsupported, name: "SPPACK file", off: 0x1fe, magic: "\xfc\x0e", min: 512},
	{c: Unsupported, name: "SPPACK file (little-endian)", off: 0x1fe, magic: "\x0e\xfc", min: 512},
	{c: Unsupported, name: "RIFF file (not WAVE)", magic: "RIFF", min: 12},
	{c: Unsupported, name: "big-endian RIFF file", magic: "RIFX", min: 12},
	{c: Unsupported, name: "FORM file (not AIFF)", magic: "FORM", min: 12},
	{c: Unsupported, name: "Ogg stream", magic: "OggS", min: 4},
	{c: Unsupported, name: "FLAC stream", magic: "fLaC", min: 4},
	{c: Unsupported, name: "MP3 file (ID3 tag)", magic: "ID3", min: 10},
	{c: Unsupported, name: "CAF file", magic: "caff", min: 8},
	{c: Unsupported, name: "MIDI file", magic: "MThd", min: 14},
	// INRS headers hold only a rate, so this entry comes last.
	{c: Unsupported, name: "INRS-Telecom audio file", min: 512, test: inrsRate},
}

func (s signature) match(b []byte) bool {
	if len(b) < s.min || len(b) < s.off+len(s.magic) {
		return false
	}
	if s.test != nil {
		return s.test(b)
	}
	if !bytes.Equal(b[s.off:s.off+len(s.magic)], []byte(s.magic)) {
		return false
	}
	if s.magic2 == "" {
		return true
	}
	if len(b) < s.off2+len(s.magic2) {
		return false
	}
	return bytes.Equal(b[s.off2:s.off2+len(s.magic2)], []byte(s.magic2))
}

// Match identifies the container from its leading bytes. The returned name
// describes the matched entry and is empty for Unknown and Headerless.
func Match(b []byte, headerless bool) (Container, string) {
	for _, s := range signatures {
		if s.match(b) {
			return s.c, s.name
		}
	}
	if headerless {
		return Headerless, ""
	}
	return Unknown, ""
}

// Detect reads the leading bytes of rs, identifies the container and moves
// back to the starting position.
func Detect(rs io.ReadSeeker, headerless bool) (Container, string, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return Unknown, "", fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}
	buf := make([]byte, Lookahead)
	n, err := io.ReadFull(rs, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Unknown, "", fmt.Errorf("reading file identifier: %w", err)
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return Unknown, "", fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}
	c, name := Match(buf[:n], headerless)
	return c, name, nil
}

// DetectReader is Detect for a stream of unknown capability. Automatic
// detection on a sequential stream is a configuration error.
func DetectReader(r io.Reader, headerless bool) (Container, string, error) {
	s, ok := binio.Seekable(r)
	if !ok {
		return Unknown, "", fmt.Errorf("%w: file type must be given for sequential input", ErrNotSeekable)
	}
	rs, ok := s.(io.ReadSeeker)
	if !ok {
		return Unknown, "", ErrNotSeekable
	}
	return Detect(rs, headerless)
}
