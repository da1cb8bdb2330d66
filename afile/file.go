// SPDX-License-Identifier: EPL-2.0

package afile

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/formats/aiff"
	"github.com/ik5/audfile/formats/au"
	"github.com/ik5/audfile/formats/csl"
	"github.com/ik5/audfile/formats/esps"
	"github.com/ik5/audfile/formats/ircam"
	"github.com/ik5/audfile/formats/nist"
	"github.com/ik5/audfile/formats/raw"
	"github.com/ik5/audfile/formats/text"
	"github.com/ik5/audfile/formats/wav"
	"github.com/ik5/audfile/info"
	"github.com/ik5/audfile/internal/binio"
	"github.com/ik5/audfile/logger"
	"github.com/ik5/audfile/speaker"
)

type decodeFunc func(*binio.Reader, formats.DecodeOptions) (*formats.ReadParams, error)

type encodeFunc func(*binio.Writer, *formats.WriteParams, *info.Records) (*formats.Header, error)

var decoders = map[formats.Container]decodeFunc{
	formats.Headerless: raw.Decode,
	formats.AU:         au.Decode,
	formats.WAVE:       wav.Decode,
	formats.AIFF:       aiff.Decode,
	formats.AIFFC:      aiff.Decode,
	formats.AIFFCSowt:  aiff.Decode,
	formats.NIST:       nist.Decode,
	formats.ESPS:       esps.Decode,
	formats.IRCAM:      ircam.Decode,
	formats.CSL:        csl.Decode,
	formats.Text:       text.Decode,
	formats.Text16:     text.Decode,
}

var encoders = map[formats.Container]encodeFunc{
	formats.Headerless: raw.Encode,
	formats.AU:         au.Encode,
	formats.WAVE:       wav.Encode,
	formats.AIFF:       aiff.Encode,
	formats.AIFFC:      aiff.Encode,
	formats.AIFFCSowt:  aiff.Encode,
	formats.Text:       text.Encode,
}

type mode int

const (
	modeRead mode = iota
	modeWrite
)

// bufBytes is the size of the transcoding buffer.
const bufBytes = 8192

// File is an open audio file. It is not safe for concurrent use.
type File struct {
	mode   mode
	opts   Options
	log    *logger.Logger
	closer io.Closer // set when the file was opened by name
	closed bool

	container formats.Container
	format    codec.Format
	res       int
	nchan     int
	nsamp     int64 // total samples, UnknownLen while not known
	rate      float64
	fileScale float64 // file value of full scale
	scale     float64 // program value per file unit
	dataStart int64

	records  *info.Records
	layout   *info.Layout
	speakers speaker.Config

	buf  []byte
	fbuf []float64 // float32 conversion

	// read
	r    *binio.Reader
	cur  int64 // next sample to read
	text *codec.TextDecoder

	// write
	w       *binio.Writer
	hdr     *formats.Header
	enc     codec.Encoder
	written int64
	col     int
}

// Open opens the named file for reading. Relative names are looked up in
// opts.SearchPath, and "-" reads standard input.
func Open(name string, opts Options) (*File, error) {
	if name == "-" {
		return OpenReader(os.Stdin, opts)
	}
	fh, err := os.Open(opts.resolve(name))
	if err != nil {
		return nil, opts.check(fmt.Errorf("opening audio file: %w", err))
	}
	f, err := OpenReader(fh, opts)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	f.closer = fh
	return f, nil
}

// OpenReader reads an audio file from r, which the caller keeps ownership of.
// The file type is detected unless opts.Container is set; detection needs a
// seekable r.
func OpenReader(r io.Reader, opts Options) (*File, error) {
	f, err := openReader(r, opts)
	return f, opts.check(err)
}

func openReader(r io.Reader, opts Options) (*File, error) {
	c := opts.Container
	if c == formats.Unknown {
		var name string
		var err error
		c, name, err = formats.DetectReader(r, opts.Headerless != nil)
		if err != nil {
			return nil, err
		}
		switch c {
		case formats.Unknown:
			return nil, ErrUnknownFormat
		case formats.Unsupported:
			return nil, fmt.Errorf("%w: %s", formats.ErrUnsupported, name)
		}
	}
	decode, ok := decoders[c]
	if !ok {
		return nil, fmt.Errorf("%w: cannot read %s files", formats.ErrUnsupported, c)
	}

	br := binio.NewReader(r)
	p, err := decode(br, opts.decodeOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	if err := br.SeekTo(p.DataStart); err != nil {
		return nil, fmt.Errorf("%s: moving to audio data: %w", c, err)
	}

	f := &File{
		mode:      modeRead,
		opts:      opts,
		log:       opts.Log,
		container: p.Container,
		format:    p.Format,
		res:       p.Res,
		nchan:     p.NumChannels,
		nsamp:     p.NumSamples,
		rate:      p.SampleRate,
		fileScale: p.FullScale,
		dataStart: p.DataStart,
		records:   p.Info,
		layout:    p.Layout,
		speakers:  p.Speakers,
		r:         br,
	}
	if f.fileScale <= 0 {
		f.fileScale = f.format.Kind.FullScale()
	}
	if err := f.applyRecords(); err != nil {
		return nil, err
	}
	f.scale = opts.programScale() / f.fileScale * opts.gain()
	if f.format.Kind.IsText() {
		f.text = codec.NewTextDecoder(text.DataReader(br, f.format.Kind))
	} else {
		f.buf = make([]byte, bufBytes)
	}
	if msgs := f.layout.Check(); len(msgs) > 0 {
		for _, m := range msgs {
			f.log.Debug("%s: %s", c, m)
		}
	}
	return f, nil
}

// applyRecords takes parameters that some headers only carry as records: an
// exact rate for headers holding an integer rate, the significant bits and
// the loudspeaker layout.
func (f *File) applyRecords() error {
	if s, ok := f.records.Get(info.SamplingRate); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && v > 0 && math.Round(v) == math.Round(f.rate) {
			f.rate = v
		}
	}
	if s, ok := f.records.Get(info.BitsPerSample); ok {
		var res, width int
		if _, err := fmt.Sscanf(s, "%d/%d", &res, &width); err == nil && width == f.format.Kind.Bits() && res > 0 && res <= width {
			f.res = res
		}
	}
	if len(f.speakers) > 0 {
		return nil
	}
	if s, ok := f.records.Get(info.Loudspeakers); ok {
		cfg, err := speaker.Decode(s, f.nchan)
		if err != nil {
			f.log.Warn("%s: ignoring loudspeaker record: %v", f.container, err)
		} else {
			f.speakers = cfg
			return nil
		}
	}
	if f.opts.Speakers != "" {
		cfg, err := speaker.Decode(f.opts.Speakers, f.nchan)
		if err != nil {
			return err
		}
		f.speakers = cfg
	}
	return nil
}

// Channels is the number of interleaved channels.
func (f *File) Channels() int { return f.nchan }

// SampleRate is the sampling frequency in Hz.
func (f *File) SampleRate() float64 { return f.rate }

// NumSamples is the total over all channels, formats.UnknownLen for input
// whose length is not known before it has been read.
func (f *File) NumSamples() int64 {
	if f.mode == modeWrite {
		return f.written
	}
	return f.nsamp
}

// Frames is NumSamples per channel.
func (f *File) Frames() int64 {
	n := f.NumSamples()
	if n < 0 {
		return formats.UnknownLen
	}
	return n / int64(f.nchan)
}

func (f *File) Container() formats.Container { return f.container }
func (f *File) Format() codec.Format         { return f.format }
func (f *File) Res() int                     { return f.res }
func (f *File) DataStart() int64             { return f.dataStart }

// FullScale is the file value of a full-scale sample.
func (f *File) FullScale() float64 { return f.fileScale }

// ScaleFactor is the program value of one file unit, the program full scale
// over the file full scale, times the gain for input files.
func (f *File) ScaleFactor() float64 { return f.scale }

// Overloads counts the samples clipped while writing.
func (f *File) Overloads() int64 { return f.enc.Overloads }

// Info returns the text of the first record with the given id.
func (f *File) Info(id string) (string, bool) { return f.records.Get(id) }

func (f *File) Records() *info.Records  { return f.records }
func (f *File) Layout() *info.Layout    { return f.layout }
func (f *File) Speakers() speaker.Config { return f.speakers }

func (f *File) scratch(n int) []float64 {
	if cap(f.fbuf) < n {
		f.fbuf = make([]float64, n)
	}
	return f.fbuf[:n]
}

// BufSize is the number of samples transcoded per underlying read.
func (f *File) BufSize() int {
	if w := f.format.Width(); w > 0 {
		return bufBytes / w
	}
	return bufBytes
}

// Close finalizes the header of a file open for writing, then closes the
// underlying file if it was opened by name. A second Close does nothing.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	var err error
	if f.mode == modeWrite {
		err = f.finalize()
	}
	if f.closer != nil {
		if cerr := f.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing audio file: %w", cerr)
		}
	}
	f.r, f.w, f.text, f.hdr = nil, nil, nil, nil
	f.records, f.layout, f.speakers = nil, nil, nil
	return f.opts.check(err)
}
