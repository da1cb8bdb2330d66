// SPDX-License-Identifier: EPL-2.0

package afile

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/internal/binio"
	"github.com/ik5/audfile/speaker"
)

// Create creates the named file and writes its header. "-" writes to
// standard output, where header sizes cannot be updated on Close.
func Create(name string, p formats.WriteParams, opts Options) (*File, error) {
	if name == "-" {
		return NewWriter(os.Stdout, p, opts)
	}
	fh, err := os.Create(name)
	if err != nil {
		return nil, opts.check(fmt.Errorf("creating audio file: %w", err))
	}
	f, err := NewWriter(fh, p, opts)
	if err != nil {
		_ = fh.Close()
		_ = os.Remove(name)
		return nil, err
	}
	f.closer = fh
	return f, nil
}

// NewWriter writes the header of a new audio file to w. Set p.NumFrames to
// formats.UnknownLen when the length is not known; the header is then
// completed by Close if w is seekable. Nothing is written when the request
// is rejected.
func NewWriter(w io.Writer, p formats.WriteParams, opts Options) (*File, error) {
	f, err := newWriter(w, p, opts)
	return f, opts.check(err)
}

func newWriter(w io.Writer, p formats.WriteParams, opts Options) (*File, error) {
	if !p.Container.Writable() {
		return nil, fmt.Errorf("%w: %s", ErrNotWritable, p.Container)
	}
	encode := encoders[p.Container]
	if p.Res == 0 {
		p.Res = opts.Res
	}
	if len(p.Speakers) == 0 && opts.Speakers != "" {
		cfg, err := speaker.Decode(opts.Speakers, p.NumChannels)
		if err != nil {
			return nil, err
		}
		p.Speakers = cfg
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	recs, err := headerRecords(&p, &opts)
	if err != nil {
		return nil, err
	}

	bw := binio.NewWriter(w)
	hdr, err := encode(bw, &p, recs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Container, err)
	}

	f := &File{
		mode:      modeWrite,
		opts:      opts,
		log:       opts.Log,
		container: p.Container,
		format:    p.Format,
		res:       p.Res,
		nchan:     p.NumChannels,
		nsamp:     formats.UnknownLen,
		rate:      p.SampleRate,
		fileScale: p.Format.Kind.FullScale(),
		dataStart: hdr.DataStart,
		records:   recs,
		speakers:  p.Speakers,
		w:         bw,
		hdr:       hdr,
		buf:       make([]byte, bufBytes),
	}
	f.scale = opts.programScale() / f.fileScale
	return f, nil
}

func (f *File) writable() error {
	switch {
	case f.closed:
		return ErrClosed
	case f.mode != modeWrite:
		return fmt.Errorf("%w: writing a file open for reading", ErrMode)
	}
	return nil
}

// WriteFloat64 appends samples given in program units. Values beyond the
// range of the file format are clipped and counted in Overloads.
func (f *File) WriteFloat64(src []float64) (int, error) {
	if err := f.writable(); err != nil {
		return 0, f.opts.check(err)
	}
	if f.format.Kind.IsText() {
		f.w.Bytes(f.enc.FormatText(f.buf[:0], src, f.scale, f.nchan, &f.col))
		return f.wrote(len(src))
	}
	w := f.format.Width()
	per := len(f.buf) / w
	for done := 0; done < len(src); {
		k := min(len(src)-done, per)
		f.enc.Encode(f.buf, src[done:done+k], f.format, f.scale)
		f.w.Bytes(f.buf[:k*w])
		done += k
	}
	return f.wrote(len(src))
}

// WriteFloat32 is WriteFloat64 for float32 samples.
func (f *File) WriteFloat32(src []float32) (int, error) {
	tmp := f.scratch(min(len(src), f.BufSize()))
	done := 0
	for done < len(src) {
		k := min(len(src)-done, len(tmp))
		for i := range k {
			tmp[i] = float64(src[done+i])
		}
		if _, err := f.WriteFloat64(tmp[:k]); err != nil {
			return done, err
		}
		done += k
	}
	return done, nil
}

// WriteIntBuffer appends native integer samples, the counterpart of
// ReadIntBuffer.
func (f *File) WriteIntBuffer(buf *goaudio.IntBuffer) (int, error) {
	if err := f.writable(); err != nil {
		return 0, f.opts.check(err)
	}
	src := buf.Data
	if f.format.Kind.IsText() {
		tmp := make([]float64, len(src))
		for i, v := range src {
			tmp[i] = float64(v)
		}
		f.w.Bytes(f.enc.FormatText(f.buf[:0], tmp, 1, f.nchan, &f.col))
		return f.wrote(len(src))
	}
	w := f.format.Width()
	per := len(f.buf) / w
	for done := 0; done < len(src); {
		k := min(len(src)-done, per)
		f.enc.EncodeInt(f.buf, src[done:done+k], f.format)
		f.w.Bytes(f.buf[:k*w])
		done += k
	}
	return f.wrote(len(src))
}

func (f *File) wrote(n int) (int, error) {
	if err := f.w.Err(); err != nil {
		return 0, f.opts.check(err)
	}
	f.written += int64(n)
	return n, nil
}

// finalize completes the header. On a sequential stream whose header could
// not be completed a warning is logged; readers then see the length the
// header announced.
func (f *File) finalize() error {
	if f.written%int64(f.nchan) != 0 {
		f.log.Warn("%s: %d samples written is not a whole number of %d-channel frames", f.container, f.written, f.nchan)
	}
	if f.col != 0 {
		f.w.Text("\n")
	}
	if f.enc.Overloads > 0 {
		f.log.Warn("%s: %d samples clipped", f.container, f.enc.Overloads)
	}
	dataBytes := f.w.Pos() - f.dataStart
	frames := f.written / int64(f.nchan)
	err := f.hdr.Finalize(f.w, dataBytes, frames)
	if errors.Is(err, formats.ErrNotSeekable) {
		f.log.Warn("%s: %v", f.container, err)
		return nil
	}
	return err
}
