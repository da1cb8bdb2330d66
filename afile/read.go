// SPDX-License-Identifier: EPL-2.0

package afile

import (
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/formats/text"
)

func (f *File) readable() error {
	switch {
	case f.closed:
		return ErrClosed
	case f.mode != modeRead:
		return fmt.Errorf("%w: reading a file open for writing", ErrMode)
	}
	return nil
}

// ReadFloat64 fills dst with the samples starting at sample offset, scaled to
// program units. Positions before the start or past the end of the data read
// as zero. It returns the number of samples taken from the file, which is
// less than len(dst) only at the end of the data.
func (f *File) ReadFloat64(offset int64, dst []float64) (int, error) {
	if err := f.readable(); err != nil {
		return 0, f.opts.check(err)
	}
	clear(dst)
	if offset < 0 {
		skip := int(min(-offset, int64(len(dst))))
		dst = dst[skip:]
		offset = 0
	}
	if f.nsamp >= 0 {
		if offset >= f.nsamp {
			return 0, nil
		}
		dst = dst[:min(int64(len(dst)), f.nsamp-offset)]
	}
	if len(dst) == 0 {
		return 0, nil
	}
	if err := f.position(offset); err != nil {
		return 0, f.opts.check(err)
	}
	if f.cur != offset {
		return 0, nil
	}
	var n int
	var err error
	if f.text != nil {
		n, err = f.readText(dst, f.scale)
	} else {
		n, err = f.readBlocks(len(dst), func(b []byte, at, k int) {
			codec.Decode(dst[at:at+k], b, f.format, f.scale)
		})
	}
	return n, f.opts.check(err)
}

// ReadSamples reads the next samples in sequence as float32 values. With the
// default options a full-scale sample reads as 1. It returns io.EOF when no
// samples are left.
func (f *File) ReadSamples(dst []float32) (int, error) {
	tmp := f.scratch(min(len(dst), f.BufSize()))
	done := 0
	for done < len(dst) {
		m := min(len(dst)-done, len(tmp))
		n, err := f.ReadFloat64(f.cur, tmp[:m])
		if err != nil {
			return done, err
		}
		for i := range n {
			dst[done+i] = float32(tmp[i])
		}
		done += n
		if n < m {
			break
		}
	}
	if done == 0 && len(dst) > 0 {
		return 0, io.EOF
	}
	return done, nil
}

// ReadIntBuffer reads the next samples in sequence as native integers: PCM
// values as stored, G.711 and text samples in 16-bit units and float samples
// at 32-bit full scale. buf.Format and buf.SourceBitDepth are set from the
// file. It returns io.EOF when no samples are left.
func (f *File) ReadIntBuffer(buf *goaudio.IntBuffer) (int, error) {
	if err := f.readable(); err != nil {
		return 0, f.opts.check(err)
	}
	buf.Format = &goaudio.Format{NumChannels: f.nchan, SampleRate: int(math.Round(f.rate))}
	buf.SourceBitDepth = f.res
	dst := buf.Data
	if f.nsamp >= 0 {
		dst = dst[:max(0, min(int64(len(dst)), f.nsamp-f.cur))]
	}
	if len(dst) == 0 {
		if len(buf.Data) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}

	var n int
	var err error
	if f.text != nil {
		tmp := make([]float64, len(dst))
		n, err = f.readText(tmp, 1)
		for i := range n {
			dst[i] = int(math.Round(tmp[i]))
		}
	} else {
		n, err = f.readBlocks(len(dst), func(b []byte, at, k int) {
			codec.DecodeInt(dst[at:at+k], b, f.format)
		})
	}
	if err == nil && n == 0 {
		err = io.EOF
	}
	if errors.Is(err, io.EOF) {
		return n, err
	}
	return n, f.opts.check(err)
}

// SeekSample moves the read position to the given sample. Moving back needs a
// seekable input.
func (f *File) SeekSample(sample int64) error {
	if err := f.readable(); err != nil {
		return f.opts.check(err)
	}
	if sample < 0 || (f.nsamp >= 0 && sample > f.nsamp) {
		return f.opts.check(fmt.Errorf("%w: sample %d outside the data", formats.ErrInconsistent, sample))
	}
	return f.opts.check(f.position(sample))
}

// position moves the data cursor to sample s. Past the end of input of
// unknown length the cursor stops at the end and the length becomes known.
func (f *File) position(s int64) error {
	if s == f.cur {
		return nil
	}
	if s < f.cur && !f.r.Seekable() {
		return fmt.Errorf("%w: cannot go back to sample %d from %d", formats.ErrNotSeekable, s, f.cur)
	}

	if f.text != nil {
		if s < f.cur {
			if err := f.r.SeekTo(f.dataStart); err != nil {
				return err
			}
			f.text = codec.NewTextDecoder(text.DataReader(f.r, f.format.Kind))
			f.cur = 0
		}
		n, err := f.text.Skip(s - f.cur)
		f.cur += n
		if errors.Is(err, io.EOF) {
			f.atEnd()
			return nil
		}
		return err
	}

	w := int64(f.format.Width())
	if err := f.r.SeekTo(f.dataStart + s*w); err != nil {
		if errors.Is(err, formats.ErrTruncated) {
			f.cur = (f.r.Pos() - f.dataStart) / w
			f.atEnd()
			return nil
		}
		return err
	}
	f.cur = s
	return nil
}

// readBlocks reads up to n samples through the transcoding buffer and hands
// each block of k samples, destined for index at, to emit.
func (f *File) readBlocks(n int, emit func(b []byte, at, k int)) (int, error) {
	w := f.format.Width()
	done := 0
	for done < n {
		k := min(n-done, len(f.buf)/w)
		m, err := io.ReadFull(f.r, f.buf[:k*w])
		k = m / w
		emit(f.buf[:k*w], done, k)
		done += k
		f.cur += int64(k)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				f.atEnd()
				return done, nil
			}
			return done, fmt.Errorf("reading audio data: %w", err)
		}
	}
	return done, nil
}

func (f *File) readText(dst []float64, scale float64) (int, error) {
	n, err := f.text.Decode(dst, scale)
	f.cur += int64(n)
	switch {
	case errors.Is(err, io.EOF):
		f.atEnd()
		return n, nil
	case err != nil:
		return n, err
	case n < len(dst):
		f.atEnd()
	}
	return n, nil
}

// atEnd records that the data ended at the cursor.
func (f *File) atEnd() {
	if f.nsamp < 0 {
		f.nsamp = f.cur
		if r := f.nsamp % int64(f.nchan); r != 0 {
			f.log.Warn("%s: data ends inside a frame, %d samples ignored", f.container, r)
			f.nsamp -= r
		}
		return
	}
	if f.cur < f.nsamp {
		f.log.Warn("%s: data ends after %d of %d samples", f.container, f.cur, f.nsamp)
		f.nsamp = f.cur
	}
}
