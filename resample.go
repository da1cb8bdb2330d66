// SPDX-License-Identifier: EPL-2.0

package audfile

import (
	"errors"
	"fmt"
	"math"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audfile/afile"
	"github.com/ik5/audfile/audio"
	"github.com/ik5/audfile/codec"
	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/info"
)

// ResampleToMono16 resamples src to targetRate, mixes it down to mono and
// returns the result as 16-bit samples. Values beyond full scale are clipped.
//
// Example:
//
//	src, _ := afile.Open("speech.wav", afile.DefaultOptions())
//	buf, err := audfile.ResampleToMono16(src, 8000)
//	if err != nil {
//	    return err
//	}
//	// buf.Data now contains mono 16-bit PCM at 8kHz
func ResampleToMono16(src audio.Source, targetRate float64) (*goaudio.IntBuffer, error) {
	p, err := audio.NewPipeline(src, targetRate, true)
	if err != nil {
		return nil, err
	}
	samples, err := audio.ReadAll(p)
	if err != nil {
		return nil, err
	}

	tmp := make([]float64, len(samples))
	for i, x := range samples {
		tmp[i] = float64(x)
	}
	out := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: int(math.Round(targetRate))},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	var enc codec.Encoder
	enc.Quantize(out.Data, tmp, codec.Int16, 1.0/32768)
	return out, nil
}

// ConvertParams select the output of Convert. Zero values keep the
// corresponding property of the input.
type ConvertParams struct {
	// Container of the output file. Input types that cannot be written
	// become WAVE, text16 becomes text.
	Container formats.Container
	Format    codec.Format
	// Rate is the output sampling rate in Hz.
	Rate float64
	// Mono mixes all channels down to one.
	Mono bool
}

// regenerated lists records that a new header describes afresh.
var regenerated = map[string]bool{
	info.Date:          true,
	info.Program:       true,
	info.SamplingRate:  true,
	info.BitsPerSample: true,
	info.Loudspeakers:  true,
}

// Convert copies the audio file in to out, converting file type, sample
// format, sampling rate and channel count as cp asks. Information records of
// the input are carried over. It returns the number of samples written.
func Convert(in, out string, cp ConvertParams, opts afile.Options) (int64, error) {
	src, err := afile.Open(in, opts)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	wp := outputParams(src, cp)
	p, err := audio.NewPipeline(src, cp.Rate, cp.Mono)
	if err != nil {
		return 0, err
	}
	wp.NumChannels = p.Channels()
	wp.SampleRate = p.SampleRate()

	wopts := opts
	wopts.Info = info.NewRecords(opts.InfoMax)
	for _, r := range src.Records().All() {
		if regenerated[r.ID] {
			continue
		}
		if err := wopts.Info.Add(r.ID, r.Text); err != nil {
			return 0, err
		}
	}
	for _, r := range opts.Info.All() {
		if err := wopts.Info.Add(r.ID, r.Text); err != nil {
			return 0, err
		}
	}

	dst, err := afile.Create(out, wp, wopts)
	if err != nil {
		return 0, err
	}
	n, err := audio.Copy(dst, p)
	return n, errors.Join(err, closeErr(dst))
}

func closeErr(f *afile.File) error {
	if err := f.Close(); err != nil {
		return fmt.Errorf("finishing output: %w", err)
	}
	return nil
}

// outputParams fills the parts of the write request that do not depend on
// the conversion stages.
func outputParams(src *afile.File, cp ConvertParams) formats.WriteParams {
	wp := formats.WriteParams{
		Container: cp.Container,
		Format:    cp.Format,
		NumFrames: formats.UnknownLen,
	}
	if wp.Container == formats.Unknown {
		wp.Container = src.Container()
		switch {
		case wp.Container == formats.Text16:
			wp.Container = formats.Text
		case !wp.Container.Writable():
			wp.Container = formats.WAVE
		}
	}
	if wp.Format.Kind == codec.Undefined {
		wp.Format = src.Format()
		wp.Res = src.Res()
		if wp.Container == formats.Text {
			wp.Format.Kind, wp.Res = codec.Text, 0
		} else if wp.Format.Kind.IsText() {
			wp.Format.Kind, wp.Res = codec.Int16, 0
		}
	}
	sameRate := cp.Rate == 0 || cp.Rate == src.SampleRate()
	if sameRate && src.Frames() >= 0 {
		wp.NumFrames = src.Frames()
	}
	if !cp.Mono {
		wp.Speakers = src.Speakers()
	}
	return wp
}
