// SPDX-License-Identifier: EPL-2.0

// Package audfile reads and writes audio files across many file types and
// sample encodings through one interface.
//
// # Supported Formats
//
// Files are read from:
//   - headerless data described by the caller
//   - AU (.snd), WAVE including WAVE_FORMAT_EXTENSIBLE, AIFF, AIFF-C
//   - NIST SPHERE, ESPS sampled data, IRCAM SF, CSL NSP
//   - text audio, 8-bit or UTF-16
//
// and written to headerless, AU, WAVE, AIFF, AIFF-C, AIFF-C/sowt and text
// audio. Samples may be 8 to 32-bit integers, 32 or 64-bit floats, A-law,
// mu-law or bit-reversed mu-law.
//
// # Quick Start
//
// The afile subpackage opens files; the file type is detected from the data:
//
//	f, err := afile.Open("speech.wav", afile.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	buf := make([]float64, 4096)
//	n, err := f.ReadFloat64(0, buf)
//
// Convert copies a file to another file type, sample format, rate or
// channel count:
//
//	n, err := audfile.Convert("in.aif", "out.wav", audfile.ConvertParams{
//	    Format: codec.Format{Kind: codec.Int16},
//	    Rate:   16000,
//	}, afile.DefaultOptions())
//
// ResampleToMono16 collects any audio.Source as 16-bit mono samples:
//
//	buf, err := audfile.ResampleToMono16(f, 8000)
//
// # Audio Processing Pipeline
//
// An open file is an audio.Source, so the stages of the audio subpackage
// apply directly:
//
//	resampler, _ := audio.NewResampler(f, 16000)
//	mono := audio.NewMonoMixer(resampler)
//
// # Header Information
//
// Headers carry information records such as "title: ..." or "date: ...".
// New files get standard records for the creation date, the program and any
// parameter the file type cannot hold, such as a non-integer sampling rate.
// The cmd directory holds small tools built on these packages: infoaudio
// prints headers, copyaudio converts files and resampaudio resamples them.
package audfile
