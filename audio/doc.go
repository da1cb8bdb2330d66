// SPDX-License-Identifier: EPL-2.0

// Package audio provides streaming stages for sample data read from audio
// files.
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() float64
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// An afile.File open for reading is a Source, and so is every stage of this
// package, so stages chain into pipelines. A Sink, such as an afile.File open
// for writing, receives the result through Copy.
//
// # Resampling
//
// The Resampler changes the sample rate using cubic interpolation, with a
// one-pole low-pass filter when downsampling:
//
//	resampler, err := audio.NewResampler(source, 16000)
//	buf := make([]float32, 4096)
//	n, err := resampler.ReadSamples(buf)
//
// # Channel Mixing
//
// The MonoMixer averages the channels of each frame:
//
//	mono := audio.NewMonoMixer(source)
//
// NewPipeline combines both stages, skipping those that would not change the
// stream.
//
// # Sample Format
//
// Samples are float32 values with full scale 1, the default program scale of
// afile. Values beyond full scale are passed through; clipping happens when
// they are written to a file.
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // Process n samples from buf
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	}
package audio
