// SPDX-License-Identifier: EPL-2.0

// Package afile opens audio files for reading and creates them for writing
// across all supported file types.
//
// Opening detects the file type from the leading bytes, unless
// Options.Container forces one, and parses the header. The resulting File
// reports the channel count, sample count and sampling rate, the information
// records and the chunk layout of the header.
//
//	opts := afile.DefaultOptions()
//	f, err := afile.Open("speech.wav", opts)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	buf := make([]float64, 1024)
//	n, err := f.ReadFloat64(0, buf)
//
// Samples are read and written in program units: a full-scale sample of the
// file corresponds to Options.FullScale, 1 by default. ReadFloat64 reads at
// any sample offset and fills positions outside the data with zeros.
// ReadSamples and ReadIntBuffer read sequentially; a File is an audio.Source.
//
// Create and NewWriter write a header for the given parameters, including
// standard records for the date, the program and parameters the header
// cannot express. When the length is not known in advance the header sizes
// are completed by Close; on a sequential stream they keep the placeholder
// values of the file type.
//
// Errors are returned to the caller. With Options.HaltOnError set they are
// logged and the process exits instead.
package afile
