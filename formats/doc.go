// SPDX-License-Identifier: EPL-2.0

// Package formats identifies audio container types and defines the values
// exchanged between the container packages and the file handle.
//
// # Detection
//
// Detect examines the first Lookahead bytes of a seekable stream against an
// ordered signature table and rewinds:
//
//	c, name, err := formats.Detect(f, false)
//	if c == formats.Unsupported {
//	    fmt.Println("cannot read", name)
//	}
//
// Recognised formats that cannot be read (Ogg, FLAC, SPW, SPPACK, INRS, ...)
// are reported as Unsupported with a descriptive name. Data with no signature is Unknown, or
// Headerless when the caller supplies raw data parameters.
//
// # Decoders and encoders
//
// Each container package under formats exposes
//
//	Decode(r *binio.Reader, o formats.DecodeOptions) (*formats.ReadParams, error)
//
// and writable containers also
//
//	Encode(w *binio.Writer, p *formats.WriteParams, recs *info.Records) (*formats.Header, error)
//
// A Header lists the size fields to rewrite when the data length was not
// known at open time; Header.Finalize does so on seekable streams.
package formats
