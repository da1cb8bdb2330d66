// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"errors"

	"github.com/ik5/audfile/internal/binio"
)

var (
	// ErrBadMagic indicates a header whose identifying bytes do not match
	ErrBadMagic = errors.New("bad file identifier")
	// ErrMissingChunk indicates a required chunk or header field is absent
	ErrMissingChunk = errors.New("missing required header information")
	// ErrInconsistent indicates header lengths that cannot be reconciled
	ErrInconsistent = errors.New("inconsistent header lengths")
	// ErrUnsupported indicates a recognised but unsupported container or encoding
	ErrUnsupported = errors.New("unsupported audio format")

	// ErrTruncated indicates the file ended inside the header
	ErrTruncated = binio.ErrTruncated
	// ErrNotSeekable indicates random access was required on a sequential stream
	ErrNotSeekable = binio.ErrNotSeekable
)
