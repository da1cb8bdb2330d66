// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"

	"github.com/ik5/audfile/formats"
)

var (
	ErrNotAiffFile         = fmt.Errorf("%w: not an AIFF or AIFF-C file", formats.ErrBadMagic)
	ErrNoCommonChunk       = fmt.Errorf("%w: no COMM chunk before sound data", formats.ErrMissingChunk)
	ErrNoSoundChunk        = fmt.Errorf("%w: no SSND chunk", formats.ErrMissingChunk)
	ErrUnsupportedEncoding = fmt.Errorf("%w: AIFF data encoding", formats.ErrUnsupported)
	ErrBadCommonChunk      = fmt.Errorf("%w: AIFF COMM chunk", formats.ErrInconsistent)
)
