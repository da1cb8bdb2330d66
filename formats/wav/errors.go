// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"

	"github.com/ik5/audfile/formats"
)

var (
	ErrNotWavFile          = fmt.Errorf("%w: not a RIFF/WAVE file", formats.ErrBadMagic)
	ErrNoFormatChunk       = fmt.Errorf("%w: no fmt chunk before data", formats.ErrMissingChunk)
	ErrNoDataChunk         = fmt.Errorf("%w: no data chunk", formats.ErrMissingChunk)
	ErrUnsupportedEncoding = fmt.Errorf("%w: WAVE data encoding", formats.ErrUnsupported)
	ErrBadFormatChunk      = fmt.Errorf("%w: WAVE fmt chunk", formats.ErrInconsistent)
)
