// SPDX-License-Identifier: EPL-2.0

package esps

import (
	"fmt"

	"github.com/ik5/audfile/formats"
)

var (
	ErrNotESPSFile  = fmt.Errorf("%w: not an ESPS file", formats.ErrBadMagic)
	ErrNoSampleRate = fmt.Errorf("%w: ESPS record_freq", formats.ErrMissingChunk)
	ErrBadLayout    = fmt.Errorf("%w: ESPS record layout", formats.ErrUnsupported)
)
