// SPDX-License-Identifier: EPL-2.0

package text

import (
	"fmt"

	"github.com/ik5/audfile/formats"
)

var (
	ErrNotTextFile  = fmt.Errorf("%w: text audio files start with %q", formats.ErrBadMagic, sentinel)
	ErrNoSampleRate = fmt.Errorf("%w: text audio header gives no sampling frequency", formats.ErrMissingChunk)
	ErrBadField     = fmt.Errorf("%w: text audio header value", formats.ErrInconsistent)
)
