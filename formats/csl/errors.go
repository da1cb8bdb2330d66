// SPDX-License-Identifier: EPL-2.0

package csl

import (
	"fmt"

	"github.com/ik5/audfile/formats"
)

var (
	ErrNotCSLFile = fmt.Errorf("%w: not a CSL NSP file", formats.ErrBadMagic)
	ErrNoHeader   = fmt.Errorf("%w: no HEDR or HDR8 chunk", formats.ErrMissingChunk)
	ErrNoData     = fmt.Errorf("%w: no SDA_, SD_B or SDAB chunk", formats.ErrMissingChunk)
)
