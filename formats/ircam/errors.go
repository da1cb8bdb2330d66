// SPDX-License-Identifier: EPL-2.0

package ircam

import (
	"fmt"

	"github.com/ik5/audfile/formats"
)

var (
	ErrNotIRCAMFile        = fmt.Errorf("%w: not an IRCAM soundfile", formats.ErrBadMagic)
	ErrUnsupportedEncoding = fmt.Errorf("%w: IRCAM pack mode", formats.ErrUnsupported)
)
