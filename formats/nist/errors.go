// SPDX-License-Identifier: EPL-2.0

package nist

import (
	"fmt"

	"github.com/ik5/audfile/formats"
)

var (
	ErrNotSphereFile       = fmt.Errorf("%w: not a NIST SPHERE file", formats.ErrBadMagic)
	ErrMissingField        = fmt.Errorf("%w: NIST header field", formats.ErrMissingChunk)
	ErrBadField            = fmt.Errorf("%w: NIST header field", formats.ErrInconsistent)
	ErrUnsupportedEncoding = fmt.Errorf("%w: NIST sample coding", formats.ErrUnsupported)
)
