// SPDX-License-Identifier: EPL-2.0

package au

import (
	"fmt"

	"github.com/ik5/audfile/formats"
)

var (
	ErrNotAuFile           = fmt.Errorf("%w: not an AU file", formats.ErrBadMagic)
	ErrUnsupportedEncoding = fmt.Errorf("%w: AU data encoding", formats.ErrUnsupported)
)
