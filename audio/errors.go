// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrInvalidRate     = errors.New("sampling rate must be positive")
	ErrChannelMismatch = errors.New("channel counts differ")
)
