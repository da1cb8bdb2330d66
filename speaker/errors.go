// SPDX-License-Identifier: EPL-2.0

package speaker

import "errors"

var (
	// ErrUnknownPosition indicates a keyword that names no position or group
	ErrUnknownPosition = errors.New("unknown loudspeaker position")
	// ErrDuplicate indicates a position that appears twice
	ErrDuplicate = errors.New("duplicate loudspeaker position")
	// ErrTooMany indicates more positions than channels or known positions
	ErrTooMany = errors.New("too many loudspeaker positions")
)
