// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	// ErrUnknownKind indicates an unrecognised sample format keyword
	ErrUnknownKind = errors.New("unknown sample format")
	// ErrBadTextValue indicates a text sample that is not a number
	ErrBadTextValue = errors.New("invalid text sample value")
)
