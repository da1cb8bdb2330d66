// SPDX-License-Identifier: EPL-2.0

package info

import "errors"

var (
	// ErrInfoFull indicates the record set would exceed its size limit
	ErrInfoFull = errors.New("information records exceed size limit")
)
