// SPDX-License-Identifier: EPL-2.0

package afile

import (
	"errors"
	"fmt"
	"os"

	"github.com/ik5/audfile/formats"
	"github.com/ik5/audfile/logger"
)

var (
	// ErrUnknownFormat indicates input that matches no known file type
	ErrUnknownFormat = fmt.Errorf("%w: unknown audio file type", formats.ErrBadMagic)
	// ErrNotWritable indicates a file type that can only be read
	ErrNotWritable = fmt.Errorf("%w: file type cannot be written", formats.ErrUnsupported)
	// ErrClosed indicates use of a closed file
	ErrClosed = errors.New("audio file is closed")
	// ErrMode indicates a read on a file open for writing or the reverse
	ErrMode = errors.New("operation does not match the file mode")
)

// osExit terminates the process under the halt policy. Tests replace it.
var osExit = os.Exit

// check applies the halt policy: with HaltOnError set, a non-nil err is
// logged and the process exits.
func (o *Options) check(err error) error {
	if err == nil || !o.HaltOnError {
		return err
	}
	log := o.Log
	if log == nil {
		log = logger.Stderr("error")
	}
	log.Error("%v", err)
	osExit(1)
	return err
}
