// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ioutil helps with response bodies which must be both drained and closed.
package ioutil

import (
	"errors"
	"fmt"
	"io"
)

type CloseError struct {
	Cause error
}

func (e CloseError) Error() string {
	return fmt.Sprintf("failed to close reader: %s", e.Cause)
}

func (e CloseError) Unwrap() error {
	return e.Cause
}

// DrainAndClose discards the rest of rc and closes it.
func DrainAndClose(rc io.ReadCloser) (n int64, err error) {
	defer tryClose(&err, rc)
	return io.Copy(io.Discard, rc)
}

func tryClose(err *error, c io.Closer) {
	closeErr := c.Close()
	if closeErr == nil {
		return
	}
	*err = errors.Join(*err, CloseError{Cause: closeErr})
}
