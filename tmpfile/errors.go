// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmpfile

import (
	"strconv"
	"syscall"

	"github.com/pkg/errors"
)

// Kind classifies errors returned by New.
// Use it with errors.Is:
//
//	if errors.Is(err, tmpfile.ErrResourceExhausted) { … }
type Kind string

// Error implements the error interface.
func (k Kind) Error() string { return string(k) }

// Kinds of errors.
const (
	// ErrInvalidName is returned for names with NUL bytes, path separators
	// (with files on disk), or names the kernel deems too long.
	ErrInvalidName Kind = "invalid name"

	// ErrResourceExhausted is returned if the OS refuses to hand out yet another
	// descriptor, or has no space left for the file.
	ErrResourceExhausted Kind = "resource exhausted"

	// ErrIoFailure covers everything else.
	ErrIoFailure Kind = "i/o failure"
)

// Error is the concrete type of all errors returned by this package.
type Error struct {
	Kind Kind
	Op   string // the failing step, like "memfd_create"
	Name string // as given to New
	Err  error  // the underlying cause, can be nil
}

func (e *Error) Error() string {
	s := "tmpfile: " + e.Op + " " + strconv.Quote(e.Name) + ": " + string(e.Kind)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the Kind, so that callers need not know about type Error.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func newError(op, name string, err error) *Error {
	return &Error{
		Kind: classify(err),
		Op:   op,
		Name: name,
		Err:  err,
	}
}

func classify(err error) Kind {
	switch {
	case err == nil:
		return ErrIoFailure
	case errors.Is(err, syscall.EINVAL),
		errors.Is(err, syscall.ENAMETOOLONG):
		return ErrInvalidName
	case errors.Is(err, syscall.EMFILE),
		errors.Is(err, syscall.ENFILE),
		errors.Is(err, syscall.ENOMEM),
		errors.Is(err, syscall.ENOSPC),
		errors.Is(err, syscall.EDQUOT):
		return ErrResourceExhausted
	}
	return ErrIoFailure
}
