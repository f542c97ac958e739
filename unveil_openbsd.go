// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Errors returned by unveil or unveilBlock.
const (
	errUnveilE2BIG  unveilError = "call 'unveil' failed: per-process limit reached"
	errUnveilENOENT unveilError = "call 'unveil' failed: path does not exist"
	errUnveilEINVAL unveilError = "call 'unveil' failed: invalid value for 'permissions'"
	errUnveilEPERM  unveilError = "call 'unveil' failed: called after locking"
)

type unveilError string

func (e unveilError) Error() string { return string(e) }

func translateUnveilErrorCode(err error) error {
	switch err {
	case nil:
		return nil
	case syscall.E2BIG:
		return errUnveilE2BIG
	case syscall.ENOENT:
		return errUnveilENOENT
	case syscall.EINVAL:
		return errUnveilEINVAL
	case syscall.EPERM:
		return errUnveilEPERM
	}
	return err
}

// unveil registers paths that shall remain accessible.
func unveil(path, perm string) error {
	return translateUnveilErrorCode(unix.Unveil(path, perm))
}

// unveilBlock removes access to any remaining paths from this process.
//
// Call this last, after any invocations of unveil.
func unveilBlock() error {
	return translateUnveilErrorCode(unix.UnveilBlock())
}
