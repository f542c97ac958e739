// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protofile

import (
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func init() {
	IntentNew = intentNewUnix
}

// Set once O_TMPFILE turned out to be unsupported, to not try it again.
var unsupportedTmpFile atomic.Bool

// unixProtoFile utilizes O_TMPFILE.
// Although it might seem that data is written to the directory itself,
// it actually goes into a nameless file.
type unixProtoFile struct {
	*os.File

	finalName string
}

func intentNewUnix(dir, filename string) (ProtoFile, error) {
	if unsupportedTmpFile.Load() {
		return intentNewUnixDotted(dir, filename)
	}
	if err := os.MkdirAll(dir, permBitsDir); err != nil {
		return nil, err
	}

	fd, err := unix.Open(dir, unix.O_WRONLY|unix.O_TMPFILE|unix.O_CLOEXEC, permBitsFile)
	// did it fail because…
	switch {
	case err == nil:
	case errors.Is(err, unix.EISDIR), errors.Is(err, unix.ENOENT): // … the kernel does not know O_TMPFILE
		unsupportedTmpFile.Store(true)
		fallthrough
	case errors.Is(err, unix.EOPNOTSUPP): // … the filesystem does not support it
		return intentNewUnixDotted(dir, filename)
	default: // … something 'regular'.
		return nil, &os.PathError{Op: "open", Path: dir, Err: err}
	}

	return &unixProtoFile{
		File:      os.NewFile(uintptr(fd), ""),
		finalName: filepath.Join(dir, filename),
	}, nil
}

// Zap is a NOP, because O_TMPFILE files that have not been named get discarded anyway.
func (p *unixProtoFile) Zap() error {
	err := p.File.Close()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

// Persist gives the file a name.
//
// Nameless files can be identified using tuple (PID, FD) and named
// by linking the FD to a name in the filesystem on which it had been opened.
func (p *unixProtoFile) Persist() error {
	if err := p.File.Sync(); err != nil {
		return err
	}

	oldpath := "/proc/self/fd/" + strconv.Itoa(int(p.File.Fd()))
	err := unix.Linkat(unix.AT_FDCWD, oldpath, unix.AT_FDCWD, p.finalName, unix.AT_SYMLINK_FOLLOW)
	if errors.Is(err, unix.EEXIST) { // Someone claimed our name!
		finfo, err2 := os.Stat(p.finalName)
		if err2 == nil && !finfo.IsDir() {
			// Emulate Create and "overwrite" the other file.
			os.Remove(p.finalName)
			err = unix.Linkat(unix.AT_FDCWD, oldpath, unix.AT_FDCWD, p.finalName, unix.AT_SYMLINK_FOLLOW)
		}
	}
	if err != nil {
		p.File.Close()
		return &os.LinkError{Op: "linkat", Old: oldpath, New: p.finalName, Err: err}
	}
	return p.File.Close()
}

func (p *unixProtoFile) SizeWillBe(numBytes uint64) error {
	return fallocate(p.File, numBytes)
}

// SizeWillBe asks the filesystem to reserve some space for this file's contents.
func (p *generalizedProtoFile) SizeWillBe(numBytes uint64) error {
	return fallocate(p.File, numBytes)
}

func fallocate(f *os.File, numBytes uint64) error {
	if numBytes <= reserveFileSizeThreshold {
		return nil
	}
	if numBytes > maxInt64 {
		numBytes = maxInt64
	}

	fd := int(f.Fd())
	err := unix.Fallocate(fd, 0, 0, int64(numBytes))
	if errors.Is(err, unix.EOPNOTSUPP) {
		return nil
	}
	// best-effort
	_ = unix.Fadvise(fd, 0, int64(numBytes), unix.FADV_SEQUENTIAL)
	return err
}

// unixDottedProtoFile is used if O_TMPFILE didn't work.
//
// It takes a write lease on the dot-file, so that a process watching
// for new files gets EWOULDBLOCK on a premature non-blocking open.
type unixDottedProtoFile struct {
	*generalizedProtoFile
}

func intentNewUnixDotted(dir, filename string) (ProtoFile, error) {
	orig, err := intentNewUniversal(dir, filename)
	if err != nil {
		return nil, err
	}
	g := orig.(*generalizedProtoFile)

	// An error is not expected because we created that file, with a random name;
	// either the kernel does not support leases, or something else holds one.
	_, _ = unix.FcntlInt(g.File.Fd(), unix.F_SETLEASE, unix.F_WRLCK)

	return &unixDottedProtoFile{generalizedProtoFile: g}, nil
}

func (p *unixDottedProtoFile) Zap() error {
	if p.persisted {
		return nil
	}
	_, _ = unix.FcntlInt(p.File.Fd(), unix.F_SETLEASE, unix.F_UNLCK)
	return p.generalizedProtoFile.Zap()
}

func (p *unixDottedProtoFile) Persist() error {
	_, _ = unix.FcntlInt(p.File.Fd(), unix.F_SETLEASE, unix.F_UNLCK)
	return p.generalizedProtoFile.Persist()
}
