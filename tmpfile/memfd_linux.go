// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmpfile

import (
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sys/unix"
)

var _ Provider = (*MemFile)(nil)

// MemFile is an anonymous file living in memory.
//
// It has no link in any filesystem. Its Path points into this process'
// descriptor table, which relies on two preconditions that no type can enforce:
//   - the descriptor stays open, and under this number, until IntoFile or Close;
//   - the path is only opened from within this process, or by a child
//     that resolves it against the parent's /proc entry.
//
// Tests check both.
type MemFile struct {
	fd      int
	cleanup runtime.Cleanup
}

// NewMemFile creates an anonymous memory-backed file.
// The 'name' shows up in /proc/<pid>/fd as "memfd:<name>" and serves no other purpose.
func NewMemFile(name string) (*MemFile, error) {
	if err := validateName(name, false); err != nil {
		return nil, err
	}

	// Close-on-exec: children are meant to open the path, not to inherit the descriptor.
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, newError("memfd_create", name, err)
	}

	m := &MemFile{fd: fd}
	m.cleanup = runtime.AddCleanup(m, closeDescriptor, fd)
	return m, nil
}

func closeDescriptor(fd int) {
	_ = unix.Close(fd)
}

// Path synthesizes "/proc/<pid>/fd/<fd>" using the current process id.
//
// Don't call this in a forked process, or after the descriptor has been
// duplicated to a different number.
func (m *MemFile) Path() string {
	if m.fd < 0 {
		return ""
	}
	return "/proc/" + strconv.Itoa(os.Getpid()) + "/fd/" + strconv.Itoa(m.fd)
}

// IntoFile hands the descriptor over to an *os.File.
// No syscall is needed for this, and from now on closing the returned file
// is what frees the memory.
func (m *MemFile) IntoFile() *os.File {
	if m.fd < 0 {
		return nil
	}
	name := m.Path()
	m.cleanup.Stop()
	fd := m.fd
	m.fd = -1
	return os.NewFile(uintptr(fd), name)
}

// Close frees the memory without handing out the contents.
func (m *MemFile) Close() error {
	if m.fd < 0 {
		return nil
	}
	m.cleanup.Stop()
	fd := m.fd
	m.fd = -1
	if err := unix.Close(fd); err != nil {
		return &os.PathError{Op: "close", Path: "memfd", Err: err}
	}
	return nil
}
