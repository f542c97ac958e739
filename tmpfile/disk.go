// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmpfile

import (
	"os"
	"runtime"
	"sync"
)

// DiskFile is a uniquely named file in the system's temporary directory.
//
// Two handles exist: the one that created the entry, owned by a guard that is
// responsible for removing the entry, and a second one for whoever claims the
// contents by calling IntoFile. External tools open Path and get a third,
// so nobody shares a file offset with anybody else.
type DiskFile struct {
	guard   *guard
	f       *os.File
	cleanup runtime.Cleanup
}

// guard removes the directory entry exactly once.
type guard struct {
	path    string
	created *os.File
	once    sync.Once
	err     error
}

func (g *guard) release() error {
	g.once.Do(func() {
		g.created.Close()
		g.err = os.Remove(g.path)
	})
	return g.err
}

// NewDiskFile creates a file in os.TempDir whose name starts with 'name'.
// The remainder of the name is chosen by os.CreateTemp.
func NewDiskFile(name string) (*DiskFile, error) {
	return newDiskFileIn("", name)
}

func newDiskFileIn(dir, name string) (*DiskFile, error) {
	if err := validateName(name, true); err != nil {
		return nil, err
	}

	created, err := os.CreateTemp(dir, name)
	if err != nil {
		return nil, newError("create", name, err)
	}
	g := &guard{path: created.Name(), created: created}

	f, err := reopen(g.path)
	if err != nil {
		g.release()
		return nil, newError("reopen", name, err)
	}

	d := &DiskFile{guard: g, f: f}
	d.cleanup = runtime.AddCleanup(d, releaseUnclaimed, unclaimed{g, f})
	return d, nil
}

type unclaimed struct {
	g *guard
	f *os.File
}

func releaseUnclaimed(u unclaimed) {
	u.f.Close()
	u.g.release()
}

// Path returns the real location of the file.
func (d *DiskFile) Path() string {
	if d.guard == nil {
		return ""
	}
	return d.guard.path
}

// IntoFile returns the handle that has been opened in NewDiskFile,
// and removes the directory entry. The handle remains usable.
//
// Should removal fail, because some other process still holds the file
// without sharing the right to delete it, the removal is retried
// once the returned handle has been collected.
func (d *DiskFile) IntoFile() *os.File {
	if d.guard == nil {
		return nil
	}
	d.cleanup.Stop()
	g, f := d.guard, d.f
	d.guard, d.f = nil, nil

	if err := g.release(); err != nil && !os.IsNotExist(err) {
		runtime.AddCleanup(f, removeLater, g.path)
	}
	return f
}

func removeLater(path string) {
	_ = os.Remove(path)
}

// Close removes the file without handing out its contents.
func (d *DiskFile) Close() error {
	if d.guard == nil {
		return nil
	}
	d.cleanup.Stop()
	g, f := d.guard, d.f
	d.guard, d.f = nil, nil

	err := f.Close()
	if rerr := g.release(); rerr != nil && !os.IsNotExist(rerr) {
		return rerr
	}
	return err
}
