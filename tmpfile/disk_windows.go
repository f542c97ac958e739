// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmpfile

import (
	"os"

	"golang.org/x/sys/windows"
)

// reopen opens the file a second time, sharing the right to delete it,
// so the entry can be removed while the handle is in use.
// Without that, Windows refuses os.Remove until every handle has been closed.
func reopen(path string) (*os.File, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	h, err := windows.CreateFile(p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_TEMPORARY, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return os.NewFile(uintptr(h), path), nil
}
