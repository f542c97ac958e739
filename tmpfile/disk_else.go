//go:build !windows

package tmpfile

import (
	"os"
)

// reopen opens the file a second time, for an independent offset.
func reopen(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}
