// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmpfile

import (
	"os"
)

// Provider is what every variant of File implements.
//
// The variant is chosen when compiling, see type File,
// therefore this exists to keep both honest rather than for dispatching.
type Provider interface {
	// Path returns where external tools can open the file.
	// Returns "" once the provider has been consumed or closed.
	Path() string

	// IntoFile consumes the provider and returns a handle
	// positioned at the start of what has been written to Path.
	IntoFile() *os.File

	// Close discards the provider without converting it.
	Close() error
}

var (
	_ Provider = (*DiskFile)(nil)
)
