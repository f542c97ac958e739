// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"blitznote.com/src/caddy.extract/protofile"
)

// keepCopy writes the contents of 'f' to 'dir/filename',
// where it will appear only once complete. 'f' is rewound afterwards.
func keepCopy(f *os.File, size int64, dir, filename string) error {
	p, err := protofile.IntentNew(dir, filename)
	if err != nil {
		return errors.Wrap(err, "keeping the result")
	}
	defer p.Zap()

	if size > 0 {
		p.SizeWillBe(uint64(size))
	}
	if _, err := io.Copy(p, f); err != nil {
		return errors.Wrap(err, "keeping the result")
	}
	if err := p.Persist(); err != nil {
		return errors.Wrap(err, "keeping the result")
	}

	_, err = f.Seek(0, io.SeekStart)
	return err
}
