// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// confine hides every path from this process, except for those
// an extraction in 'config' needs.
//
// Does not lock down further calls; see unveilBlock.
func confine(config *ScopeConfiguration) error {
	paths := []struct{ path, perm string }{
		{os.TempDir(), "rwc"},
	}
	if config.KeepIn != "" {
		paths = append(paths, struct{ path, perm string }{config.KeepIn, "rwc"})
	}
	if len(config.Command) > 0 {
		bin, err := exec.LookPath(config.Command[0])
		if err != nil {
			return errors.Wrap(err, "confine")
		}
		paths = append(paths, struct{ path, perm string }{bin, "rx"})
	}

	for _, p := range paths {
		if err := unveil(p.path, p.perm); err != nil {
			return errors.Wrapf(err, "confine to %s", p.path)
		}
		config.logger().Debug("unveiled", zap.String("path", p.path), zap.String("perm", p.perm))
	}
	return nil
}

// Lockdown hides every path that no confined handler has asked for,
// and prevents any further changes to that. Call it once, after all
// handlers have been set up.
//
// Is a nop on operating systems other than OpenBSD.
func Lockdown() error {
	return unveilBlock()
}
