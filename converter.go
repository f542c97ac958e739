// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	execute "github.com/alexellis/go-execute/v2"
	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"blitznote.com/src/caddy.extract/tmpfile"
)

// Placeholders in Converter.Command.
const (
	PlaceholderIn  = "{in}"
	PlaceholderOut = "{out}"
)

// Converter runs an external extractor that reads from and writes to paths.
type Converter struct {
	// The extractor and its arguments.
	// PlaceholderOut is mandatory, PlaceholderIn optional.
	Command []string

	// 0 means no limit.
	Timeout time.Duration

	Logger *zap.Logger
}

// Validate reports mistakes in the configuration that would make every Convert fail.
func (c *Converter) Validate() error {
	if len(c.Command) == 0 || c.Command[0] == "" {
		return ErrMissingCommand
	}
	if !hasPlaceholder(c.Command, PlaceholderOut) {
		return ErrMissingOutputPlaceholder
	}
	return nil
}

func hasPlaceholder(argv []string, placeholder string) bool {
	for _, arg := range argv {
		if strings.Contains(arg, placeholder) {
			return true
		}
	}
	return false
}

func expandPlaceholders(argv []string, inPath, outPath string) []string {
	r := strings.NewReplacer(PlaceholderIn, inPath, PlaceholderOut, outPath)
	expanded := make([]string, len(argv))
	for i := range argv {
		expanded[i] = r.Replace(argv[i])
	}
	return expanded
}

// Convert feeds 'src' to the extractor and returns what it has written,
// as file positioned at its start. The caller must close it.
//
// 'nameHint' names the temporary files, see tmpfile.New.
func (c *Converter) Convert(ctx context.Context, src io.Reader, nameHint string) (*os.File, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("hint", nameHint))

	// Spooled even if the extractor reads stdin: only then is a broken or
	// oversized upload noticed before the extractor reports success.
	in, err := tmpfile.New(nameHint + "-in")
	if err != nil {
		return nil, err
	}
	inPath := in.Path()
	n, err := spool(inPath, src)
	if err != nil {
		in.Close()
		return nil, errors.Wrap(err, "spooling the document")
	}
	log.Debug("document spooled", zap.String("size", humanize.IBytes(uint64(n))))

	var task execute.ExecTask
	closeIn := func() { in.Close() }
	if !hasPlaceholder(c.Command, PlaceholderIn) {
		stdin := in.IntoFile()
		task.Stdin = stdin
		inPath = ""
		closeIn = func() { stdin.Close() }
	}

	out, err := tmpfile.New(nameHint)
	if err != nil {
		closeIn()
		return nil, err
	}
	release := func() {
		closeIn()
		out.Close()
	}

	argv := expandPlaceholders(c.Command, inPath, out.Path())
	task.Command, task.Args = argv[0], argv[1:]

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	started := time.Now()
	done := run(ctx, task)
	var o outcome
	select {
	case o = <-done:
		defer release()
	case <-ctx.Done():
		// Descendants of the extractor can keep its stdout and stderr open
		// past the kill, which delays Execute. Its files stay valid until then.
		go func() {
			<-done
			release()
		}()
	}
	log = log.With(zap.Duration("duration", time.Since(started)))

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.Warn("extractor timed out", zap.Duration("timeout", c.Timeout))
		return nil, ErrToolTimeout
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case o.ExitCode != 0:
		log.Info("extractor failed", zap.Int("exit_code", o.ExitCode), zap.String("stderr", o.Stderr))
		return nil, &ToolError{
			Command:  task.Command,
			ExitCode: o.ExitCode,
			Stderr:   strings.TrimSpace(o.Stderr),
		}
	case o.err != nil:
		return nil, errors.Wrapf(o.err, "running %s", task.Command)
	}

	log.Debug("extractor done")
	return out.IntoFile(), nil
}

type outcome struct {
	execute.ExecResult
	err error
}

// run starts the extractor. The returned channel yields once, after it has exited.
func run(ctx context.Context, task execute.ExecTask) <-chan outcome {
	done := make(chan outcome, 1)
	go func() {
		res, err := task.Execute(ctx)
		done <- outcome{ExecResult: res, err: err}
	}()
	return done
}

// spool writes 'src' to 'path' the way an external tool would:
// by opening the path anew.
func spool(path string, src io.Reader) (int64, error) {
	w, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(w, src)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return n, err
}
