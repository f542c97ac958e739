// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blitznote.com/src/caddy.extract"
)

func newRunCommand(logger func() *zap.Logger) *cobra.Command {
	var (
		input, output, name string
		timeout             time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run --input FILE [--output FILE] -- COMMAND [ARGS...]",
		Short: "Converts one document.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}
			if name == "" && input != "-" {
				name = extract.NameHint(filepath.Base(input), nil, nil)
			}
			if name == "" {
				name = "extract"
			}

			c := &extract.Converter{
				Command: args,
				Timeout: timeout,
				Logger:  logger(),
			}
			result, err := c.Convert(cmd.Context(), src, name)
			if err != nil {
				return err
			}
			defer result.Close()

			var dst io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				dst = f
			}
			_, err = io.Copy(dst, result)
			return errors.Wrap(err, "writing the result")
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "The document; '-' reads from stdin.")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Where to write the result; '-' is stdout.")
	cmd.Flags().StringVar(&name, "name", "", "Name hint for the temporary files, derived from --input if empty.")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Kill the extractor after this long; 0 disables the limit.")
	cmd.Example = "  extract run -i report.pdf -o report.csv -- java -jar tabula.jar --outfile {out} {in}"

	return cmd
}
