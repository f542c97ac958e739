// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command extract hands documents to an external extractor
// and returns what it has written.
//
//	extract run --input report.pdf -- java -jar tabula.jar --outfile {out} {in}
//	extract serve --listen :9000 --scope /convert/ -- java -jar tabula.jar --outfile {out} {in}
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Filled in by serve.go, which is not available with all build tags.
var subcommands []func(logger func() *zap.Logger) *cobra.Command

func newRootCommand() *cobra.Command {
	var (
		verbose bool
		logger  *zap.Logger
	)

	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "extract",
		Short: "Runs an extractor on documents.",
		Long: `Extract passes documents to an external tool through temporary files,
which live in memory on Linux, and returns what the tool has written to {out}.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level, in a human readable format.")

	getLogger := func() *zap.Logger { return logger }
	rootCmd.AddCommand(newRunCommand(getLogger))
	for _, sub := range subcommands {
		rootCmd.AddCommand(sub(getLogger))
	}

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
