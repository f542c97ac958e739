// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !caddyserver1.0

package main

import (
	"context"
	"net/http"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blitznote.com/src/caddy.extract"
)

func init() {
	subcommands = append(subcommands, newServeCommand)
}

func newServeCommand(logger func() *zap.Logger) *cobra.Command {
	var (
		listen, scope, maxFilesize string
		cfg                        = extract.NewDefaultConfiguration()
	)

	cmd := &cobra.Command{
		Use:   "serve [flags] -- COMMAND [ARGS...]",
		Short: "Accepts documents by PUT or POST, and answers with the results.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Command = args
			cfg.Logger = logger()
			if maxFilesize != "" {
				n, err := humanize.ParseBytes(maxFilesize)
				if err != nil {
					return err
				}
				cfg.MaxFilesize = n
			}

			h, err := extract.NewHandler(scope, cfg, nil)
			if err != nil {
				return err
			}
			if cfg.Confine {
				if err := extract.Lockdown(); err != nil {
					return err
				}
			}
			mux := http.NewServeMux()
			mux.Handle(scope, h)

			srv := &http.Server{
				Addr:              listen,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()

			cfg.Logger.Info("serving", zap.String("listen", listen), zap.String("scope", scope))
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", ":9000", "Address to listen on.")
	cmd.Flags().StringVar(&scope, "scope", "/", "URL path prefix; what follows it names the document.")
	cmd.Flags().StringVar(&maxFilesize, "max-filesize", "", "Refuse larger documents, like 16MiB.")
	cmd.Flags().StringVar(&cfg.KeepIn, "keep-in", "", "Keep every result in this directory.")
	cmd.Flags().StringVar(&cfg.ContentType, "content-type", "", "Content-Type of results; detected if empty.")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Kill the extractor after this long.")
	cmd.Flags().BoolVar(&cfg.Confine, "confine", false, "On OpenBSD, unveil only what the extractor needs.")

	return cmd
}
