package main

import (
	"github.com/spf13/cobra"

	"userdash/internal/httpapi"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the user listing as JSON over HTTP",
		Long: `Start an HTTP server exposing:

  GET /healthz
  GET /api/users?page=&pageSize=&search=

Request logs are written at info level; pass -v to see them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Server.Addr
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			router := httpapi.NewRouter(a.client, httpapi.Options{
				Seed:            a.cfg.API.Seed,
				DefaultPageSize: a.cfg.UI.PageSize,
				RateLimit:       a.cfg.Server.RateLimit,
				Logger:          a.logger,
			})
			cmd.Printf("Listening on http://%s\n", addr)
			return httpapi.Run(ctx, addr, router, a.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
