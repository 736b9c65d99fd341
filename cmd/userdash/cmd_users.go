package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"userdash/internal/httpapi"
	"userdash/internal/query"
	"userdash/internal/ui/views"
	"userdash/internal/users"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	var (
		page     int
		pageSize int
		term     string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Print one page of users",
		Long: `Fetch one page of users and print it as a table.

The page starts from --query and is then adjusted by --page, --page-size and
--search. The search term filters the fetched page by name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			q := query.Parse(opts.query, a.cfg.UI.PageSize)
			flags := cmd.Flags()
			if flags.Changed("page") {
				q.Page = page
			}
			if flags.Changed("page-size") {
				q.PageSize = pageSize
			}
			if flags.Changed("search") {
				q = query.WithSearch(q, term)
			}
			q = query.Normalize(q, a.cfg.UI.PageSize)

			ctx, cancel := commandContext(cmd)
			defer cancel()

			loader := users.NewLoader(a.client, a.cfg.API.Seed, a.bus)
			snap, _ := loader.Load(ctx, q.Key())
			if snap.Err != nil {
				return snap.Err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(httpapi.NewUsersResponse(q, snap.Result))
			}

			found := snap.Result.Users
			if len(found) == 0 {
				if q.Search != "" {
					fmt.Fprintf(out, "No users match %q on this page\n", q.Search)
				} else {
					fmt.Fprintln(out, "No users found")
				}
			} else {
				tr := views.NewTableRenderer(views.NewStyles(a.cfg.ThemeMode()))
				fmt.Fprintln(out, tr.Render(found, -1, 0))
			}
			fmt.Fprintln(out, views.Footer(q.Page, users.PageCount(q.PageSize), len(found)))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Users per page (default from config)")
	cmd.Flags().StringVar(&term, "search", "", "Only show users whose name contains this")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
