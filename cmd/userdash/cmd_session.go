package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"userdash/internal/auth"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store a session",
		Long: fmt.Sprintf(`Sign in with the demo account and store the session, so the
dashboard opens straight on the users page.

The password may also be given in %s.`, envPassword),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if password == "" {
				password = os.Getenv(envPassword)
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			session, err := a.auth.Login(ctx, auth.Credentials{Email: email, Password: password})
			if err != nil {
				if errors.Is(err, auth.ErrInvalidCredentials) {
					return err
				}
				return fmt.Errorf("sign-in failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", session.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

const envPassword = "USERDASH_PASSWORD"

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.auth.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			if err := a.auth.Logout(); err != nil {
				return fmt.Errorf("sign-out failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
