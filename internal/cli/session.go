package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Long: `Start a session. Missing credentials are prompted for.
The token is written to the session file and reused by later commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username == "" {
				if username, err = a.prompt(cmd, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.prompt(cmd, "Password: "); err != nil {
					return err
				}
			}

			if err := a.ctrl.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			ok(cmd, "Logged in as %s", color.CyanString(username))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.session.CurrentToken() == "" {
				warn(cmd, "Not logged in")
				return nil
			}
			if err := a.ctrl.Logout(cmd.Context()); err != nil {
				return err
			}
			ok(cmd, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := a.session.CurrentToken()
			if token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			// The server holds the signing key; only the payload is read here.
			claims := jwt.MapClaims{}
			if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
				return fmt.Errorf("session file %s holds an unreadable token: %w", a.session.Path(), err)
			}

			username, _ := claims["username"].(string)
			fmt.Fprintf(cmd.OutOrStdout(), "User:    %s\n", color.CyanString(username))

			exp, err := claims.GetExpirationTime()
			if err == nil && exp != nil {
				state := "valid"
				if time.Now().After(exp.Time) {
					state = color.YellowString("expired")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Expires: %s (%s)\n", exp.Time.Local().Format(time.RFC1123), state)
			}
			return nil
		},
	}
}
