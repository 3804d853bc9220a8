// Package auth provides the login, register, logout, and whoami
// subcommands.
package auth

import (
	"github.com/spf13/cobra"
)

// Cmd returns the auth parent command
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the session",
		Long:  "Log in, register, and inspect the current session.",
	}

	cmd.AddCommand(LoginCmd())
	cmd.AddCommand(RegisterCmd())
	cmd.AddCommand(LogoutCmd())
	cmd.AddCommand(WhoamiCmd())

	return cmd
}
