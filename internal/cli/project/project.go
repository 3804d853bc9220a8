// Package project provides the project subcommands: list, show,
// create, delete, and member management.
package project

import (
	"github.com/spf13/cobra"
)

// Cmd returns the project parent command
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
		Long:  "List, inspect, create, and delete projects, and manage their members.",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(MemberCmd())

	return cmd
}
