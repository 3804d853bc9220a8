// Package label provides the label subcommands: list, create, delete.
package label

import (
	"github.com/spf13/cobra"
)

// Cmd returns the label parent command
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage project labels",
		Long:  "List, create, and delete the labels of a project.",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
